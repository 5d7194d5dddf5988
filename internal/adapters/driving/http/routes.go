package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// API holds the route handlers.
type API struct {
	ports *Ports
}

func registerRoutes(r *gin.Engine, api *API) {
	// Paths the web client has always called
	r.POST("/upload", api.handleUpload)
	r.POST("/query", api.handleQuery)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.POST("/analyze", api.handleAnalyze)
		apiGroup.POST("/chat", api.handleChat)

		apiGroup.GET("/metrics", api.handleAnalytics)
		apiGroup.GET("/metrics/raw", api.handleRawMetrics)
		apiGroup.POST("/metrics/reset", api.handleResetMetrics)

		apiGroup.GET("/dashboard", api.handleDashboard)
		apiGroup.POST("/dashboard/reset", api.handleResetDashboard)
		apiGroup.PATCH("/dashboard/headers", api.handleUpdateHeaders)
		apiGroup.POST("/dashboard/notifications", api.handleAddNotification)
		apiGroup.PUT("/dashboard/status", api.handleSetStatus)

		apiGroup.GET("/export", api.handleExport)
		apiGroup.POST("/import", api.handleImport)
		apiGroup.POST("/clear", api.handleClear)
	}
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleUpload(c *gin.Context) {
	if a.ports.Operations == nil {
		respondUnavailable(c, "upload")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	result, err := a.ports.Operations.Upload(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": result.Status, "blob_name": result.BlobName})
}

func (a *API) handleQuery(c *gin.Context) {
	if a.ports.Operations == nil {
		respondUnavailable(c, "query")
		return
	}

	var payload struct {
		Question string `json:"question" binding:"required"`
		K        int    `json:"k"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if payload.K < 0 || payload.K > driving.MaxQueryK {
		respondError(c, http.StatusBadRequest,
			fmt.Errorf("%w: k must be between 0 and %d", domain.ErrInvalidInput, driving.MaxQueryK))
		return
	}

	answer, err := a.ports.Operations.Query(c.Request.Context(), strings.TrimSpace(payload.Question), payload.K)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// handleAnalyze accepts either a multipart "file" (with an optional
// "prompt" field) or a JSON body {name, text, prompt}. With ?format= the
// result is returned as a rendered export instead of the report.
func (a *API) handleAnalyze(c *gin.Context) {
	if a.ports.Analysis == nil {
		respondUnavailable(c, "analysis")
		return
	}

	var (
		report *domain.AnalysisReport
		err    error
	)
	ctx := c.Request.Context()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			respondMessage(c, http.StatusBadRequest, "file is required")
			return
		}
		data, rerr := readUpload(fileHeader)
		if rerr != nil {
			respondError(c, http.StatusBadRequest, rerr)
			return
		}
		report, err = a.ports.Analysis.AnalyzeDocument(ctx, fileHeader.Filename, data,
			driving.AnalyzeOptions{Prompt: c.PostForm("prompt")})
	} else {
		var payload struct {
			Name   string `json:"name"`
			Text   string `json:"text" binding:"required"`
			Prompt string `json:"prompt"`
		}
		if berr := c.ShouldBindJSON(&payload); berr != nil {
			respondError(c, http.StatusBadRequest, berr)
			return
		}
		if payload.Name == "" {
			payload.Name = "api_text_" + time.Now().Format("2006-01-02")
		}
		report, err = a.ports.Analysis.AnalyzeText(ctx, payload.Name, payload.Text,
			driving.AnalyzeOptions{Prompt: payload.Prompt, FileType: domain.DocumentTypeText})
	}
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}

	if format := c.Query("format"); format != "" {
		a.renderExport(c, format, report.Result)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (a *API) renderExport(c *gin.Context, format string, result domain.AnalysisResult) {
	if a.ports.Export == nil {
		respondUnavailable(c, "export")
		return
	}

	contentType, err := a.ports.Export.ContentType(format)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	ext, err := a.ports.Export.Extension(format)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	var buf bytes.Buffer
	if err := a.ports.Export.Render(format, result, &buf); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	name := baseName(result.SourceName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		name = "analysis"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (a *API) handleChat(c *gin.Context) {
	if a.ports.Analysis == nil {
		respondUnavailable(c, "chat")
		return
	}

	var payload struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	reply, err := a.ports.Analysis.Chat(c.Request.Context(), payload.Message)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (a *API) handleAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, a.ports.Metrics.Analytics())
}

func (a *API) handleRawMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.ports.Metrics.Load())
}

func (a *API) handleResetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, a.ports.Metrics.Reset())
}

func (a *API) handleDashboard(c *gin.Context) {
	if a.ports.Dashboard == nil {
		respondUnavailable(c, "dashboard")
		return
	}
	c.JSON(http.StatusOK, a.ports.Dashboard.Load())
}

func (a *API) handleResetDashboard(c *gin.Context) {
	if a.ports.Dashboard == nil {
		respondUnavailable(c, "dashboard")
		return
	}
	c.JSON(http.StatusOK, a.ports.Dashboard.Reset())
}

func (a *API) handleUpdateHeaders(c *gin.Context) {
	if a.ports.Dashboard == nil {
		respondUnavailable(c, "dashboard")
		return
	}

	var update domain.HeadersUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, a.ports.Dashboard.UpdateHeaders(update))
}

func (a *API) handleAddNotification(c *gin.Context) {
	if a.ports.Dashboard == nil {
		respondUnavailable(c, "dashboard")
		return
	}

	var payload struct {
		Type    string `json:"type"`
		Title   string `json:"title"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	n := a.ports.Dashboard.AddNotification(domain.Notification{
		Type:    payload.Type,
		Title:   payload.Title,
		Message: payload.Message,
	})
	c.JSON(http.StatusCreated, n)
}

func (a *API) handleSetStatus(c *gin.Context) {
	if a.ports.Dashboard == nil {
		respondUnavailable(c, "dashboard")
		return
	}

	var payload struct {
		Status  string `json:"status" binding:"required"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, a.ports.Dashboard.SetSystemStatus(payload.Status, payload.Message))
}

func (a *API) handleExport(c *gin.Context) {
	if a.ports.Persistence == nil {
		respondUnavailable(c, "backup")
		return
	}

	snapshot := a.ports.Persistence.ExportAll()
	name := fmt.Sprintf("datacrafter-backup-%s.json", snapshot.ExportedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.JSON(http.StatusOK, snapshot)
}

func (a *API) handleImport(c *gin.Context) {
	if a.ports.Persistence == nil {
		respondUnavailable(c, "backup")
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	result := a.ports.Persistence.ImportJSON(data)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

func (a *API) handleClear(c *gin.Context) {
	if a.ports.Persistence == nil {
		respondUnavailable(c, "backup")
		return
	}

	result := a.ports.Persistence.ClearAll()
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrDocumentIntelligenceUnavailable),
		errors.Is(err, domain.ErrBlobStoreUnavailable),
		errors.Is(err, domain.ErrNotImplemented):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAnalysisFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "analysis"
	}
	return name
}

func respondUnavailable(c *gin.Context, what string) {
	respondMessage(c, http.StatusServiceUnavailable, what+" is not configured")
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
