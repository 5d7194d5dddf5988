package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/adapters/driven/export"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnalysis struct {
	report *domain.AnalysisReport
	reply  *driving.ChatReply
	err    error

	lastName string
	lastData []byte
	lastOpts driving.AnalyzeOptions
}

func (s *stubAnalysis) AnalyzeText(
	_ context.Context, name, text string, opts driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	s.lastName, s.lastData, s.lastOpts = name, []byte(text), opts
	return s.report, s.err
}

func (s *stubAnalysis) AnalyzeDocument(
	_ context.Context, name string, data []byte, opts driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	s.lastName, s.lastData, s.lastOpts = name, data, opts
	return s.report, s.err
}

func (s *stubAnalysis) Inspect(_ context.Context, _ string, _ []byte) (*domain.DocumentAnalysis, error) {
	return nil, s.err
}

func (s *stubAnalysis) Chat(_ context.Context, _ string) (*driving.ChatReply, error) {
	return s.reply, s.err
}

type fixture struct {
	handler   http.Handler
	metrics   *services.MetricsService
	dashboard *services.DashboardService
	blobs     *memory.BlobStore
	analysis  *stubAnalysis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gateway := services.NewGateway(memory.NewKVStore(0))
	metrics := services.NewMetricsService(gateway)
	dashboard := services.NewDashboardService(gateway)
	blobs := memory.NewBlobStore()
	analysis := &stubAnalysis{}

	server, err := NewServer(&Ports{
		Metrics:     metrics,
		Dashboard:   dashboard,
		Persistence: gateway,
		Analysis:    analysis,
		Operations:  services.NewOperationsService(metrics, blobs, nil),
		Export:      services.NewExportService(export.All()...),
	}, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("datacrafter_up 1\n"))
	})))
	require.NoError(t, err)

	return &fixture{
		handler:   server.Handler(),
		metrics:   metrics,
		dashboard: dashboard,
		blobs:     blobs,
		analysis:  analysis,
	}
}

func (f *fixture) do(method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) doJSON(method, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	return f.do(method, path, body, "application/json")
}

func multipartFile(t *testing.T, field, name string, content []byte, extra map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range extra {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf.Bytes(), mw.FormDataContentType()
}

func TestNewServer_RequiresMetrics(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingMetricsService)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestUpload(t *testing.T) {
	f := newFixture(t)

	t.Run("stores the file and records it", func(t *testing.T) {
		body, ct := multipartFile(t, "file", "report.pdf", []byte("%PDF-1.4"), nil)

		w := f.do(http.MethodPost, "/upload", body, ct)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.UploadStatusOK, resp["status"])
		assert.True(t, strings.HasSuffix(resp["blob_name"], ".pdf"))
		assert.Contains(t, f.blobs.Names(), resp["blob_name"])
		require.Len(t, f.metrics.History(), 1)
		assert.Equal(t, "report.pdf", f.metrics.History()[0].FileName)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		body, ct := multipartFile(t, "file", "notes.docx", []byte("x"), nil)

		w := f.do(http.MethodPost, "/upload", body, ct)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		w := f.doJSON(http.MethodPost, "/upload", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "file is required")
	})
}

func TestQuery_WithoutLLM(t *testing.T) {
	f := newFixture(t)

	w := f.doJSON(http.MethodPost, "/query", map[string]any{"question": "what is new?"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestQuery_KOutOfRange(t *testing.T) {
	f := newFixture(t)

	for _, k := range []int{-1, driving.MaxQueryK + 1, 1 << 62} {
		w := f.doJSON(http.MethodPost, "/query", map[string]any{"question": "what?", "k": k})

		assert.Equal(t, http.StatusBadRequest, w.Code, "k=%d", k)
	}
}

func TestQuery_MissingQuestion(t *testing.T) {
	f := newFixture(t)

	w := f.doJSON(http.MethodPost, "/query", map[string]any{"k": 3})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyze(t *testing.T) {
	report := &domain.AnalysisReport{
		Result: domain.AnalysisResult{
			SourceName: "notes.txt",
			Elements: []domain.Element{
				{Title: "Intro", Content: "hello", Category: "General", Keywords: []string{"hi"}},
			},
			ChunkCount: 1,
		},
		SliceCount: 1,
	}

	t.Run("json text body", func(t *testing.T) {
		f := newFixture(t)
		f.analysis.report = report

		w := f.doJSON(http.MethodPost, "/api/analyze", map[string]string{
			"name": "notes.txt", "text": "hello", "prompt": "be brief",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "notes.txt", f.analysis.lastName)
		assert.Equal(t, "be brief", f.analysis.lastOpts.Prompt)
		assert.Equal(t, domain.DocumentTypeText, f.analysis.lastOpts.FileType)

		var got domain.AnalysisReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Len(t, got.Result.Elements, 1)
	})

	t.Run("multipart file", func(t *testing.T) {
		f := newFixture(t)
		f.analysis.report = report
		body, ct := multipartFile(t, "file", "scan.png", []byte{0x89, 'P', 'N', 'G'},
			map[string]string{"prompt": "tables only"})

		w := f.do(http.MethodPost, "/api/analyze", body, ct)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "scan.png", f.analysis.lastName)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, f.analysis.lastData)
		assert.Equal(t, "tables only", f.analysis.lastOpts.Prompt)
	})

	t.Run("rendered as csv", func(t *testing.T) {
		f := newFixture(t)
		f.analysis.report = report

		w := f.doJSON(http.MethodPost, "/api/analyze?format=csv", map[string]string{"text": "hello"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="notes.csv"`)
		assert.Contains(t, w.Body.String(), "Intro")
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixture(t)
		f.analysis.report = report

		w := f.doJSON(http.MethodPost, "/api/analyze?format=docx", map[string]string{"text": "hello"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service errors are mapped", func(t *testing.T) {
		f := newFixture(t)
		f.analysis.err = domain.ErrRateLimited

		w := f.doJSON(http.MethodPost, "/api/analyze", map[string]string{"text": "hello"})

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestChat(t *testing.T) {
	f := newFixture(t)
	f.analysis.reply = &driving.ChatReply{Answer: "hi there"}

	w := f.doJSON(http.MethodPost, "/api/chat", map[string]string{"message": "hello"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"hi there"}`, w.Body.String())
}

func TestMetricsRoutes(t *testing.T) {
	f := newFixture(t)
	f.metrics.RecordOutcome(true)
	f.metrics.RecordOutcome(false)

	w := f.do(http.MethodGet, "/api/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var view domain.AnalyticsView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 50.0, view.Metrics.ErrorRate)

	w = f.do(http.MethodPost, "/api/metrics/reset", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, f.metrics.Analytics().Metrics.ErrorRate)

	w = f.do(http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "datacrafter_up")
}

func TestDashboardRoutes(t *testing.T) {
	f := newFixture(t)

	w := f.doJSON(http.MethodPatch, "/api/dashboard/headers", map[string]string{"mainTitle": "Ops"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ops", f.dashboard.Load().Headers.MainTitle)
	assert.Equal(t, domain.DefaultDashboard().Headers.Subtitle, f.dashboard.Load().Headers.Subtitle)

	w = f.doJSON(http.MethodPost, "/api/dashboard/notifications", map[string]string{
		"type": "info", "message": "backup done",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.dashboard.Load().Notifications, 1)
	assert.Equal(t, "backup done", f.dashboard.Load().Notifications[0].Message)

	w = f.doJSON(http.MethodPut, "/api/dashboard/status", map[string]string{
		"status": domain.SystemDegraded, "message": "slow",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SystemDegraded, f.dashboard.Load().SystemStatus.Status)

	w = f.do(http.MethodPost, "/api/dashboard/reset", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DefaultDashboard().Headers.MainTitle, f.dashboard.Load().Headers.MainTitle)
}

func TestBackupRoutes(t *testing.T) {
	f := newFixture(t)
	f.metrics.IngestDocument(domain.DocumentRecord{FileName: "a.pdf", Type: domain.DocumentTypePDF})

	w := f.do(http.MethodGet, "/api/export", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "datacrafter-backup-")
	backup := w.Body.Bytes()

	w = f.do(http.MethodPost, "/api/clear", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.metrics.History())

	w = f.do(http.MethodPost, "/api/import", backup, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, f.metrics.History(), 1)
	assert.Equal(t, "a.pdf", f.metrics.History()[0].FileName)

	w = f.do(http.MethodPost, "/api/import", []byte("[1,2]"), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest},
		{domain.ErrUnsupportedType, http.StatusBadRequest},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{domain.ErrLLMUnavailable, http.StatusServiceUnavailable},
		{domain.ErrBlobStoreUnavailable, http.StatusServiceUnavailable},
		{domain.ErrAnalysisFailed, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestMissingPorts(t *testing.T) {
	gateway := services.NewGateway(memory.NewKVStore(0))
	server, err := NewServer(&Ports{Metrics: services.NewMetricsService(gateway)})
	require.NoError(t, err)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/dashboard"},
		{http.MethodPost, "/api/chat"},
		{http.MethodGet, "/api/export"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, route.path)
	}
}
