// Package http provides the REST proxy: the upload and query endpoints the
// web client calls, plus JSON access to analysis, metrics, dashboard and
// backup operations.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// DefaultMaxBodySize bounds request bodies, uploads included.
const DefaultMaxBodySize = 32 << 20

// ErrMissingMetricsService is returned when the metrics service is not provided.
var ErrMissingMetricsService = errors.New("http: metrics service is required")

// Ports aggregates the driving ports served over HTTP.
// Only Metrics is required; routes whose port is nil answer 503.
type Ports struct {
	Metrics     driving.MetricsService
	Dashboard   driving.DashboardService
	Persistence driving.PersistenceGateway
	Analysis    driving.AnalysisService
	Operations  driving.OperationsService
	Export      driving.ExportService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Metrics == nil {
		return ErrMissingMetricsService
	}
	return nil
}

// Option configures the server.
type Option func(*Server)

// WithMetricsHandler serves h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) { s.maxBodySize = n }
}

// WithAllowedOrigins sets the CORS origins. Empty allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// Server is the REST proxy.
type Server struct {
	api            *API
	engine         *gin.Engine
	metricsHandler http.Handler
	maxBodySize    int64
	origins        []string
}

// NewServer creates a server over the given ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		api:         &API{ports: ports},
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(MaxBodySize(s.maxBodySize))
	engine.Use(CORS(s.origins))

	registerRoutes(engine, s.api)
	if s.metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(s.metricsHandler))
	}

	s.engine = engine
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown: %v", err)
		}
	}()

	logger.Info("REST proxy listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
