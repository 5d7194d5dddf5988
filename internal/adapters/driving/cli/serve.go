package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	resthttp "github.com/custodia-labs/datacrafter/internal/adapters/driving/http"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST proxy",
	Long: `Starts the HTTP server used by the web client.

Endpoints:
  POST /upload            store a PDF or image
  POST /query             ask about the processed documents
  POST /api/analyze       analyse a file or text
  POST /api/chat          chat with the AI model
  GET  /api/metrics       metrics for display
  GET  /api/dashboard     dashboard configuration
  GET  /api/export        backup download
  GET  /metrics           Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default: server.address setting)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable, default: any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if metricsService == nil {
		return errors.New("metrics service not configured")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			addr = settings.Server.Address
		}
	}
	if addr == "" {
		addr = ":8080"
	}

	opts := []resthttp.Option{resthttp.WithAllowedOrigins(serveOrigins...)}
	if metricsHandler != nil {
		opts = append(opts, resthttp.WithMetricsHandler(metricsHandler))
	}

	server, err := resthttp.NewServer(&resthttp.Ports{
		Metrics:     metricsService,
		Dashboard:   dashboardService,
		Persistence: persistence,
		Analysis:    analysisService,
		Operations:  operationsService,
		Export:      exportService,
	}, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go trackUptime(ctx.Done())

	fmt.Fprintf(cmd.OutOrStdout(), "REST proxy listening on %s\n", addr)
	return server.Run(ctx, addr)
}

// trackUptime records the server uptime every minute until done is closed.
func trackUptime(done <-chan struct{}) {
	start := time.Now()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			metricsService.RecordUptime(time.Since(start))
			return
		case <-ticker.C:
			metricsService.RecordUptime(time.Since(start))
			logger.Debug("uptime %s", time.Since(start).Round(time.Second))
		}
	}
}
