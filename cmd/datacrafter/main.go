// Command datacrafter extracts structured elements from documents and keeps
// running metrics of everything it has processed.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/custodia-labs/datacrafter/internal/adapters/driven/ai"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/blob/filesystem"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/blob/minio"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/config/file"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/export"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/datacrafter/internal/adapters/driven/telemetry/prometheus"
	"github.com/custodia-labs/datacrafter/internal/adapters/driving/cli"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/services"
	"github.com/custodia-labs/datacrafter/internal/logger"
	"github.com/custodia-labs/datacrafter/internal/normalisers"
	"github.com/custodia-labs/datacrafter/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	if os.Getenv("DATACRAFTER_LOG_PRETTY") != "" {
		logger.SetPretty(true)
	}

	if err := file.LoadDotEnv(); err != nil {
		logger.Warn("loading .env: %v", err)
	}

	configDir, err := file.DefaultDir()
	if err != nil {
		return fmt.Errorf("locating config directory: %w", err)
	}
	configStore, err := file.NewConfigStore(configDir, file.WithOverrides(file.EnvOverrides()))
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	// Durable state
	kv, closeKV, err := openKVStore(ctx, settings.Storage)
	if err != nil {
		return err
	}
	defer closeKV()

	gateway := services.NewGateway(kv)
	metricsService := services.NewMetricsService(gateway)
	dashboardService := services.NewDashboardService(gateway)

	blobs, err := openBlobStore(ctx, settings.Blob)
	if err != nil {
		logger.Warn("uploads disabled: %v", err)
	}

	// AI services
	aiServices := ai.Initialise(settings, false)
	defer aiServices.Close()
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	slicerName := settings.Analysis.Slicer
	if !registry.Has(slicerName) {
		logger.Warn("unknown slicer %q, using %s (available: %s)",
			slicerName, postprocessors.SlicerParagraph, strings.Join(registry.Names(), ", "))
		slicerName = postprocessors.SlicerParagraph
	}
	slicer, err := registry.Build(slicerName, map[string]any{
		"max_size": settings.Analysis.MaxSliceSize,
	})
	if err != nil {
		return fmt.Errorf("building slicer: %w", err)
	}
	throttler := ratelimit.NewRateLimiter(settings.Analysis.SliceInterval)

	recorder := prometheus.NewRecorder()
	gateway.Subscribe(recorder.Watch(metricsService))

	analysisService := services.NewAnalysisService(
		metricsService, aiServices.LLMService, aiServices.DocumentIntelligence, slicer, throttler)
	analysisService.SetRecorder(recorder)
	analysisService.SetLongTextThreshold(settings.Analysis.LongTextThreshold)
	analysisService.SetExtractors(normalisers.All()...)
	if prompt, err := file.NewPromptFile("", services.DefaultSystemPrompt); err == nil {
		analysisService.SetSystemPrompt(prompt.Load())
	} else {
		logger.Warn("system prompt file: %v", err)
	}

	operationsService := services.NewOperationsService(metricsService, blobs, aiServices.LLMService)
	operationsService.SetRecorder(recorder)

	cli.SetVersion(version)
	cli.SetServices(&cli.Services{
		Settings:       settingsService,
		Metrics:        metricsService,
		Dashboard:      dashboardService,
		Persistence:    gateway,
		Analysis:       analysisService,
		Operations:     operationsService,
		Export:         services.NewExportService(export.All()...),
		ValidateLLM:    ai.ValidateLLMConfig,
		MetricsHandler: recorder.Handler(),
	})

	return cli.Execute()
}

// openKVStore opens the configured durable store. The returned func closes it.
func openKVStore(ctx context.Context, cfg domain.StorageSettings) (driven.KeyValueStore, func(), error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		logger.Debug("Using in-memory storage (quota %d bytes)", cfg.QuotaBytes)
		return memory.NewKVStore(cfg.QuotaBytes), func() {}, nil

	case domain.StorageRedis:
		store, err := redis.NewKVStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis storage: %w", err)
		}
		logger.Debug("Using redis storage at %s", cfg.RedisAddr)
		return store, closer(store), nil

	default:
		store, err := sqlite.NewStore(cfg.DataDir, sqlite.WithQuota(cfg.QuotaBytes))
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		logger.Debug("Using sqlite storage at %s", store.Path())
		return store.KVStore(), closer(store), nil
	}
}

// openBlobStore opens the configured upload store.
func openBlobStore(ctx context.Context, cfg domain.BlobSettings) (driven.BlobStore, error) {
	if cfg.Backend == domain.BlobMinIO {
		store, err := minio.New(ctx, minio.Config{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := filesystem.New(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func closer(c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing storage: %v", err)
		}
	}
}
