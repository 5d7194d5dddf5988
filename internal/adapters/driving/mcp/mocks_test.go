package mcp

import (
	"context"

	"github.com/custodia-labs/datacrafter/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/core/services"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	report *domain.AnalysisReport
	err    error

	lastName string
	lastText string
	lastOpts driving.AnalyzeOptions
}

func (m *mockAnalysisService) AnalyzeText(
	_ context.Context,
	sourceName, text string,
	opts driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	m.lastName, m.lastText, m.lastOpts = sourceName, text, opts
	return m.report, m.err
}

func (m *mockAnalysisService) AnalyzeDocument(
	_ context.Context,
	_ string,
	_ []byte,
	_ driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	return m.report, m.err
}

func (m *mockAnalysisService) Inspect(_ context.Context, _ string, _ []byte) (*domain.DocumentAnalysis, error) {
	return nil, m.err
}

func (m *mockAnalysisService) Chat(_ context.Context, _ string) (*driving.ChatReply, error) {
	return nil, m.err
}

// newStores builds metrics and dashboard services over an in-memory store.
func newStores() (*services.MetricsService, *services.DashboardService) {
	gateway := services.NewGateway(memory.NewKVStore(0))
	return services.NewMetricsService(gateway), services.NewDashboardService(gateway)
}
