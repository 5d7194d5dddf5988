package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
)

// defaultRecentLimit is the number of documents returned by recent_documents.
const defaultRecentLimit = 10

// AnalyzeTextInput is the input schema for the analyze_text tool.
type AnalyzeTextInput struct {
	Text   string `json:"text" jsonschema:"the text to analyse"`
	Name   string `json:"name,omitempty" jsonschema:"label recorded in the document history"`
	Prompt string `json:"prompt,omitempty" jsonschema:"extra instructions for the analysis"`
}

// AnalyzeTextOutput is the output schema for the analyze_text tool.
type AnalyzeTextOutput struct {
	Elements     []domain.Element `json:"elements"`
	Categories   []string         `json:"categories"`
	TotalChunks  int              `json:"total_chunks"`
	SliceCount   int              `json:"slice_count"`
	FailedSlices []int            `json:"failed_slices,omitempty"`
}

// GetMetricsInput is the input schema for the get_metrics tool.
type GetMetricsInput struct{}

// RecentDocumentsInput is the input schema for the recent_documents tool.
type RecentDocumentsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 10)"`
}

// RecentDocumentsOutput is the output schema for the recent_documents tool.
type RecentDocumentsOutput struct {
	Documents []domain.DocumentRecord `json:"documents"`
	Count     int                     `json:"count"`
}

// jsonResult returns v as the JSON text content of a tool result.
// Outputs carry timestamps, so they are sent as text rather than with an
// inferred output schema.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshalling result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_metrics",
		Description: "Return document processing metrics: totals, error rate, document types and performance",
	}, s.handleGetMetrics)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recent_documents",
		Description: "List the most recently processed documents, newest first",
	}, s.handleRecentDocuments)

	if s.ports.Analysis != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "analyze_text",
			Description: "Extract structured elements from text and record the analysis",
		}, s.handleAnalyzeText)
	}
}

func (s *Server) handleGetMetrics(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetMetricsInput,
) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.ports.Metrics.Analytics())
}

func (s *Server) handleRecentDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input RecentDocumentsInput,
) (*mcp.CallToolResult, any, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	docs := s.ports.Metrics.RecentDocuments()
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return jsonResult(RecentDocumentsOutput{Documents: docs, Count: len(docs)})
}

func (s *Server) handleAnalyzeText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeTextInput,
) (*mcp.CallToolResult, any, error) {
	if input.Text == "" {
		return nil, nil, errors.New("text is required")
	}
	name := input.Name
	if name == "" {
		name = "mcp_text"
	}

	report, err := s.ports.Analysis.AnalyzeText(ctx, name, input.Text, driving.AnalyzeOptions{
		Prompt:   input.Prompt,
		FileType: domain.DocumentTypeText,
	})
	if err != nil {
		return nil, nil, err
	}

	return jsonResult(AnalyzeTextOutput{
		Elements:     report.Result.Elements,
		Categories:   report.Result.Categories(),
		TotalChunks:  report.Result.TotalChunksGenerated(),
		SliceCount:   report.SliceCount,
		FailedSlices: report.FailedSlices,
	})
}
