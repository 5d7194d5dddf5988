// Package azure provides a document intelligence adapter for the Azure AI
// Document Intelligence REST API.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.DocumentIntelligence = (*Client)(nil)

// Default configuration values.
const (
	DefaultAPIVersion   = "2023-07-31"
	DefaultPollInterval = time.Second
	DefaultTimeout      = 2 * time.Minute
)

// Config holds configuration for the Document Intelligence client.
type Config struct {
	// Endpoint is the resource endpoint, e.g. https://name.cognitiveservices.azure.com.
	Endpoint string

	// APIKey is the resource key.
	APIKey string

	// ModelID is the analysis model (default: prebuilt-read).
	ModelID string

	// APIVersion is the REST api-version (default: 2023-07-31).
	APIVersion string

	// PollInterval is the pause between result polls (default: 1s).
	PollInterval time.Duration

	// Timeout bounds each HTTP request (default: 2m).
	Timeout time.Duration
}

// Client submits files for analysis and polls for the result.
type Client struct {
	client       *http.Client
	endpoint     string
	apiKey       string
	modelID      string
	apiVersion   string
	pollInterval time.Duration
}

type analyzeOperation struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type analyzeResult struct {
	Content string `json:"content"`
	Pages   []struct {
		Words []struct {
			Content    string  `json:"content"`
			Confidence float64 `json:"confidence"`
		} `json:"words"`
		Lines []struct {
			Content string `json:"content"`
		} `json:"lines"`
	} `json:"pages"`
	Languages []struct {
		Locale     string  `json:"locale"`
		Confidence float64 `json:"confidence"`
	} `json:"languages"`
	Styles []struct {
		IsHandwritten bool `json:"isHandwritten"`
	} `json:"styles"`
}

// New creates a Document Intelligence client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("document intelligence: endpoint and API key are required")
	}
	if cfg.ModelID == "" {
		cfg.ModelID = domain.DefaultDocumentModel
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client:       &http.Client{Timeout: cfg.Timeout},
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:       cfg.APIKey,
		modelID:      cfg.ModelID,
		apiVersion:   cfg.APIVersion,
		pollInterval: cfg.PollInterval,
	}, nil
}

// Analyze submits data and blocks until the analysis completes or ctx is done.
func (c *Client) Analyze(ctx context.Context, data []byte, contentType string) (*domain.DocumentAnalysis, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("document intelligence: %w: empty document", domain.ErrInvalidInput)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	analyzeURL := fmt.Sprintf("%s/formrecognizer/documentModels/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(c.modelID), url.QueryEscape(c.apiVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, analyzeURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err := statusError(resp, body); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("document intelligence: unexpected status %d", resp.StatusCode)
	}

	location := resp.Header.Get("Operation-Location")
	if location == "" {
		return nil, fmt.Errorf("document intelligence: missing Operation-Location header")
	}

	result, err := c.poll(ctx, location)
	if err != nil {
		return nil, err
	}
	return summarise(result), nil
}

func (c *Client) poll(ctx context.Context, location string) (*analyzeResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		op, err := c.fetch(ctx, location)
		if err != nil {
			return nil, err
		}

		switch op.Status {
		case "succeeded":
			if op.AnalyzeResult == nil {
				return nil, fmt.Errorf("document intelligence: result missing")
			}
			return op.AnalyzeResult, nil
		case "failed", "canceled":
			msg := op.Status
			if op.Error != nil {
				msg = op.Error.Code + ": " + op.Error.Message
			}
			return nil, fmt.Errorf("document intelligence: analysis %s", msg)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetch(ctx context.Context, location string) (*analyzeOperation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read poll response: %w", err)
	}
	if err := statusError(resp, body); err != nil {
		return nil, err
	}

	var op analyzeOperation
	if err := json.Unmarshal(body, &op); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &op, nil
}

func statusError(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("document intelligence: %w", domain.ErrRateLimited)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("document intelligence error (status %d): %s", resp.StatusCode, string(body))
	default:
		return nil
	}
}

// summarise reduces the raw analysis to page, word and line counts,
// the mean word confidence, the detected locales and the handwriting flag.
func summarise(r *analyzeResult) *domain.DocumentAnalysis {
	out := &domain.DocumentAnalysis{
		Content:   r.Content,
		Pages:     len(r.Pages),
		Languages: []string{},
	}

	var confidence float64
	for _, page := range r.Pages {
		out.Lines += len(page.Lines)
		for _, w := range page.Words {
			out.Words++
			confidence += w.Confidence
		}
	}
	if out.Words > 0 {
		out.AverageConfidence = confidence / float64(out.Words)
	}

	seen := make(map[string]bool)
	for _, lang := range r.Languages {
		if lang.Locale == "" || seen[lang.Locale] {
			continue
		}
		seen[lang.Locale] = true
		out.Languages = append(out.Languages, lang.Locale)
	}

	for _, style := range r.Styles {
		if style.IsHandwritten {
			out.IsHandwritten = true
			break
		}
	}
	return out
}
