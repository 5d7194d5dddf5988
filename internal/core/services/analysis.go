package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/extraction"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// DefaultSystemPrompt instructs the model to reply with a JSON array of elements.
const DefaultSystemPrompt = `You are DataCrafter, an assistant that turns unstructured documents into structured data.

Process ALL of the content. If a document covers twenty topics, return twenty elements.
Never skip a paragraph, section or list for brevity.

For every section or topic:
- split the content into coherent thematic units, in document order
- assign a thematic category (health, education, economy, ...)
- give at least five keywords ordered by relevance

Reply with a JSON array only, one object per element:
[
  {
    "titulo": "specific title of the topic or section",
    "contenido": "complete and detailed content",
    "categoria": "thematic_category",
    "tipo_archivo": "pdf|txt|docx|...",
    "chunks_generados": number_of_chunks,
    "palabras_clave": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"],
    "posicion_documento": sequence_number,
    "nivel_detalle": "alto|medio|bajo"
  }
]`

// Request settings for the two kinds of calls.
const (
	sliceTemperature = 0.3
	sliceMaxTokens   = 4000
	chatTemperature  = 0.7
	chatMaxTokens    = 2000
)

// Operation kinds reported to the recorder.
const (
	opAnalysis = "analysis"
	opChat     = "chat"
	opUpload   = "upload"
	opQuery    = "query"
)

// AnalysisService drives text through the LLM one slice at a time and folds
// the combined result into the metrics aggregate.
type AnalysisService struct {
	metrics   driving.MetricsService
	llm       driven.LLMService
	docIntel  driven.DocumentIntelligence
	slicer    driven.Slicer
	throttler driven.Throttler
	recorder  driven.OperationRecorder

	extractors map[string]driven.TextExtractor

	systemPrompt      string
	longTextThreshold int
	now               func() time.Time
}

// NewAnalysisService creates a new analysis service.
// The llm, docIntel, slicer and throttler parameters are optional (can be nil).
// Without a slicer the whole text is sent as one slice; without a throttler
// slices are sent back to back.
func NewAnalysisService(
	metrics driving.MetricsService,
	llm driven.LLMService,
	docIntel driven.DocumentIntelligence,
	slicer driven.Slicer,
	throttler driven.Throttler,
) *AnalysisService {
	return &AnalysisService{
		metrics:           metrics,
		llm:               llm,
		docIntel:          docIntel,
		slicer:            slicer,
		throttler:         throttler,
		recorder:          noopRecorder{},
		systemPrompt:      DefaultSystemPrompt,
		longTextThreshold: domain.DefaultLongTextThreshold,
		now:               time.Now,
	}
}

// SetRecorder sets the telemetry recorder.
func (s *AnalysisService) SetRecorder(r driven.OperationRecorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.recorder = r
}

// SetExtractors registers text extractors by the extensions they handle.
// A later extractor wins over an earlier one for the same extension.
func (s *AnalysisService) SetExtractors(extractors ...driven.TextExtractor) {
	s.extractors = make(map[string]driven.TextExtractor)
	for _, e := range extractors {
		for _, ext := range e.Extensions() {
			s.extractors[strings.ToLower(ext)] = e
		}
	}
}

// SetSystemPrompt overrides the system prompt sent with every request.
func (s *AnalysisService) SetSystemPrompt(prompt string) {
	if strings.TrimSpace(prompt) != "" {
		s.systemPrompt = prompt
	}
}

// SetLongTextThreshold sets the chat message length, in characters, above
// which a message is analysed as a document.
func (s *AnalysisService) SetLongTextThreshold(n int) {
	if n > 0 {
		s.longTextThreshold = n
	}
}

// SetClock sets the clock used to date results.
func (s *AnalysisService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// AnalyzeText splits text, submits the slices strictly in order, combines
// the replies and ingests the result. Failed slices contribute nothing;
// the run fails only when every slice failed or ctx is cancelled.
func (s *AnalysisService) AnalyzeText(
	ctx context.Context, sourceName, text string, opts driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	if s.metrics == nil {
		return nil, domain.ErrNotImplemented
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: nothing to analyse", domain.ErrInvalidInput)
	}

	logger.Section("Analysis")
	start := time.Now()

	s.metrics.IncrementCounter(domain.CounterPendingDocuments, 1)
	report, err := s.run(ctx, sourceName, text, opts)
	s.metrics.IncrementCounter(domain.CounterPendingDocuments, -1)

	elapsed := time.Since(start)
	success := err == nil && len(report.FailedSlices) == 0
	s.metrics.RecordOutcome(success)
	if err == nil {
		s.metrics.RecordProcessingTime(elapsed)
	}
	s.recorder.RecordOperation(opAnalysis, success, elapsed)

	if err != nil {
		logger.Warn("Analysis of %s failed: %v", sourceName, err)
		return nil, err
	}
	logger.Info("Analysed %s: %d elements from %d slices in %s",
		sourceName, len(report.Result.Elements), report.SliceCount, elapsed.Round(time.Millisecond))
	return report, nil
}

func (s *AnalysisService) run(
	ctx context.Context, sourceName, text string, opts driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	slices := s.split(text)
	total := len(slices)
	logger.Debug("Source %q: %d characters in %d slices", sourceName, utf8.RuneCountInString(text), total)

	raws := make([]string, total)
	var failed []int

	for i, slice := range slices {
		if err := s.wait(ctx); err != nil {
			return nil, fmt.Errorf("analysis cancelled at slice %d/%d: %w", i+1, total, err)
		}

		logger.Debug("Submitting slice %d/%d", i+1, total)
		reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
			{Role: driven.RoleSystem, Content: s.systemPrompt},
			{Role: driven.RoleUser, Content: sliceMessage(opts.Prompt, slice, i, total)},
		}, driven.ChatOptions{Temperature: sliceTemperature, MaxTokens: sliceMaxTokens})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("analysis cancelled at slice %d/%d: %w", i+1, total, ctxErr)
			}
			logger.Warn("Slice %d/%d of %s failed: %v", i+1, total, sourceName, err)
			if b, ok := s.throttler.(backoffer); ok && errors.Is(err, domain.ErrRateLimited) {
				b.Backoff(0)
			}
			failed = append(failed, i)
			s.recorder.RecordSlice(false)
			continue
		}
		raws[i] = reply
		s.recorder.RecordSlice(true)
	}

	if len(failed) == total {
		return nil, fmt.Errorf("%w: all %d slices failed", domain.ErrAnalysisFailed, total)
	}

	result := extraction.CombineAt(raws, sourceName, total, s.now())
	if opts.FileType != "" {
		for i := range result.Elements {
			if result.Elements[i].SourceFileType == "" {
				result.Elements[i].SourceFileType = opts.FileType
			}
		}
	}

	summary := s.metrics.IngestAnalysis(result)
	s.recorder.RecordIngest(len(result.Elements), result.TotalChunksGenerated())

	return &domain.AnalysisReport{
		Result:       result,
		Summary:      summary,
		SliceCount:   total,
		FailedSlices: failed,
	}, nil
}

func (s *AnalysisService) split(text string) []string {
	if s.slicer == nil {
		return []string{text}
	}
	slices := s.slicer.Split(text)
	if len(slices) == 0 {
		return []string{text}
	}
	return slices
}

func (s *AnalysisService) wait(ctx context.Context) error {
	if s.throttler != nil {
		return s.throttler.Wait(ctx)
	}
	return ctx.Err()
}

// sliceMessage builds the user message for slice i of total.
func sliceMessage(prompt, slice string, i, total int) string {
	if prompt != "" {
		return fmt.Sprintf("%s\n\nPart %d/%d of the document to process:\n%s", prompt, i+1, total, slice)
	}
	return fmt.Sprintf("Analyse and structure this part (%d/%d) of the document. "+
		"Process EVERY element you find and omit none. "+
		"Reply with the structured JSON array:\n\n%s", i+1, total, slice)
}

// AnalyzeDocument analyses a file. Formats with a registered extractor are
// converted to text locally. PDFs and images are read through the document
// intelligence service first; text files are analysed as is.
func (s *AnalysisService) AnalyzeDocument(
	ctx context.Context, name string, data []byte, opts driving.AnalyzeOptions,
) (*domain.AnalysisReport, error) {
	docType := domain.DocumentTypeForFile(name)
	if opts.FileType == "" {
		opts.FileType = fileExtension(name, docType)
	}

	if ex, ok := s.extractors[strings.ToLower(filepath.Ext(name))]; ok {
		text, err := ex.Extract(data)
		if err != nil {
			s.recordFailure()
			return nil, fmt.Errorf("extract %s: %w", name, err)
		}
		if strings.TrimSpace(text) == "" {
			s.recordFailure()
			return nil, fmt.Errorf("%w: no text found in %s", domain.ErrInvalidInput, name)
		}
		logger.Debug("Extracted %d characters from %s with the %s extractor", len(text), name, ex.Name())
		return s.AnalyzeText(ctx, name, text, opts)
	}

	switch docType {
	case domain.DocumentTypeText:
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrInvalidInput, name)
		}
		return s.AnalyzeText(ctx, name, string(data), opts)

	case domain.DocumentTypePDF, domain.DocumentTypeImage:
		analysis, err := s.Inspect(ctx, name, data)
		if err != nil {
			s.recordFailure()
			return nil, err
		}
		if strings.TrimSpace(analysis.Content) == "" {
			s.recordFailure()
			return nil, fmt.Errorf("%w: no text found in %s", domain.ErrInvalidInput, name)
		}
		logger.Debug("Extracted %d words from %d pages of %s", analysis.Words, analysis.Pages, name)
		return s.AnalyzeText(ctx, name, analysis.Content, opts)

	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(name))
	}
}

// recordFailure counts a document that failed before reaching the LLM.
func (s *AnalysisService) recordFailure() {
	if s.metrics != nil {
		s.metrics.RecordOutcome(false)
	}
	s.recorder.RecordOperation(opAnalysis, false, 0)
}

// Inspect returns the raw document intelligence analysis of a PDF or image.
func (s *AnalysisService) Inspect(ctx context.Context, name string, data []byte) (*domain.DocumentAnalysis, error) {
	if s.docIntel == nil {
		return nil, domain.ErrDocumentIntelligenceUnavailable
	}
	docType := domain.DocumentTypeForFile(name)
	if docType != domain.DocumentTypePDF && docType != domain.DocumentTypeImage {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(name))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, name)
	}

	analysis, err := s.docIntel.Analyze(ctx, data, contentTypeFor(name))
	if err != nil {
		return nil, fmt.Errorf("document intelligence: %w", err)
	}
	return analysis, nil
}

// Chat answers a message. Messages longer than the long-text threshold are
// analysed as a pasted document and answered with the analysis summary.
func (s *AnalysisService) Chat(ctx context.Context, message string) (*driving.ChatReply, error) {
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	if utf8.RuneCountInString(message) > s.longTextThreshold {
		name := "pasted_text_" + s.now().Format("2006-01-02")
		logger.Debug("Message of %d characters analysed as %s", utf8.RuneCountInString(message), name)
		report, err := s.AnalyzeText(ctx, name, message, driving.AnalyzeOptions{FileType: domain.DocumentTypeText})
		if err != nil {
			return nil, err
		}
		return &driving.ChatReply{Answer: FormatReport(report), Report: report}, nil
	}

	start := time.Now()
	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.systemPrompt},
		{Role: driven.RoleUser, Content: message},
	}, driven.ChatOptions{Temperature: chatTemperature, MaxTokens: chatMaxTokens})
	success := err == nil
	if s.metrics != nil {
		s.metrics.RecordOutcome(success)
	}
	s.recorder.RecordOperation(opChat, success, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &driving.ChatReply{Answer: answer}, nil
}

// FormatReport renders a short plain text summary of an analysis.
func FormatReport(r *domain.AnalysisReport) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Analysis complete\n\n")
	fmt.Fprintf(&b, "Source: %s\n", r.Result.SourceName)
	fmt.Fprintf(&b, "Elements processed: %d\n", len(r.Result.Elements))
	fmt.Fprintf(&b, "Slices: %d\n", r.SliceCount)
	fmt.Fprintf(&b, "Chunks generated: %d\n", r.Summary.TotalChunks)
	fmt.Fprintf(&b, "Categories found: %d\n", len(r.Summary.Categories))
	for _, c := range r.Summary.Categories {
		fmt.Fprintf(&b, "  - %s\n", c)
	}
	if len(r.FailedSlices) > 0 {
		fmt.Fprintf(&b, "\n%d of %d slices failed and were skipped\n", len(r.FailedSlices), r.SliceCount)
	}
	return b.String()
}

// fileExtension returns the extension of name without the dot, or the
// document type when there is none.
func fileExtension(name, fallback string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return fallback
	}
	return ext
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsUnavailable reports whether err means an optional service is not configured.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrLLMUnavailable) ||
		errors.Is(err, domain.ErrDocumentIntelligenceUnavailable) ||
		errors.Is(err, domain.ErrBlobStoreUnavailable)
}

// backoffer is implemented by throttlers that can pause after a rate limit error.
type backoffer interface {
	Backoff(d time.Duration)
}

// noopRecorder discards telemetry.
type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, bool, time.Duration) {}
func (noopRecorder) RecordSlice(bool)                            {}
func (noopRecorder) RecordIngest(int, int)                       {}
