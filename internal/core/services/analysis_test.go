package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/postprocessors/slicer"
)

const twoElements = `Here is the result:
[
  {"titulo": "Intro", "contenido": "...", "categoria": "a", "chunks_generados": 2, "palabras_clave": ["x"]},
  {"titulo": "Body", "contenido": "...", "categoria": "b", "chunks_generados": 3}
]`

func newAnalysis(llm driven.LLMService, docIntel driven.DocumentIntelligence, maxSlice int) (
	*AnalysisService, *MetricsService, *mockThrottler, *mockRecorder,
) {
	_, metrics, _, _ := newStores()
	throttle := &mockThrottler{}
	recorder := &mockRecorder{}
	var sl driven.Slicer = slicer.New(slicer.WithMaxSize(maxSlice))
	svc := NewAnalysisService(metrics, llm, docIntel, sl, throttle)
	svc.SetRecorder(recorder)
	svc.SetClock(func() time.Time { return testEpoch })
	return svc, metrics, throttle, recorder
}

func TestAnalysisService_AnalyzeText_SingleSlice(t *testing.T) {
	llm := replyingLLM(twoElements)
	svc, metrics, throttle, recorder := newAnalysis(llm, nil, 1000)

	report, err := svc.AnalyzeText(context.Background(), "notes.txt", "short text", driving.AnalyzeOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, report.SliceCount)
	assert.Empty(t, report.FailedSlices)
	assert.Len(t, report.Result.Elements, 2)
	assert.Equal(t, testEpoch, report.Result.GeneratedAt)
	assert.Equal(t, 5, report.Summary.TotalChunks)
	assert.Equal(t, []string{"a", "b"}, report.Summary.Categories)

	m := metrics.Load()
	assert.Equal(t, 1, m.Metrics.ProcessedDocuments)
	assert.Equal(t, 5, m.Metrics.TotalChunks)
	assert.Equal(t, 0, m.Metrics.PendingDocuments)
	assert.Equal(t, 1, m.Metrics.OperationsCount)
	assert.Equal(t, 0, m.Metrics.ErrorsCount)

	require.Len(t, llm.Calls(), 1)
	call := llm.Calls()[0]
	assert.Equal(t, driven.RoleSystem, call.messages[0].Role)
	assert.Contains(t, call.messages[0].Content, "titulo")
	assert.Contains(t, call.messages[1].Content, "(1/1)")
	assert.Equal(t, 0.3, call.opts.Temperature)
	assert.Equal(t, 4000, call.opts.MaxTokens)

	assert.Equal(t, 1, throttle.Waits())
	assert.Equal(t, []recordedOperation{{kind: "analysis", success: true}}, recorder.operations)
	assert.Equal(t, 2, recorder.elements)
}

func TestAnalysisService_AnalyzeText_SlicesInOrder(t *testing.T) {
	llm := newMockLLM(func(call int, _ []driven.ChatMessage) (string, error) {
		return `[{"titulo": "part", "categoria": "c", "posicion_documento": ` + strconv.Itoa(call+1) + `}]`, nil
	})
	svc, metrics, throttle, recorder := newAnalysis(llm, nil, 5)

	report, err := svc.AnalyzeText(context.Background(), "doc", "aaaa\n\nbbbb\n\ncccc", driving.AnalyzeOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, report.SliceCount)
	require.Len(t, report.Result.Elements, 3)
	for i, el := range report.Result.Elements {
		assert.Equal(t, i+1, el.DocumentPosition)
	}

	calls := llm.Calls()
	require.Len(t, calls, 3)
	for i, unit := range []string{"aaaa", "bbbb", "cccc"} {
		assert.Contains(t, calls[i].messages[1].Content, unit)
		assert.Contains(t, calls[i].messages[1].Content, []string{"(1/3)", "(2/3)", "(3/3)"}[i])
	}
	assert.Equal(t, 3, throttle.Waits())
	assert.Equal(t, 3, recorder.slicesOK)

	// three slices still make one document
	assert.Equal(t, 1, metrics.Load().Metrics.TotalDocuments)
}

func TestAnalysisService_AnalyzeText_PartialFailure(t *testing.T) {
	llm := newMockLLM(func(call int, _ []driven.ChatMessage) (string, error) {
		if call == 1 {
			return "", errUpstream
		}
		return `[{"titulo": "ok", "categoria": "c", "chunks_generados": 1}]`, nil
	})
	svc, metrics, _, recorder := newAnalysis(llm, nil, 5)

	report, err := svc.AnalyzeText(context.Background(), "doc", "aaaa\n\nbbbb\n\ncccc", driving.AnalyzeOptions{})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, report.FailedSlices)
	assert.True(t, report.Partial())
	assert.Len(t, report.Result.Elements, 2)

	m := metrics.Load()
	assert.Equal(t, 1, m.Metrics.TotalDocuments)
	assert.Equal(t, 1, m.Metrics.OperationsCount)
	assert.Equal(t, 1, m.Metrics.ErrorsCount)
	assert.Equal(t, 1, recorder.slicesFail)
	assert.Equal(t, 2, recorder.slicesOK)
}

func TestAnalysisService_AnalyzeText_AllSlicesFail(t *testing.T) {
	llm := newMockLLM(func(int, []driven.ChatMessage) (string, error) { return "", errUpstream })
	svc, metrics, _, recorder := newAnalysis(llm, nil, 5)

	report, err := svc.AnalyzeText(context.Background(), "doc", "aaaa\n\nbbbb", driving.AnalyzeOptions{})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrAnalysisFailed)

	m := metrics.Load()
	assert.Equal(t, 0, m.Metrics.TotalDocuments)
	assert.Equal(t, 0, m.Metrics.PendingDocuments)
	assert.Equal(t, 1, m.Metrics.ErrorsCount)
	assert.Equal(t, 1, m.Analytics.ProcessingStats.FailedOperations)
	assert.Equal(t, []recordedOperation{{kind: "analysis", success: false}}, recorder.operations)
}

func TestAnalysisService_AnalyzeText_Cancelled(t *testing.T) {
	llm := replyingLLM(twoElements)
	svc, metrics, _, _ := newAnalysis(llm, nil, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.AnalyzeText(ctx, "doc", "aaaa\n\nbbbb", driving.AnalyzeOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, llm.Calls())
	m := metrics.Load()
	assert.Equal(t, 0, m.Metrics.PendingDocuments)
	assert.Equal(t, 1, m.Metrics.ErrorsCount)
}

func TestAnalysisService_AnalyzeText_CancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := newMockLLM(func(call int, _ []driven.ChatMessage) (string, error) {
		if call == 0 {
			cancel()
			return "", context.Canceled
		}
		return twoElements, nil
	})
	svc, metrics, _, _ := newAnalysis(llm, nil, 5)

	_, err := svc.AnalyzeText(ctx, "doc", "aaaa\n\nbbbb", driving.AnalyzeOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, llm.Calls(), 1)
	assert.Equal(t, 0, metrics.Load().Metrics.TotalDocuments)
}

func TestAnalysisService_AnalyzeText_Options(t *testing.T) {
	llm := replyingLLM(`[{"titulo": "t"}, {"titulo": "u", "tipo_archivo": "docx"}]`)
	svc, _, _, _ := newAnalysis(llm, nil, 1000)

	report, err := svc.AnalyzeText(context.Background(), "doc", "text",
		driving.AnalyzeOptions{Prompt: "Focus on dates.", FileType: "txt"})

	require.NoError(t, err)
	msg := llm.Calls()[0].messages[1].Content
	assert.True(t, strings.HasPrefix(msg, "Focus on dates.\n\nPart 1/1"))
	assert.Equal(t, "txt", report.Result.Elements[0].SourceFileType)
	assert.Equal(t, "docx", report.Result.Elements[1].SourceFileType)
}

func TestAnalysisService_AnalyzeText_Unavailable(t *testing.T) {
	_, metrics, _, _ := newStores()

	svc := NewAnalysisService(metrics, nil, nil, nil, nil)
	_, err := svc.AnalyzeText(context.Background(), "doc", "text", driving.AnalyzeOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	svc = NewAnalysisService(metrics, replyingLLM(twoElements), nil, nil, nil)
	_, err = svc.AnalyzeText(context.Background(), "doc", "   ", driving.AnalyzeOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	svc = NewAnalysisService(nil, replyingLLM(twoElements), nil, nil, nil)
	_, err = svc.AnalyzeText(context.Background(), "doc", "text", driving.AnalyzeOptions{})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestAnalysisService_AnalyzeText_NoArrayIsEmptyResult(t *testing.T) {
	llm := replyingLLM("I could not find anything to structure.")
	svc, metrics, _, _ := newAnalysis(llm, nil, 1000)

	report, err := svc.AnalyzeText(context.Background(), "doc", "text", driving.AnalyzeOptions{})

	require.NoError(t, err)
	assert.True(t, report.Summary.NoOp)
	assert.Equal(t, 0, metrics.Load().Metrics.TotalDocuments)
	assert.Equal(t, 1, metrics.Load().Metrics.OperationsCount)
}

func TestAnalysisService_AnalyzeDocument(t *testing.T) {
	t.Run("pdf goes through document intelligence", func(t *testing.T) {
		di := &mockDocIntel{analysis: &domain.DocumentAnalysis{Content: "extracted text", Pages: 2, Words: 2}}
		llm := replyingLLM(twoElements)
		svc, _, _, _ := newAnalysis(llm, di, 1000)

		report, err := svc.AnalyzeDocument(context.Background(), "scan.pdf", []byte("%PDF-1.7"), driving.AnalyzeOptions{})

		require.NoError(t, err)
		assert.Equal(t, "application/pdf", di.contentType)
		assert.Contains(t, llm.Calls()[0].messages[1].Content, "extracted text")
		assert.Equal(t, "pdf", report.Result.Elements[0].SourceFileType)
		assert.Equal(t, "scan.pdf", report.Result.SourceName)
	})

	t.Run("pdf without text", func(t *testing.T) {
		di := &mockDocIntel{analysis: &domain.DocumentAnalysis{Content: "  ", Pages: 1}}
		llm := replyingLLM(twoElements)
		svc, metrics, _, recorder := newAnalysis(llm, di, 1000)

		_, err := svc.AnalyzeDocument(context.Background(), "scan.pdf", []byte("%PDF-1.7"), driving.AnalyzeOptions{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, llm.Calls())
		assert.Equal(t, 1, metrics.Load().Metrics.ErrorsCount)
		assert.Equal(t, []recordedOperation{{kind: "analysis", success: false}}, recorder.operations)
	})

	t.Run("text is analysed directly", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, _, _, _ := newAnalysis(llm, nil, 1000)

		_, err := svc.AnalyzeDocument(context.Background(), "notes.md", []byte("# notes"), driving.AnalyzeOptions{})

		require.NoError(t, err)
		assert.Contains(t, llm.Calls()[0].messages[1].Content, "# notes")
	})

	t.Run("image without document intelligence", func(t *testing.T) {
		svc, metrics, _, _ := newAnalysis(replyingLLM(twoElements), nil, 1000)

		_, err := svc.AnalyzeDocument(context.Background(), "photo.png", []byte{0x89}, driving.AnalyzeOptions{})

		assert.ErrorIs(t, err, domain.ErrDocumentIntelligenceUnavailable)
		assert.Equal(t, 1, metrics.Load().Metrics.ErrorsCount)
	})

	t.Run("unsupported type", func(t *testing.T) {
		svc, _, _, _ := newAnalysis(replyingLLM(twoElements), nil, 1000)

		_, err := svc.AnalyzeDocument(context.Background(), "tool.exe", []byte{1}, driving.AnalyzeOptions{})

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("invalid utf8 text", func(t *testing.T) {
		svc, _, _, _ := newAnalysis(replyingLLM(twoElements), nil, 1000)

		_, err := svc.AnalyzeDocument(context.Background(), "bad.txt", []byte{0xff, 0xfe}, driving.AnalyzeOptions{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAnalysisService_AnalyzeDocument_Extractors(t *testing.T) {
	t.Run("extracted text is analysed", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, _, _, _ := newAnalysis(llm, nil, 1000)
		svc.SetExtractors(&mockExtractor{name: "html", exts: []string{".html"}, text: "stripped page"})

		report, err := svc.AnalyzeDocument(context.Background(), "Page.HTML", []byte("<p>x</p>"), driving.AnalyzeOptions{})

		require.NoError(t, err)
		assert.Contains(t, llm.Calls()[0].messages[1].Content, "stripped page")
		assert.NotContains(t, llm.Calls()[0].messages[1].Content, "<p>")
		assert.Equal(t, "html", report.Result.Elements[0].SourceFileType)
	})

	t.Run("later extractor wins", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, _, _, _ := newAnalysis(llm, nil, 1000)
		svc.SetExtractors(
			&mockExtractor{name: "first", exts: []string{".eml"}, text: "first"},
			&mockExtractor{name: "second", exts: []string{".eml"}, text: "second"},
		)

		_, err := svc.AnalyzeDocument(context.Background(), "mail.eml", []byte("x"), driving.AnalyzeOptions{})

		require.NoError(t, err)
		assert.Contains(t, llm.Calls()[0].messages[1].Content, "second")
	})

	t.Run("extract failure is a failed outcome", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, metrics, _, recorder := newAnalysis(llm, nil, 1000)
		svc.SetExtractors(&mockExtractor{name: "docx", exts: []string{".docx"}, err: domain.ErrInvalidInput})

		_, err := svc.AnalyzeDocument(context.Background(), "broken.docx", []byte("x"), driving.AnalyzeOptions{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, llm.Calls())
		assert.Equal(t, 1, metrics.Load().Metrics.ErrorsCount)
		assert.Equal(t, []recordedOperation{{kind: "analysis", success: false}}, recorder.operations)
	})

	t.Run("empty extraction", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, metrics, _, recorder := newAnalysis(llm, nil, 1000)
		svc.SetExtractors(&mockExtractor{name: "docx", exts: []string{".docx"}, text: "  \n "})

		_, err := svc.AnalyzeDocument(context.Background(), "blank.docx", []byte("x"), driving.AnalyzeOptions{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, llm.Calls())
		assert.Equal(t, 1, metrics.Load().Metrics.ErrorsCount)
		assert.Equal(t, []recordedOperation{{kind: "analysis", success: false}}, recorder.operations)
	})
}

func TestAnalysisService_Inspect(t *testing.T) {
	di := &mockDocIntel{analysis: &domain.DocumentAnalysis{Pages: 3, Languages: []string{"es"}}}
	svc, _, _, _ := newAnalysis(nil, di, 1000)

	analysis, err := svc.Inspect(context.Background(), "photo.JPG", []byte{0xff, 0xd8})

	require.NoError(t, err)
	assert.Equal(t, 3, analysis.Pages)
	assert.Equal(t, "image/jpeg", di.contentType)

	di.err = errUpstream
	_, err = svc.Inspect(context.Background(), "photo.jpg", []byte{0xff})
	assert.ErrorIs(t, err, errUpstream)

	_, err = svc.Inspect(context.Background(), "notes.txt", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestAnalysisService_Chat(t *testing.T) {
	t.Run("short message", func(t *testing.T) {
		llm := replyingLLM("Hello!")
		svc, metrics, _, recorder := newAnalysis(llm, nil, 1000)

		reply, err := svc.Chat(context.Background(), "hi")

		require.NoError(t, err)
		assert.Equal(t, "Hello!", reply.Answer)
		assert.Nil(t, reply.Report)
		assert.Equal(t, 0.7, llm.Calls()[0].opts.Temperature)
		assert.Equal(t, 2000, llm.Calls()[0].opts.MaxTokens)
		assert.Equal(t, 1, metrics.Load().Metrics.OperationsCount)
		assert.Equal(t, 0, metrics.Load().Metrics.TotalDocuments)
		assert.Equal(t, []recordedOperation{{kind: "chat", success: true}}, recorder.operations)
	})

	t.Run("long message is analysed", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, metrics, _, _ := newAnalysis(llm, nil, 12000)

		reply, err := svc.Chat(context.Background(), strings.Repeat("x", 1001))

		require.NoError(t, err)
		require.NotNil(t, reply.Report)
		assert.Equal(t, "pasted_text_2025-06-01", reply.Report.Result.SourceName)
		assert.Contains(t, reply.Answer, "Elements processed: 2")
		assert.Equal(t, 1, metrics.Load().Metrics.TotalDocuments)
		assert.Equal(t, "text", metrics.RecentDocuments()[0].Type)
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		llm := replyingLLM(twoElements)
		svc, _, _, _ := newAnalysis(llm, nil, 12000)
		svc.SetLongTextThreshold(10)

		reply, err := svc.Chat(context.Background(), "a message over ten")

		require.NoError(t, err)
		assert.NotNil(t, reply.Report)
	})

	t.Run("failure counts as error", func(t *testing.T) {
		llm := newMockLLM(func(int, []driven.ChatMessage) (string, error) { return "", errUpstream })
		svc, metrics, _, _ := newAnalysis(llm, nil, 1000)

		_, err := svc.Chat(context.Background(), "hi")

		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, 100.0, metrics.Load().Metrics.ErrorRate)
	})

	t.Run("no llm", func(t *testing.T) {
		svc, _, _, _ := newAnalysis(nil, nil, 1000)

		_, err := svc.Chat(context.Background(), "hi")

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

func TestAnalysisService_SetSystemPrompt(t *testing.T) {
	llm := replyingLLM("ok")
	svc, _, _, _ := newAnalysis(llm, nil, 1000)

	svc.SetSystemPrompt("   ")
	svc.SetSystemPrompt("custom system prompt")
	_, err := svc.Chat(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "custom system prompt", llm.Calls()[0].messages[0].Content)
}

func TestFormatReport(t *testing.T) {
	assert.Empty(t, FormatReport(nil))

	out := FormatReport(&domain.AnalysisReport{
		Result:       domain.AnalysisResult{SourceName: "doc", Elements: []domain.Element{{}}},
		Summary:      domain.AnalysisSummary{TotalChunks: 4, Categories: []string{"a"}},
		SliceCount:   2,
		FailedSlices: []int{1},
	})

	assert.Contains(t, out, "Source: doc")
	assert.Contains(t, out, "  - a")
	assert.Contains(t, out, "1 of 2 slices failed")
}

func TestAnalysisService_RateLimitedSliceBacksOff(t *testing.T) {
	_, metrics, _, _ := newStores()
	throttle := &backoffThrottler{}
	llm := newMockLLM(func(call int, _ []driven.ChatMessage) (string, error) {
		if call == 0 {
			return "", fmt.Errorf("status 429: %w", domain.ErrRateLimited)
		}
		return twoElements, nil
	})
	svc := NewAnalysisService(metrics, llm, nil, slicer.New(slicer.WithMaxSize(5)), throttle)

	report, err := svc.AnalyzeText(context.Background(), "doc", "aaaa\n\nbbbb", driving.AnalyzeOptions{})

	require.NoError(t, err)
	assert.Equal(t, []int{0}, report.FailedSlices)
	assert.Equal(t, 1, throttle.backoffs)
	assert.Equal(t, 2, throttle.Waits())
}
