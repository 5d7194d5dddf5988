package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
)

// --- Mock LLM service ---

type mockLLMCall struct {
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

type mockLLMService struct {
	mu      sync.Mutex
	calls   []mockLLMCall
	respond func(call int, messages []driven.ChatMessage) (string, error)
}

func newMockLLM(respond func(call int, messages []driven.ChatMessage) (string, error)) *mockLLMService {
	return &mockLLMService{respond: respond}
}

// replyingLLM answers every call with the same reply.
func replyingLLM(reply string) *mockLLMService {
	return newMockLLM(func(int, []driven.ChatMessage) (string, error) { return reply, nil })
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	call := len(m.calls)
	m.calls = append(m.calls, mockLLMCall{messages: messages, opts: opts})
	m.mu.Unlock()
	return m.respond(call, messages)
}

func (m *mockLLMService) Calls() []mockLLMCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mockLLMCall, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

var errUpstream = errors.New("upstream returned 500")

// --- Mock document intelligence ---

type mockDocIntel struct {
	analysis    *domain.DocumentAnalysis
	err         error
	contentType string
}

func (m *mockDocIntel) Analyze(_ context.Context, _ []byte, contentType string) (*domain.DocumentAnalysis, error) {
	m.contentType = contentType
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

// --- Mock text extractor ---

type mockExtractor struct {
	name string
	exts []string
	text string
	err  error
}

func (m *mockExtractor) Name() string         { return m.name }
func (m *mockExtractor) Extensions() []string { return m.exts }

func (m *mockExtractor) Extract(data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(data), nil
}

// --- Mock throttler ---

type mockThrottler struct {
	mu    sync.Mutex
	waits int
}

func (m *mockThrottler) Wait(ctx context.Context) error {
	m.mu.Lock()
	m.waits++
	m.mu.Unlock()
	return ctx.Err()
}

func (m *mockThrottler) Waits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waits
}

// --- Mock recorder ---

type recordedOperation struct {
	kind    string
	success bool
}

type mockRecorder struct {
	mu         sync.Mutex
	operations []recordedOperation
	slicesOK   int
	slicesFail int
	elements   int
	chunks     int
}

func (m *mockRecorder) RecordOperation(kind string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations = append(m.operations, recordedOperation{kind: kind, success: success})
}

func (m *mockRecorder) RecordSlice(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.slicesOK++
	} else {
		m.slicesFail++
	}
}

func (m *mockRecorder) RecordIngest(elements, chunks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.elements += elements
	m.chunks += chunks
}

// --- Mock exporter ---

type mockExporter struct {
	format string
	err    error
}

func (m *mockExporter) Format() string      { return m.format }
func (m *mockExporter) Extension() string   { return "." + m.format }
func (m *mockExporter) ContentType() string { return "text/" + m.format }

func (m *mockExporter) Export(w io.Writer, result domain.AnalysisResult) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.format+":"+result.SourceName)
	return err
}

// --- Failing blob store ---

type failingBlobStore struct{}

func (failingBlobStore) Put(context.Context, string, io.Reader, int64, string) error {
	return errUpstream
}

func (failingBlobStore) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, domain.ErrNotFound
}

func (failingBlobStore) Delete(context.Context, string) error {
	return domain.ErrNotFound
}

// --- Backoff-aware throttler ---

type backoffThrottler struct {
	mockThrottler
	backoffs int
}

func (b *backoffThrottler) Backoff(time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backoffs++
}
