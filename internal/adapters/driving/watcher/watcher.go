// Package watcher analyses files dropped into a directory.
//
// New and rewritten files are queued and analysed one at a time, so a burst
// of files never produces concurrent requests to the AI services.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// DefaultSettle is how long a file must stay unchanged before it is analysed.
const DefaultSettle = 500 * time.Millisecond

// queueSize bounds the pending files. Further events are dropped with a warning.
const queueSize = 64

// ErrMissingAnalysisService is returned when no analysis service is provided.
var ErrMissingAnalysisService = errors.New("watcher: analysis service is required")

// SupportedExtensions lists the file extensions the watcher picks up.
var SupportedExtensions = []string{
	".pdf", ".png", ".jpg", ".jpeg", ".txt", ".md",
	".html", ".htm", ".eml", ".docx",
}

// Result is the outcome of one analysed file.
type Result struct {
	Path   string
	Report *domain.AnalysisReport
	Err    error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

// WithPrompt adds an instruction to every analysis.
func WithPrompt(prompt string) Option {
	return func(w *Watcher) { w.prompt = prompt }
}

// WithResultHandler is called after each file is analysed.
func WithResultHandler(fn func(Result)) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// Watcher feeds files from a directory into the analysis service.
type Watcher struct {
	dir      string
	analysis driving.AnalysisService
	settle   time.Duration
	prompt   string
	onResult func(Result)

	mu      sync.Mutex
	pending map[string]*time.Timer
	queue   chan string
}

// New creates a watcher over dir.
func New(dir string, analysis driving.AnalysisService, opts ...Option) (*Watcher, error) {
	if analysis == nil {
		return nil, ErrMissingAnalysisService
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: %w: not a directory", dir, domain.ErrInvalidInput)
	}

	w := &Watcher{
		dir:      dir,
		analysis: analysis,
		settle:   DefaultSettle,
		onResult: func(Result) {},
		pending:  make(map[string]*time.Timer),
		queue:    make(chan string, queueSize),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Info("Watching %s", w.dir)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.process(ctx)
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleFsEvent(event); ok {
				w.schedule(path)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// handleFsEvent returns the path to analyse for an event, if any.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isHidden(event.Name) || !isSupported(event.Name) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return event.Name, true
}

// schedule queues path once it has been quiet for the settle period.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.queue <- path:
		default:
			logger.Warn("watch queue full, skipping %s", filepath.Base(path))
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) process(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			w.onResult(w.analyse(ctx, path))
		}
	}
}

func (w *Watcher) analyse(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}

	logger.Debug("Analysing %s (%d bytes)", path, len(data))
	report, err := w.analysis.AnalyzeDocument(ctx, filepath.Base(path), data, driving.AnalyzeOptions{Prompt: w.prompt})
	return Result{Path: path, Report: report, Err: err}
}

func isSupported(path string) bool {
	return slices.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(path)))
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
