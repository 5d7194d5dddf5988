package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driven"
	"github.com/custodia-labs/datacrafter/internal/core/ports/driving"
	"github.com/custodia-labs/datacrafter/internal/logger"
)

// Ensure OperationsService implements the interface.
var _ driving.OperationsService = (*OperationsService)(nil)

const queryPrompt = `You answer questions about the documents processed by DataCrafter.
Use only the document list below. If it does not contain the answer, say so.

Documents (most recent first):
%s`

// OperationsService implements upload and query.
type OperationsService struct {
	metrics  driving.MetricsService
	blobs    driven.BlobStore
	llm      driven.LLMService
	recorder driven.OperationRecorder
}

// NewOperationsService creates a new operations service.
// The blobs and llm parameters are optional (can be nil).
func NewOperationsService(
	metrics driving.MetricsService,
	blobs driven.BlobStore,
	llm driven.LLMService,
) *OperationsService {
	return &OperationsService{
		metrics:  metrics,
		blobs:    blobs,
		llm:      llm,
		recorder: noopRecorder{},
	}
}

// SetRecorder sets the telemetry recorder.
func (s *OperationsService) SetRecorder(r driven.OperationRecorder) {
	if r == nil {
		r = noopRecorder{}
	}
	s.recorder = r
}

// Upload stores the file under a random blob name and records it in the
// document history. Every failure is counted as a failed operation.
func (s *OperationsService) Upload(
	ctx context.Context, fileName string, r io.Reader, size int64,
) (*domain.UploadResult, error) {
	if s.metrics == nil {
		return nil, domain.ErrNotImplemented
	}
	start := time.Now()

	result, err := s.upload(ctx, fileName, r, size)
	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("Upload of %s failed: %v", fileName, err)
		s.metrics.RecordOutcome(false)
		s.recorder.RecordOperation(opUpload, false, elapsed)
		return nil, err
	}

	s.metrics.RecordUpload()
	s.metrics.RecordOutcome(true)
	s.metrics.RecordProcessingTime(elapsed)
	s.recorder.RecordOperation(opUpload, true, elapsed)
	logger.Info("Uploaded %s as %s (%d bytes)", fileName, result.BlobName, result.Document.SizeBytes)
	return result, nil
}

func (s *OperationsService) upload(
	ctx context.Context, fileName string, r io.Reader, size int64,
) (*domain.UploadResult, error) {
	if s.blobs == nil {
		return nil, domain.ErrBlobStoreUnavailable
	}
	if r == nil {
		return nil, fmt.Errorf("%w: no file", domain.ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(domain.SupportedUploadExtensions, ext) {
		return nil, fmt.Errorf("%w: %q (supported: %s)", domain.ErrUnsupportedType, ext,
			strings.Join(domain.SupportedUploadExtensions, ", "))
	}

	blobName := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	counter := &countingReader{r: r}
	if err := s.blobs.Put(ctx, blobName, counter, size, contentTypeFor(fileName)); err != nil {
		return nil, fmt.Errorf("store %s: %w", blobName, err)
	}

	record := s.metrics.IngestDocument(domain.DocumentRecord{
		FileName:  filepath.Base(fileName),
		BlobName:  blobName,
		Type:      domain.DocumentTypeForFile(fileName),
		SizeBytes: counter.n,
		Status:    domain.DocumentProcessed,
	})

	return &domain.UploadResult{
		Status:   domain.UploadStatusOK,
		BlobName: blobName,
		Document: record,
	}, nil
}

// Query answers a question with the k most recent document records as context.
func (s *OperationsService) Query(ctx context.Context, question string, k int) (*domain.QueryAnswer, error) {
	if s.metrics == nil {
		return nil, domain.ErrNotImplemented
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = driving.DefaultQueryK
	}
	k = min(k, driving.MaxQueryK)

	start := time.Now()
	docs := mostRecent(s.metrics.History(), k)
	logger.Debug("Query with %d context documents: %q", len(docs), question)

	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: fmt.Sprintf(queryPrompt, describeDocuments(docs))},
		{Role: driven.RoleUser, Content: question},
	}, driven.ChatOptions{Temperature: chatTemperature, MaxTokens: chatMaxTokens})
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordOutcome(false)
		s.recorder.RecordOperation(opQuery, false, elapsed)
		return nil, fmt.Errorf("query: %w", err)
	}

	s.metrics.RecordQuery()
	s.metrics.RecordOutcome(true)
	s.recorder.RecordOperation(opQuery, true, elapsed)
	return &domain.QueryAnswer{Answer: answer}, nil
}

// mostRecent returns up to k records from history, newest first.
func mostRecent(history []domain.DocumentRecord, k int) []domain.DocumentRecord {
	out := make([]domain.DocumentRecord, 0, min(k, len(history)))
	for i := len(history) - 1; i >= 0 && len(out) < k; i-- {
		out = append(out, history[i])
	}
	return out
}

func describeDocuments(docs []domain.DocumentRecord) string {
	if len(docs) == 0 {
		return "(no documents processed yet)"
	}
	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "- %s (%s, %d bytes, %d chunks", d.FileName, d.Type, d.SizeBytes, d.NumChunks)
		if len(d.Categories) > 0 {
			fmt.Fprintf(&b, ", categories: %s", strings.Join(d.Categories, ", "))
		}
		fmt.Fprintf(&b, ", processed %s)\n", d.ProcessingDate.Format(time.RFC3339))
	}
	return b.String()
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
