package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

// DefaultQueryK is the number of documents used as context when k is not set.
const DefaultQueryK = 5

// MaxQueryK caps the number of context documents of one query.
const MaxQueryK = 50

// OperationsService implements the upload and query operations of the REST proxy.
type OperationsService interface {
	// Upload stores a file and records it in the history.
	Upload(ctx context.Context, fileName string, r io.Reader, size int64) (*domain.UploadResult, error)

	// Query answers a question using the k most recent documents as context.
	Query(ctx context.Context, question string, k int) (*domain.QueryAnswer, error)
}
