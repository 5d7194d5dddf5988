package driven

import (
	"context"
	"io"
)

// BlobStore stores uploaded files by name.
type BlobStore interface {
	// Put stores size bytes read from r under name.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error

	// Get opens the object stored under name.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes the object stored under name.
	Delete(ctx context.Context, name string) error
}
