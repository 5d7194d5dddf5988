package driven

import "context"

// Throttler paces calls to a rate limited upstream service.
type Throttler interface {
	// Wait blocks until the next call may proceed or ctx is done.
	Wait(ctx context.Context) error
}
