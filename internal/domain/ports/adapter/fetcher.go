package adapter

import "context"

// DocumentFetcher retrieves a document's bytes from its source locator.
// Any failure (network, non-2xx status) wraps domain.ErrFetchFailed; the
// caller decides whether that is fatal. Never retried.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
