package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/ports/adapter"
	"telegram-docs-bank/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.DocumentFetcher = (*HTTPFetcher)(nil)

// HTTPFetcher retrieves document bytes from the file host with a single
// bounded GET. The User-Agent is always set explicitly since some hosts
// reject blank or default agents.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	log       *zerolog.Logger
}

func NewHTTPFetcher(timeout time.Duration, userAgent string, logger *zerolog.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (data []byte, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFetch(start, err) }()

	if url == "" {
		return nil, fmt.Errorf("%w: empty source url", domain.ErrFetchFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: http %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFetchFailed, err)
	}
	f.log.Debug().Str("url", url).Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("document fetched")
	return data, nil
}
