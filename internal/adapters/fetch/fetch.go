// Package fetch retrieves the raw leaderboard markup over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/poolwatch/pkg/metrics"
)

// Fetcher returns the raw leaderboard page.
type Fetcher interface {
	// Fetch issues one GET and returns the body, honoring ctx for cancellation.
	Fetch(ctx context.Context) ([]byte, error)
}

// Option applies a configuration option to the HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient sets the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// HTTPFetcher implements Fetcher with a plain GET to a fixed URL.
type HTTPFetcher struct {
	url       string
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewHTTPFetcher creates a fetcher for url.
func NewHTTPFetcher(url string, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		url:       url,
		client:    http.DefaultClient,
		userAgent: "poolwatch/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the page the fetcher polls.
func (f *HTTPFetcher) URL() string { return f.url }

// Fetch performs the GET. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d fetching %s", ErrStatus, resp.StatusCode, f.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBody, err)
	}
	metrics.RecordFetch(float64(time.Since(start).Milliseconds()), len(body))
	return body, nil
}
