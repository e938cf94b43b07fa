// Package downloader fetches a GTFS feed body over HTTP on behalf of
// feedmgr, with pluggable caching so repeated refreshes of an
// unchanged feed don't re-fetch it.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GetOptions controls one feed fetch. Cache/CacheTTL are set by
// feedmgr from its own RefreshInterval — a caching Downloader never
// invents a TTL of its own, it just honors the one it's handed.
type GetOptions struct {
	MaxSize  int
	Timeout  time.Duration
	Cache    bool
	CacheTTL time.Duration
}

// Downloader fetches a GTFS feed body from a URL, optionally caching
// it so feedmgr doesn't re-fetch an unchanged feed inside its own
// refresh interval.
type Downloader interface {
	Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)
}

// HTTPGet fetches a feed body over plain HTTP. Doesn't cache.
// Provided as a building block for the caching Downloader
// implementations below.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}
