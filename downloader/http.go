package downloader

import "context"

// HTTP fetches every request directly over the network, no caching.
// Built in the same constructor shape as FeedMemoryCache/FeedFileCache so callers
// can swap implementations freely.
type HTTP struct{}

func NewHTTP() *HTTP { return &HTTP{} }

func (h *HTTP) Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	return HTTPGet(ctx, url, headers, options)
}
