package downloader

import (
	"context"
	"sync"
	"time"
)

// FeedMemoryCache caches downloaded GTFS feed bodies in memory, keyed
// by feed URL. Cheaper than FeedFileCache for a long-running process
// that doesn't need its cache to survive a restart.
type FeedMemoryCache struct {
	mutex   sync.Mutex
	records map[string]cachedFeedEntry

	TimeNow func() time.Time
}

type cachedFeedEntry struct {
	data       []byte
	expiration time.Time
}

func NewFeedMemoryCache() *FeedMemoryCache {
	return &FeedMemoryCache{
		records: map[string]cachedFeedEntry{},
		TimeNow: time.Now,
	}
}

func (c *FeedMemoryCache) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {
	if options.Cache {
		c.mutex.Lock()
		defer c.mutex.Unlock()

		if record, ok := c.records[url]; ok {
			if record.expiration.After(c.TimeNow()) {
				return record.data, nil
			}
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return nil, err
	}

	if options.Cache {
		c.records[url] = cachedFeedEntry{
			data:       body,
			expiration: c.TimeNow().Add(options.CacheTTL),
		}
	}

	return body, nil
}
