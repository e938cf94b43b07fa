package downloader

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// FeedFileCache caches downloaded GTFS feed bodies in a JSON file on
// disk, keyed by feed URL, so a crashed and restarted feedmgr doesn't
// lose its cache and re-download a feed it just fetched.
type FeedFileCache struct {
	Path    string
	Records map[string]cachedFeed

	mutex sync.Mutex
}

type cachedFeed struct {
	Body        string `json:"body"`
	RetrievedAt string `json:"retrieved_at"`
}

func NewFeedFileCache(path string) (*FeedFileCache, error) {
	c := &FeedFileCache{
		Path:    path,
		Records: map[string]cachedFeed{},
	}

	err := c.load()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (c *FeedFileCache) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options GetOptions,
) ([]byte, error) {

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if options.Cache {
		if record, found := c.Records[url]; found {
			retrievedAt, err := time.Parse(time.RFC3339, record.RetrievedAt)
			if err != nil {
				return nil, err
			}
			if retrievedAt.Add(options.CacheTTL).After(time.Now()) {
				body, err := base64.StdEncoding.DecodeString(record.Body)
				if err != nil {
					return nil, fmt.Errorf("decoding cached feed: %w", err)
				}
				return body, nil
			}
		}
	}

	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return nil, fmt.Errorf("downloading feed: %w", err)
	}

	if options.Cache {
		c.Records[url] = cachedFeed{
			Body:        base64.StdEncoding.EncodeToString(body),
			RetrievedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := c.save(); err != nil {
			return nil, fmt.Errorf("saving feed cache: %w", err)
		}
	}

	return body, nil
}

func (c *FeedFileCache) load() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, err := os.Stat(c.Path)
	if os.IsNotExist(err) {
		return nil
	}

	buf, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("reading feed cache: %w", err)
	}

	if err := json.Unmarshal(buf, &c.Records); err != nil {
		return fmt.Errorf("unmarshalling feed cache: %w", err)
	}

	return nil
}

func (c *FeedFileCache) save() error {
	buf, err := json.Marshal(c.Records)
	if err != nil {
		return fmt.Errorf("marshalling feed cache: %w", err)
	}

	if err := os.WriteFile(c.Path, buf, 0644); err != nil {
		return fmt.Errorf("writing feed cache: %w", err)
	}

	return nil
}
