// Package feedmgr owns the refresh lifecycle of a GTFS feed: download
// it, parse it into a timetable.RailroadData catalog, snapshot the
// catalog to disk, and record the run in a store.Store. It adapts the
// periodic-refresh shape of a static-feed manager to this domain's
// opaque-snapshot persistence model instead of per-row SQL storage.
package feedmgr

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"harail.dev/harail/downloader"
	"harail.dev/harail/gtfsload"
	"harail.dev/harail/store"
	"harail.dev/harail/timetable"
	"harail.dev/harail/timetable/snapshot"
)

// DefaultRefreshInterval is how stale a feed can get before Refresh
// re-downloads it, absent a more recent successful run.
const DefaultRefreshInterval = 12 * time.Hour

// ErrNoSnapshot is returned by LoadLatest when no feed has ever been
// successfully refreshed.
var ErrNoSnapshot = errors.New("no snapshot available")

// Manager coordinates downloading, parsing and snapshotting a single
// GTFS feed URL.
type Manager struct {
	Downloader      downloader.Downloader
	Store           store.Store
	SnapshotDir     string
	AgencyName      string
	RefreshInterval time.Duration

	mu       sync.Mutex
	cached   *timetable.RailroadData
	cachedAt time.Time
}

// NewManager builds a Manager that snapshots into snapshotDir.
func NewManager(dl downloader.Downloader, st store.Store, snapshotDir, agencyName string) *Manager {
	return &Manager{
		Downloader:      dl,
		Store:           st,
		SnapshotDir:     snapshotDir,
		AgencyName:      agencyName,
		RefreshInterval: DefaultRefreshInterval,
	}
}

func (m *Manager) snapshotPath(hash string) string {
	return filepath.Join(m.SnapshotDir, hash+".snap")
}

// Refresh downloads url if the most recent recorded run is missing or
// older than RefreshInterval, or if force is true. A successful
// refresh writes a new snapshot file (skipped if one already exists
// for this content hash) and records a store.FeedRun; it also
// refreshes the in-memory cache LoadLatest serves from.
func (m *Manager) Refresh(ctx context.Context, url string, force bool) error {
	if !force {
		last, ok, err := m.Store.LatestFeedRun(url)
		if err != nil {
			return fmt.Errorf("checking last refresh: %w", err)
		}
		if ok && last.RetrievedAt.Add(m.RefreshInterval).After(time.Now()) {
			return nil
		}
	}

	// A forced refresh always hits the network; otherwise a caching
	// Downloader is allowed to serve a response it fetched within our
	// own RefreshInterval instead of making a redundant request.
	body, err := m.Downloader.Get(ctx, url, nil, downloader.GetOptions{
		Timeout:  60 * time.Second,
		Cache:    !force,
		CacheTTL: m.RefreshInterval,
	})
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(body))

	data, err := gtfsload.FromZipBytes(body, gtfsload.Options{AgencyName: m.AgencyName})
	if err != nil {
		return fmt.Errorf("parsing feed from %s: %w", url, err)
	}

	if err := os.MkdirAll(m.SnapshotDir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	path := m.snapshotPath(hash)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating snapshot file: %w", err)
		}
		writeErr := snapshot.Write(f, data)
		closeErr := f.Close()
		if writeErr != nil {
			return fmt.Errorf("writing snapshot: %w", writeErr)
		}
		if closeErr != nil {
			return fmt.Errorf("closing snapshot file: %w", closeErr)
		}
	}

	run := store.FeedRun{
		URL:          url,
		SHA256:       hash,
		RetrievedAt:  time.Now(),
		StationCount: len(data.Stations()),
		TrainCount:   len(data.Trains()),
	}
	if err := m.Store.WriteFeedRun(run); err != nil {
		return fmt.Errorf("recording feed run: %w", err)
	}

	m.mu.Lock()
	m.cached = data
	m.cachedAt = run.RetrievedAt
	m.mu.Unlock()

	return nil
}

// LoadLatest returns the most recently ingested catalog for url. If
// the process still holds it in memory (e.g. this Manager just
// refreshed it), that copy is returned directly; otherwise it's
// reloaded from the recorded run's snapshot file on disk.
func (m *Manager) LoadLatest(url string) (*timetable.RailroadData, error) {
	m.mu.Lock()
	cached := m.cached
	m.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	last, ok, err := m.Store.LatestFeedRun(url)
	if err != nil {
		return nil, fmt.Errorf("looking up last refresh: %w", err)
	}
	if !ok {
		return nil, ErrNoSnapshot
	}

	f, err := os.Open(m.snapshotPath(last.SHA256))
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	data, err := snapshot.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	m.mu.Lock()
	m.cached = data
	m.cachedAt = last.RetrievedAt
	m.mu.Unlock()

	return data, nil
}
