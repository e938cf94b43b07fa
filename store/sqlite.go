package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig selects where the bookkeeping database lives. The zero
// value opens an in-memory database, useful for tests.
type SQLiteConfig struct {
	OnDisk    bool
	Directory string
}

// SQLite is a Store backed by a sqlite3 database: in memory, or a
// single harail.db file in Directory when OnDisk is set.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(cfg ...SQLiteConfig) (*SQLite, error) {
	onDisk, directory := false, ""
	if len(cfg) > 0 {
		onDisk = cfg[0].OnDisk
		directory = cfg[0].Directory
	}

	sourceName := ":memory:"
	if onDisk {
		sourceName = directory + "/harail.db"
	}

	db, err := sql.Open("sqlite3", sourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS feed_run (
    url TEXT NOT NULL,
    sha256 TEXT NOT NULL,
    retrieved_at TIMESTAMP NOT NULL,
    station_count INTEGER NOT NULL,
    train_count INTEGER NOT NULL,
    PRIMARY KEY (url, sha256)
)`)
	if err != nil {
		return nil, fmt.Errorf("creating feed_run table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) WriteFeedRun(run FeedRun) error {
	_, err := s.db.Exec(`
INSERT INTO feed_run (url, sha256, retrieved_at, station_count, train_count)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (url, sha256) DO UPDATE SET
    retrieved_at = excluded.retrieved_at,
    station_count = excluded.station_count,
    train_count = excluded.train_count
`, run.URL, run.SHA256, run.RetrievedAt, run.StationCount, run.TrainCount)
	if err != nil {
		return fmt.Errorf("writing feed run: %w", err)
	}
	return nil
}

func (s *SQLite) LatestFeedRun(url string) (FeedRun, bool, error) {
	runs, err := s.ListFeedRuns(url)
	if err != nil || len(runs) == 0 {
		return FeedRun{}, false, err
	}
	return runs[0], true, nil
}

func (s *SQLite) ListFeedRuns(url string) ([]FeedRun, error) {
	query := `SELECT url, sha256, retrieved_at, station_count, train_count FROM feed_run`
	args := []any{}
	if url != "" {
		query += ` WHERE url = ?`
		args = append(args, url)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing feed runs: %w", err)
	}
	defer rows.Close()

	runs := []FeedRun{}
	for rows.Next() {
		var run FeedRun
		var retrievedAt time.Time
		if err := rows.Scan(&run.URL, &run.SHA256, &retrievedAt, &run.StationCount, &run.TrainCount); err != nil {
			return nil, fmt.Errorf("scanning feed run: %w", err)
		}
		run.RetrievedAt = retrievedAt
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].RetrievedAt.After(runs[j].RetrievedAt) })
	return runs, nil
}
