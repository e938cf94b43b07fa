package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/lib/pq"
)

// Postgres is a Store backed by Postgres, for HTTP deployments where
// several server replicas share one fetch-history table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against connStr and ensures the
// feed_run table exists.
func NewPostgres(connStr string) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
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

	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) WriteFeedRun(run FeedRun) error {
	_, err := p.db.Exec(`
INSERT INTO feed_run (url, sha256, retrieved_at, station_count, train_count)
VALUES ($1, $2, $3, $4, $5)
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

func (p *Postgres) LatestFeedRun(url string) (FeedRun, bool, error) {
	runs, err := p.ListFeedRuns(url)
	if err != nil || len(runs) == 0 {
		return FeedRun{}, false, err
	}
	return runs[0], true, nil
}

func (p *Postgres) ListFeedRuns(url string) ([]FeedRun, error) {
	query := `SELECT url, sha256, retrieved_at, station_count, train_count FROM feed_run`
	args := []any{}
	if url != "" {
		query += ` WHERE url = $1`
		args = append(args, url)
	}

	rows, err := p.db.Query(query, args...)
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
