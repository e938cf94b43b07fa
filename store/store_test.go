package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"harail.dev/harail/store"
)

type storeBuilder func() (store.Store, error)

func testStoreImplementation(t *testing.T, build storeBuilder) {
	t.Helper()

	s, err := build()
	require.NoError(t, err)

	_, ok, err := s.LatestFeedRun("https://example.test/gtfs.zip")
	require.NoError(t, err)
	require.False(t, ok)

	older := store.FeedRun{
		URL:          "https://example.test/gtfs.zip",
		SHA256:       "aaa",
		RetrievedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		StationCount: 10,
		TrainCount:   5,
	}
	newer := store.FeedRun{
		URL:          "https://example.test/gtfs.zip",
		SHA256:       "bbb",
		RetrievedAt:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		StationCount: 12,
		TrainCount:   6,
	}
	require.NoError(t, s.WriteFeedRun(older))
	require.NoError(t, s.WriteFeedRun(newer))

	latest, ok, err := s.LatestFeedRun(older.URL)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, newer.SHA256, latest.SHA256)

	runs, err := s.ListFeedRuns(older.URL)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, newer.SHA256, runs[0].SHA256)
	require.Equal(t, older.SHA256, runs[1].SHA256)

	updated := older
	updated.StationCount = 99
	require.NoError(t, s.WriteFeedRun(updated))
	runs, err = s.ListFeedRuns(older.URL)
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestMemory(t *testing.T) {
	testStoreImplementation(t, func() (store.Store, error) {
		return store.NewMemory(), nil
	})
}

func TestSQLite(t *testing.T) {
	testStoreImplementation(t, func() (store.Store, error) {
		return store.NewSQLite()
	})
}
