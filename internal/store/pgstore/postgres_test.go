package pgstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/store/storetest"
	"github.com/stretchr/testify/require"
)

// testURL returns TEST_DATABASE_URL or skips the test. The products table in
// that database is truncated by every test.
func testURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

func open(t *testing.T, url string) *Store {
	t.Helper()
	s, err := Open(context.Background(), url, 4, 5*time.Second)
	require.NoError(t, err)
	return s
}

func TestConformance(t *testing.T) {
	url := testURL(t)

	storetest.Run(t, func(t *testing.T) (core.Store, func() core.Store) {
		s := open(t, url)
		_, err := s.pool.Exec(context.Background(), `TRUNCATE products RESTART IDENTITY`)
		require.NoError(t, err)
		return s, func() core.Store { return open(t, url) }
	})
}

func TestOpen_BadURL(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz", 1, time.Second)
	require.ErrorIs(t, err, core.ErrPersistence)
}
