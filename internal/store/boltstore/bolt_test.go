package boltstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path, time.Second)
	require.NoError(t, err)
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (core.Store, func() core.Store) {
		path := filepath.Join(t.TempDir(), "inventory.db")
		return open(t, path), func() core.Store { return open(t, path) }
	})
}

func TestOpen_LockedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	s := open(t, path)
	defer s.Close()

	_, err := Open(path, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.Equal(t, "DB001", core.MapError(err).Code)
}

func TestUpsert_CancelledContext(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "inventory.db"))
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Upsert(ctx, core.ProductInput{Name: "Widget", Quantity: 1, Price: 1, UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, context.Canceled)

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetByID_NonPositive(t *testing.T) {
	s := open(t, filepath.Join(t.TempDir(), "inventory.db"))
	defer s.Close()

	for _, id := range []int64{0, -1} {
		_, err := s.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, core.ErrNotFound, "GetByID(%d)", id)
	}
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.db")
	s := open(t, path)
	defer s.Close()

	assert.Equal(t, path, s.Path())
}
