// Package storetest provides a conformance suite run against every
// core.Store backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store and a function that opens the same
// underlying data again after the store has been closed.
type Factory func(t *testing.T) (store core.Store, reopen func() core.Store)

var (
	stamp1 = time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	stamp2 = time.Date(2023, 1, 20, 8, 30, 0, 0, time.UTC)
)

func input(name string, quantity, price int64, at time.Time) core.ProductInput {
	return core.ProductInput{Name: name, Quantity: quantity, Price: price, UpdatedAt: at}
}

// Run executes the suite against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s core.Store, reopen func() core.Store)
	}{
		{"CreateAndGet", testCreateAndGet},
		{"CreateDuplicate", testCreateDuplicate},
		{"UpsertCreatesThenUpdates", testUpsertCreatesThenUpdates},
		{"UpsertIdempotent", testUpsertIdempotent},
		{"UpsertRejectsInvalid", testUpsertRejectsInvalid},
		{"NotFound", testNotFound},
		{"ListOrderedByID", testListOrderedByID},
		{"NamesUnique", testNamesUnique},
		{"ConcurrentUpserts", testConcurrentUpserts},
		{"Reopen", testReopen},
		{"LocalTimestampStoredUTC", testLocalTimestampStoredUTC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, reopen := newStore(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s, reopen)
		})
	}
}

func testCreateAndGet(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	p, err := s.Create(ctx, input("Widget A", 10, 500, stamp1))
	require.NoError(t, err)
	assert.Positive(t, p.ID)
	assert.Equal(t, "Widget A", p.Name)
	assert.Equal(t, int64(10), p.Quantity)
	assert.Equal(t, int64(500), p.Price)
	assert.True(t, p.UpdatedAt.Equal(stamp1), "UpdatedAt = %v", p.UpdatedAt)

	byID, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, byID)

	byName, err := s.GetByName(ctx, "Widget A")
	require.NoError(t, err)
	assert.Equal(t, p, byName)
}

func testCreateDuplicate(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	first, err := s.Create(ctx, input("Widget", 1, 100, stamp1))
	require.NoError(t, err)

	_, err = s.Create(ctx, input("Widget", 2, 200, stamp2))
	require.ErrorIs(t, err, core.ErrDuplicateKey)

	got, err := s.GetByName(ctx, "Widget")
	require.NoError(t, err)
	assert.Equal(t, first, got, "duplicate create modified the stored product")
}

func testUpsertCreatesThenUpdates(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	p, created, err := s.Upsert(ctx, input("Widget A", 10, 500, stamp1))
	require.NoError(t, err)
	assert.True(t, created)

	q, created, err := s.Upsert(ctx, input("Widget A", 3, 500, stamp2))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, q.ID)
	assert.Equal(t, int64(3), q.Quantity)
	assert.True(t, q.UpdatedAt.Equal(stamp2), "UpdatedAt = %v, want %v", q.UpdatedAt, stamp2)

	got, err := s.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func testUpsertIdempotent(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()
	in := input("Gadget", 4, 1999, stamp1)

	first, _, err := s.Upsert(ctx, in)
	require.NoError(t, err)
	second, created, err := s.Upsert(ctx, in)
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first, second)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testUpsertRejectsInvalid(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	for _, in := range []core.ProductInput{
		input("", 1, 1, stamp1),
		input("Neg qty", -1, 1, stamp1),
		input("Neg price", 1, -1, stamp1),
		input("No time", 1, 1, time.Time{}),
	} {
		_, _, err := s.Upsert(ctx, in)
		assert.ErrorIs(t, err, core.ErrFormat, "Upsert(%+v)", in)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testNotFound(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	_, err := s.GetByID(ctx, 9999)
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Contains(t, err.Error(), "9999")

	_, err = s.GetByName(ctx, "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func testListOrderedByID(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, _, err := s.Upsert(ctx, input(name, 1, 100, stamp1))
		require.NoError(t, err)
	}
	// Updating an early record must not move it.
	_, _, err = s.Upsert(ctx, input("Zeta", 9, 100, stamp2))
	require.NoError(t, err)

	all, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Name
		if i > 0 {
			assert.Greater(t, p.ID, all[i-1].ID)
		}
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names)
}

func testNamesUnique(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := s.Upsert(ctx, input("Widget", int64(i), 100, stamp1.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(4), all[0].Quantity)
}

func testConcurrentUpserts(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()
	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := s.Upsert(ctx, input("Shared", int64(i), 100, stamp1)); err != nil {
				errs <- err
			}
			if _, _, err := s.Upsert(ctx, input(fmt.Sprintf("Own %d", i), 1, 100, stamp1)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Upsert: %v", err)
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, workers+1)
}

func testReopen(t *testing.T, s core.Store, reopen func() core.Store) {
	ctx := context.Background()

	p, _, err := s.Upsert(ctx, input("Widget A", 10, 500, stamp1))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2 := reopen()
	t.Cleanup(func() { s2.Close() })

	got, err := s2.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Ids keep increasing after a reopen.
	q, created, err := s2.Upsert(ctx, input("Widget B", 1, 100, stamp2))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Greater(t, q.ID, p.ID)
}

func testLocalTimestampStoredUTC(t *testing.T, s core.Store, _ func() core.Store) {
	ctx := context.Background()
	zone := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2023, 6, 1, 10, 0, 0, 0, zone)

	p, _, err := s.Upsert(ctx, input("Zoned", 1, 100, at))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, p.UpdatedAt.Location())
	assert.True(t, p.UpdatedAt.Equal(at))

	got, err := s.GetByName(ctx, "Zoned")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
