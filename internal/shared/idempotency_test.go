package shared

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type keyRow struct{ key, module string }

// keyTable mimics idempotency_keys for the two statements the store issues.
type keyTable struct {
	mu   sync.Mutex
	rows map[keyRow]time.Time
}

func newKeyTable() *keyTable {
	return &keyTable{rows: map[keyRow]time.Time{}}
}

func (k *keyTable) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	switch {
	case strings.HasPrefix(sql, "INSERT"):
		row := keyRow{args[0].(string), args[1].(string)}
		created, cutoff := args[2].(time.Time), args[3].(time.Time)
		if existing, ok := k.rows[row]; ok && !existing.Before(cutoff) {
			return pgconn.NewCommandTag("INSERT 0 0"), nil
		}
		k.rows[row] = created
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "created_at <"):
		cutoff := args[0].(time.Time)
		var n int
		for row, created := range k.rows {
			if created.Before(cutoff) {
				delete(k.rows, row)
				n++
			}
		}
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
	case strings.HasPrefix(sql, "DELETE"):
		delete(k.rows, keyRow{args[0].(string), args[1].(string)})
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement %q", sql)
}

func newTestStore(table *keyTable, clock *time.Time) *IdempotencyStore {
	store := NewIdempotencyStore(table, time.Hour)
	store.now = func() time.Time { return *clock }
	return store
}

func TestIdempotencyKeyExpires(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newTestStore(newKeyTable(), &clock)

	require.NoError(t, store.CheckAndInsert(ctx, "k-1", "sales.create"))
	require.ErrorIs(t, store.CheckAndInsert(ctx, "k-1", "sales.create"), ErrConflict)
	require.NoError(t, store.CheckAndInsert(ctx, "k-1", "other.module"))

	clock = clock.Add(59 * time.Minute)
	require.ErrorIs(t, store.CheckAndInsert(ctx, "k-1", "sales.create"), ErrConflict)

	clock = clock.Add(2 * time.Minute)
	require.NoError(t, store.CheckAndInsert(ctx, "k-1", "sales.create"))
	require.ErrorIs(t, store.CheckAndInsert(ctx, "k-1", "sales.create"), ErrConflict)
}

func TestIdempotencyCleanup(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	table := newKeyTable()
	store := newTestStore(table, &clock)

	require.NoError(t, store.CheckAndInsert(ctx, "old", "sales.create"))
	clock = clock.Add(90 * time.Minute)
	require.NoError(t, store.CheckAndInsert(ctx, "fresh", "sales.create"))

	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
	require.Len(t, table.rows, 1)
	require.Contains(t, table.rows, keyRow{"fresh", "sales.create"})

	require.NoError(t, store.Delete(ctx, "fresh", "sales.create"))
	require.Empty(t, table.rows)
}

func TestIdempotencyRunCleanupStopsOnCancel(t *testing.T) {
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	table := newKeyTable()
	table.rows[keyRow{"stale", "sales.create"}] = clock.Add(-2 * time.Hour)
	store := newTestStore(table, &clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunCleanup(ctx, time.Millisecond, nil)
		close(done)
	}()

	require.Eventually(t, func() bool {
		table.mu.Lock()
		defer table.mu.Unlock()
		return len(table.rows) == 0
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestIdempotencyRejectsMissingKey(t *testing.T) {
	store := NewIdempotencyStore(newKeyTable(), 0)
	require.Equal(t, DefaultIdempotencyRetention, store.retention)
	require.Error(t, store.CheckAndInsert(context.Background(), "", "sales.create"))
	require.Error(t, store.CheckAndInsert(context.Background(), "k", ""))

	var nilStore *IdempotencyStore
	require.Error(t, nilStore.CheckAndInsert(context.Background(), "k", "sales.create"))
}
