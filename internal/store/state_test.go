package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/stagger-tui/internal/engine"
	"github.com/DaanHessen/stagger-tui/internal/util"
)

// openTestDB needs a disposable PostgreSQL database in STAGGER_TEST_DSN.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("STAGGER_TEST_DSN")
	if dsn == "" {
		t.Skip("STAGGER_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	mig, err := NewMigrator(dsn, "../../db/migrations")
	require.NoError(t, err)
	if err := mig.Up(ctx); err != nil && !errors.Is(err, ErrNoChange) {
		t.Fatalf("migrate up: %v", err)
	}
	db, err := Open(ctx, util.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStateRepoRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewStateRepo(db)
	key := "test:" + t.Name() + ":" + time.Now().Format(time.RFC3339Nano)

	_, _, err := repo.Latest(ctx, key)
	assert.True(t, errors.Is(err, ErrNotFound))

	want := &engine.SavedState{
		FirstPosition: 7,
		ViewTop:       -2,
		FirstStableID: 107,
		ColumnCount:   3,
		ColumnTops:    []int{-2, -4, -1},
		Records: map[int]engine.Record{
			0: {Column: -1, HeightRatio: 0.3, IsHeaderOrFooter: true},
			7: {Column: 1, HeightRatio: 0.8},
		},
	}
	id, err := repo.Save(ctx, key, want)
	require.NoError(t, err)

	got, gotID, err := repo.Latest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, want, got)

	_, err = repo.Save(ctx, key, &engine.SavedState{FirstStableID: engine.InvalidID, ColumnCount: 2})
	require.NoError(t, err)
	removed, err := repo.Prune(ctx, key, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	latest, _, err := repo.Latest(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.ColumnCount)
	assert.Empty(t, latest.Records)
}

func TestNewMigratorNeedsDSN(t *testing.T) {
	_, err := NewMigrator("", "")
	assert.Error(t, err)
}
