package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRoundTrip(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "data", "solves.db")
	db, err := openHistoryDB(dsn)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, insertSolveRecord(ctx, db, SolveRecord{
		Source:    "classic.txt",
		Solved:    true,
		Solution:  "48-32=16",
		Guesses:   3,
		ElapsedMs: 1200,
	}))
	require.NoError(t, insertSolveRecord(ctx, db, SolveRecord{
		Source:  "classic.txt",
		Solved:  false,
		Guesses: 4,
	}))

	records, err := recentSolveRecords(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Most recent first.
	assert.False(t, records[0].Solved)
	assert.Equal(t, 4, records[0].Guesses)
	assert.True(t, records[1].Solved)
	assert.Equal(t, "48-32=16", records[1].Solution)
	assert.Equal(t, 1200, records[1].ElapsedMs)
	assert.NotEmpty(t, records[1].CreatedAt)
}

func TestHistorySchemaIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "solves.db")
	db, err := openHistoryDB(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening must not fail or wipe anything.
	db, err = openHistoryDB(dsn)
	require.NoError(t, err)
	defer db.Close()

	records, err := recentSolveRecords(context.Background(), db, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}
