package daily

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkay81/numquest/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewStore(db)
}

func TestAlreadyPlayedAndDuplicateInsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	played, err := s.AlreadyPlayed(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	assert.False(t, played)

	r := Result{UserID: "alice", Date: "2025-06-01", Target: 42, Attempts: 3, Won: true, ElapsedMs: 1200}
	require.NoError(t, s.InsertResult(ctx, r))

	played, err = s.AlreadyPlayed(ctx, "alice", "2025-06-01")
	require.NoError(t, err)
	assert.True(t, played)

	// Second insert for the same day is ignored, not an error.
	r.Attempts = 1
	require.NoError(t, s.InsertResult(ctx, r))
	rows, err := s.Leaderboard(ctx, "2025-06-01", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].Attempts)
}

func TestLeaderboardRanksWinsAboveLosses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	date := "2025-06-02"

	// A fast loss must never outrank a win, even a slow last-attempt one.
	require.NoError(t, s.InsertResult(ctx, Result{
		UserID: "loser", Date: date, Target: 42, Attempts: 5, Won: false, ElapsedMs: 1000,
	}))
	require.NoError(t, s.InsertResult(ctx, Result{
		UserID: "slow_winner", Date: date, Target: 42, Attempts: 5, Won: true, ElapsedMs: 9000,
	}))
	require.NoError(t, s.InsertResult(ctx, Result{
		UserID: "fast_winner", Date: date, Target: 42, Attempts: 2, Won: true, ElapsedMs: 3000,
	}))

	rows, err := s.Leaderboard(ctx, date, 20)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "fast_winner", rows[0].UserID)
	assert.Equal(t, "slow_winner", rows[1].UserID)
	assert.Equal(t, "loser", rows[2].UserID)
	assert.True(t, rows[0].Won)
	assert.True(t, rows[1].Won)
	assert.False(t, rows[2].Won)
}
