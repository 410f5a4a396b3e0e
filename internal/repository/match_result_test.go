package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hub/testing/suite"
)

func finishedResult(t *testing.T, code string) entity.MatchResult {
	t.Helper()

	match := entity.NewMatch(code, entity.Player{ID: "alice", Name: "Alice"})
	require.NoError(t, match.Join(entity.Player{ID: "bob", Name: "Bob"}))

	for _, m := range []struct {
		who      string
		row, col int
	}{{"alice", 0, 0}, {"bob", 1, 0}, {"alice", 0, 1}, {"bob", 1, 1}, {"alice", 0, 2}} {
		_, err := match.ApplyMove(m.who, m.row, m.col)
		require.NoError(t, err)
	}

	result, ok := entity.NewMatchResult(match)
	require.True(t, ok)

	return result
}

func TestMatchResultRepository_RecordMatchResult(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewMatchResultRepository(st.Storage, time.Hour, 10)

	// Given: a finished match won by Alice
	result := finishedResult(t, "abc123")

	// When: RecordMatchResult is called
	err := repo.RecordMatchResult(ctx, result)

	// Then: it is stored under its room code with a TTL
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "match:abc123").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	stored, err := repo.GetByRoomCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeWin, stored.Outcome.Kind)
	assert.Equal(t, "row 0", stored.Outcome.LineName())
	require.NotNil(t, stored.Winner)
	assert.Equal(t, "Alice", stored.Winner.Name)
	assert.Equal(t, entity.MarkX, stored.Board[0][2])
}

func TestMatchResultRepository_GetByRoomCode(t *testing.T) {
	t.Run("GetByRoomCode_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewMatchResultRepository(st.Storage, 0, 10)

		// When: GetByRoomCode is called with an unknown code
		result, err := repo.GetByRoomCode(ctx, "missing")

		// Then: ErrMatchNotFound is returned
		require.ErrorIs(t, err, ErrMatchNotFound)
		assert.Nil(t, result)
	})
}

func TestMatchResultRepository_ListRecent(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewMatchResultRepository(st.Storage, 0, 3)

	// Given: five finished matches recorded in order
	for i := range 5 {
		require.NoError(t, repo.RecordMatchResult(ctx, finishedResult(t, fmt.Sprintf("room%d", i))))
	}

	// When: listing recent matches
	recent, err := repo.ListRecent(ctx, 0)

	// Then: only the newest three are kept, newest first
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "room4", recent[0].RoomCode)
	assert.Equal(t, "room2", recent[2].RoomCode)

	length, err := st.Storage.LLen(ctx, recentMatchesKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), length)

	// When: asking for fewer
	recent, err = repo.ListRecent(ctx, 1)

	// Then: the limit is honored
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "room4", recent[0].RoomCode)
}
