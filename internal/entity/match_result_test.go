package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchResult(t *testing.T) {
	t.Run("Not available while the match is running", func(t *testing.T) {
		match := NewMatch("abc123", Player{ID: "alice"})
		require.NoError(t, match.Join(Player{ID: "bob"}))

		_, ok := NewMatchResult(match)

		assert.False(t, ok)
	})

	t.Run("Names the winner", func(t *testing.T) {
		// Given: Bob completes column 2
		match := NewMatch("abc123", Player{ID: "alice", Name: "Alice"})
		require.NoError(t, match.Join(Player{ID: "bob", Name: "Bob"}))
		for _, m := range []struct {
			who      string
			row, col int
		}{{"alice", 0, 0}, {"bob", 0, 2}, {"alice", 1, 0}, {"bob", 1, 2}, {"alice", 2, 1}, {"bob", 2, 2}} {
			_, err := match.ApplyMove(m.who, m.row, m.col)
			require.NoError(t, err)
		}

		// When: building the record
		result, ok := NewMatchResult(match)

		// Then: Bob is the winner on col 2
		require.True(t, ok)
		require.NotNil(t, result.Winner)
		assert.Equal(t, "Bob", result.Winner.Name)
		assert.Equal(t, Seat2, result.Outcome.Seat)
		assert.Equal(t, "col 2", result.Outcome.LineName())
		assert.Equal(t, match.FinishedAt(), result.FinishedAt)
	})
}
