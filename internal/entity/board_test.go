package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardFrom(rows ...string) *Board {
	board := NewBoard(len(rows))
	for r, row := range rows {
		for c, ch := range row {
			switch ch {
			case 'X':
				board.set(r, c, MarkX)
			case 'O':
				board.set(r, c, MarkO)
			}
		}
	}

	return board
}

func TestBoard_FindWin(t *testing.T) {
	t.Run("Detects every one of the 8 lines on a 3x3 board", func(t *testing.T) {
		// Given: all winning lines of an empty 3x3 board
		lines := NewBoard(BoardSize).Lines()
		require.Len(t, lines, 8)

		for _, line := range lines {
			// When: only that line is filled with X
			board := NewBoard(BoardSize)
			for _, cell := range line.Cells {
				board.set(cell.Row, cell.Col, MarkX)
			}

			// Then: the win is found on exactly that line, and not for O
			found, ok := board.FindWin(MarkX)
			require.True(t, ok, line.String())
			assert.Equal(t, line.String(), found.String())

			_, ok = board.FindWin(MarkO)
			assert.False(t, ok)
		}
	})

	t.Run("Returns false when no line is complete", func(t *testing.T) {
		// Given: a full board without a completed line
		board := boardFrom(
			"XOX",
			"XOO",
			"OXX",
		)

		// When: searching for a win for either mark
		_, xWins := board.FindWin(MarkX)
		_, oWins := board.FindWin(MarkO)

		// Then: neither mark wins
		assert.False(t, xWins)
		assert.False(t, oWins)
		assert.True(t, board.IsFull())
	})

	t.Run("Never reports a win for the empty mark", func(t *testing.T) {
		_, ok := NewBoard(BoardSize).FindWin(MarkEmpty)
		assert.False(t, ok)
	})
}

func TestBoard_WinThrough(t *testing.T) {
	t.Run("Reports the row through the played cell", func(t *testing.T) {
		// Given: X holds the whole top row
		board := boardFrom(
			"XXX",
			"OO.",
			"...",
		)

		// When: checking through the last played cell
		line, ok := board.WinThrough(0, 2, MarkX)

		// Then: row 0 is the winning line
		require.True(t, ok)
		assert.Equal(t, "row 0", line.String())
	})

	t.Run("Ignores complete lines that do not pass through the cell", func(t *testing.T) {
		// Given: X holds row 0, but the cell checked is in row 2
		board := boardFrom(
			"XXX",
			"...",
			"..X",
		)

		// When: checking only through (2, 0)
		_, ok := board.WinThrough(2, 0, MarkX)

		// Then: no line through that cell is complete
		assert.False(t, ok)
	})

	t.Run("Generalizes to a 4x4 anti-diagonal", func(t *testing.T) {
		// Given: a 4x4 board with O on the anti-diagonal
		board := boardFrom(
			"...O",
			"..O.",
			".O..",
			"O...",
		)

		// When: checking through a corner of the anti-diagonal
		line, ok := board.WinThrough(3, 0, MarkO)

		// Then: the anti-diagonal wins
		require.True(t, ok)
		assert.Equal(t, LineAntiDiagonal, line.Kind)
		assert.Len(t, line.Cells, 4)
		assert.Len(t, board.Lines(), 10)
	})
}

func TestBoard_Rows(t *testing.T) {
	// Given: a board with one mark
	board := boardFrom(
		"X..",
		"...",
		"...",
	)

	// When: taking a copy and mutating it
	rows := board.Rows()
	rows[0][0] = MarkO

	// Then: the board is untouched
	assert.Equal(t, MarkX, board.At(0, 0))
	assert.Equal(t, MarkEmpty, board.At(5, 5))
}
