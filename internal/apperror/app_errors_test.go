package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errUnexpected = errors.New("boom")

func TestLevelOf(t *testing.T) {
	t.Run("Turn and waiting rejections are informational", func(t *testing.T) {
		assert.Equal(t, LevelInfo, LevelOf(ErrNotYourTurn))
		assert.Equal(t, LevelInfo, LevelOf(ErrAwaitingSecondPlayer))
		assert.Equal(t, LevelInfo, LevelOf(fmt.Errorf("failed to apply move: %w", ErrOpponentLeft)))
	})

	t.Run("Invalid moves are warnings", func(t *testing.T) {
		assert.Equal(t, LevelWarning, LevelOf(ErrCellOccupied))
		assert.Equal(t, LevelWarning, LevelOf(ErrInvalidPosition))
		assert.Equal(t, LevelWarning, LevelOf(ErrGameAlreadyOver))
		assert.Equal(t, LevelWarning, LevelOf(ErrUnauthorizedPlayer))
	})

	t.Run("Anything else is an error", func(t *testing.T) {
		assert.Equal(t, LevelError, LevelOf(ErrInternal))
		assert.Equal(t, LevelError, LevelOf(errUnexpected))
	})
}

func TestIsClientError(t *testing.T) {
	t.Run("Wrapped client errors are recognized", func(t *testing.T) {
		assert.True(t, IsClientError(fmt.Errorf("join: %w", ErrRoomFull)))
		assert.True(t, IsClientError(ErrRoomNotFound))
	})

	t.Run("Internal errors are not client errors", func(t *testing.T) {
		assert.False(t, IsClientError(ErrInternal))
		assert.False(t, IsClientError(errUnexpected))
	})
}
