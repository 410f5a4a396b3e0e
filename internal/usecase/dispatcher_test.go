package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
)

func TestDispatcher_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		event   string
		payload any
	}{
		{
			name:    "room full",
			err:     apperror.ErrRoomFull,
			event:   EventRoomFull,
			payload: RoomPayload{RoomCode: "abc123"},
		},
		{
			name:    "wrapped room not found",
			err:     fmt.Errorf("failed to join room: %w", apperror.ErrRoomNotFound),
			event:   EventRoomNotFound,
			payload: RoomPayload{RoomCode: "abc123"},
		},
		{
			name:    "cell occupied",
			err:     apperror.ErrCellOccupied,
			event:   EventAlert,
			payload: AlertPayload{Level: apperror.LevelWarning, Message: "cell is already occupied"},
		},
		{
			name:    "unexpected failure",
			err:     errors.New("disk on fire"),
			event:   EventAlert,
			payload: AlertPayload{Level: apperror.LevelError, Message: "An unexpected error occurred."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := newFakeGateway()

			NewDispatcher(gateway).Rejected("alice", "abc123", tt.err)

			assert.Equal(t, []sentEvent{{To: "alice", Event: tt.event, Payload: tt.payload}}, gateway.sent())
		})
	}
}
