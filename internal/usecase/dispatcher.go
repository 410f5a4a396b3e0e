package usecase

import (
	"errors"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
)

// Dispatcher turns match transitions and rejections into gateway events.
// It holds no state and never inspects the match itself.
type Dispatcher struct {
	gateway Gateway
}

func NewDispatcher(gateway Gateway) *Dispatcher {
	return &Dispatcher{gateway: gateway}
}

func (that *Dispatcher) RoomCreated(connectionID, roomCode, displayName string) {
	that.gateway.Send(connectionID, EventRoomCreated, RoomCreatedPayload{
		RoomCode:    roomCode,
		DisplayName: displayName,
	})
}

func (that *Dispatcher) StartGame(snapshot entity.MatchSnapshot) {
	payload := StartGamePayload{
		RoomCode: snapshot.RoomCode,
		State:    snapshot,
	}

	if snapshot.Player1 != nil {
		payload.Name1 = snapshot.Player1.Name
	}

	if snapshot.Player2 != nil {
		payload.Name2 = snapshot.Player2.Name
	}

	that.gateway.SendGroup(snapshot.RoomCode, EventStartGame, payload)
}

func (that *Dispatcher) Moved(roomCode string, effect entity.MoveEffect) {
	if effect.IsTerminal() {
		that.gateway.SendGroup(roomCode, EventGameOver, GameOverPayload{
			Mark:    effect.Mark,
			Row:     effect.Row,
			Col:     effect.Col,
			Outcome: *effect.Outcome,
			Line:    effect.Outcome.LineName(),
		})

		return
	}

	that.gateway.SendGroup(roomCode, EventReceiveMove, ReceiveMovePayload{
		Mark:     effect.Mark,
		Row:      effect.Row,
		Col:      effect.Col,
		NextTurn: effect.NextTurn,
	})
}

func (that *Dispatcher) PlayerLeft(roomCode, connectionID string) {
	that.gateway.SendGroup(roomCode, EventPlayerLeft, PlayerLeftPayload{ConnectionID: connectionID})
}

// Rejected replies to the caller only.
func (that *Dispatcher) Rejected(connectionID, roomCode string, err error) {
	switch {
	case errors.Is(err, apperror.ErrRoomFull):
		that.gateway.Send(connectionID, EventRoomFull, RoomPayload{RoomCode: roomCode})
	case errors.Is(err, apperror.ErrRoomNotFound):
		that.gateway.Send(connectionID, EventRoomNotFound, RoomPayload{RoomCode: roomCode})
	case apperror.IsClientError(err):
		that.gateway.Send(connectionID, EventAlert, AlertPayload{
			Level:   apperror.LevelOf(err),
			Message: err.Error(),
		})
	default:
		that.Internal(connectionID)
	}
}

func (that *Dispatcher) Internal(connectionID string) {
	that.gateway.Send(connectionID, EventAlert, AlertPayload{
		Level:   apperror.LevelError,
		Message: internalErrorMessage,
	})
}
