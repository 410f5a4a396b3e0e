package usecase

import (
	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
)

// Outbound event names.
const (
	EventRoomCreated  = "RoomCreated"
	EventStartGame    = "StartGame"
	EventReceiveMove  = "ReceiveMove"
	EventGameOver     = "GameOver"
	EventPlayerLeft   = "PlayerLeft"
	EventRoomFull     = "RoomFull"
	EventRoomNotFound = "RoomNotFound"
	EventAlert        = "Alert"
)

const internalErrorMessage = "An unexpected error occurred."

// Gateway delivers named events to connections and room groups. Sends must
// not block.
type Gateway interface {
	Send(connectionID, event string, payload any)
	SendGroup(roomCode, event string, payload any)
	AddToGroup(connectionID, roomCode string)
	RemoveFromGroup(connectionID, roomCode string)
}

type RoomCreatedPayload struct {
	RoomCode    string `json:"roomCode"`
	DisplayName string `json:"displayName"`
}

type StartGamePayload struct {
	RoomCode string               `json:"roomCode"`
	Name1    string               `json:"name1"`
	Name2    string               `json:"name2"`
	State    entity.MatchSnapshot `json:"state"`
}

type ReceiveMovePayload struct {
	Mark     entity.Mark `json:"mark"`
	Row      int         `json:"row"`
	Col      int         `json:"col"`
	NextTurn entity.Mark `json:"nextTurn"`
}

type GameOverPayload struct {
	Mark    entity.Mark    `json:"mark"`
	Row     int            `json:"row"`
	Col     int            `json:"col"`
	Outcome entity.Outcome `json:"outcome"`
	Line    string         `json:"line,omitempty"`
}

type PlayerLeftPayload struct {
	ConnectionID string `json:"connectionId"`
}

type RoomPayload struct {
	RoomCode string `json:"roomCode"`
}

type AlertPayload struct {
	Level   apperror.Level `json:"level"`
	Message string         `json:"message"`
}
