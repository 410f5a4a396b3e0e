package websocket

import (
	"encoding/json"
	"fmt"
)

// Inbound actions.
const (
	ActionCreateRoom = "room:create"
	ActionJoinRoom   = "room:join"
	ActionMove       = "game:move"
)

// EventConnected is sent once, right after the upgrade.
const EventConnected = "Connected"

// Message is the envelope for every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

type CreateRoomRequest struct {
	DisplayName string `json:"displayName"`
}

type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
}

type JoinRoomRequest struct {
	RoomCode    string `json:"roomCode"`
	DisplayName string `json:"displayName"`
}

type JoinRoomResponse struct {
	Success bool `json:"success"`
}

type MoveRequest struct {
	RoomCode string `json:"roomCode"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	frame, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return frame, nil
}
