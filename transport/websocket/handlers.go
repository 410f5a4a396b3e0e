package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hub/internal/usecase"
)

const maxDisplayNameLength = 32

func (that *Server) handleCreateRoom(ctx context.Context, c *client, msg *Message) error {
	var request CreateRoomRequest
	if err := that.decode(c, msg, &request); err != nil {
		return err
	}

	code, err := that.uGame.CreateRoom(ctx, c.id, displayName(request.DisplayName))
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	that.hub.Send(c.id, msg.Action, CreateRoomResponse{RoomCode: code})

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, c *client, msg *Message) error {
	var request JoinRoomRequest
	if err := that.decode(c, msg, &request); err != nil {
		return err
	}

	err := that.uGame.JoinRoom(ctx, c.id, strings.TrimSpace(request.RoomCode), displayName(request.DisplayName))
	that.hub.Send(c.id, msg.Action, JoinRoomResponse{Success: err == nil})

	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

// handleMove has no direct reply; the outcome arrives as room events.
func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) error {
	var request MoveRequest
	if err := that.decode(c, msg, &request); err != nil {
		return err
	}

	if err := that.uGame.MakeMove(ctx, c.id, strings.TrimSpace(request.RoomCode), request.Row, request.Col); err != nil {
		return fmt.Errorf("failed to make move: %w", err)
	}

	return nil
}

func (that *Server) decode(c *client, msg *Message, target any) error {
	if len(msg.Payload) == 0 {
		that.sendWarning(c, "payload is required")
		return fmt.Errorf("empty payload for %s", msg.Action)
	}

	if err := json.Unmarshal(msg.Payload, target); err != nil {
		that.sendWarning(c, "malformed payload")
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}

func (that *Server) sendWarning(c *client, message string) {
	that.hub.Send(c.id, usecase.EventAlert, usecase.AlertPayload{
		Level:   apperror.LevelWarning,
		Message: message,
	})
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > maxDisplayNameLength {
		name = string(runes[:maxDisplayNameLength])
	}

	return name
}
