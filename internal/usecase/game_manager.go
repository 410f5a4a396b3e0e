package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hub/internal/diagnostics"
	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hub/internal/registry"
)

const defaultRecordTimeout = 5 * time.Second

type MatchRecorder interface {
	RecordMatchResult(ctx context.Context, result entity.MatchResult) error
}

type GameManager struct {
	logger     *slog.Logger
	rooms      *registry.Registry
	gateway    Gateway
	dispatcher *Dispatcher
	recorder   MatchRecorder
	sink       diagnostics.Sink

	recordTimeout time.Duration
	recordings    sync.WaitGroup
}

// NewGameManager wires the room coordinator. recorder may be nil, in which
// case finished matches are not persisted.
func NewGameManager(
	logger *slog.Logger,
	rooms *registry.Registry,
	gateway Gateway,
	recorder MatchRecorder,
	sink diagnostics.Sink,
	recordTimeout time.Duration,
) *GameManager {
	if recordTimeout <= 0 {
		recordTimeout = defaultRecordTimeout
	}

	return &GameManager{
		logger:     logger.With("component", "game_manager"),
		rooms:      rooms,
		gateway:    gateway,
		dispatcher: NewDispatcher(gateway),
		recorder:   recorder,
		sink:       sink,

		recordTimeout: recordTimeout,
	}
}

// CreateRoom opens a room with the caller in Seat1 and enrolls the caller in
// the room's group.
func (that *GameManager) CreateRoom(ctx context.Context, connectionID, displayName string) (code string, err error) {
	defer that.recoverCommand(ctx, "CreateRoom", connectionID, &err)

	log := that.logger.With("method", "CreateRoom", "connectionID", connectionID)

	code, err = that.rooms.CreateRoom(entity.Player{ID: connectionID, Name: displayName}, func(code string) {
		that.gateway.AddToGroup(connectionID, code)
		that.dispatcher.RoomCreated(connectionID, code, displayName)
	})
	if err != nil {
		that.sink.Record(ctx, "CreateRoom", err)
		that.dispatcher.Internal(connectionID)

		return "", fmt.Errorf("failed to create room: %w", err)
	}

	log.Info("room created", "roomCode", code)

	return code, nil
}

// JoinRoom seats the caller in Seat2 and starts the match.
func (that *GameManager) JoinRoom(ctx context.Context, connectionID, roomCode, displayName string) (err error) {
	defer that.recoverCommand(ctx, "JoinRoom", connectionID, &err)

	log := that.logger.With("method", "JoinRoom", "connectionID", connectionID, "roomCode", roomCode)

	joiner := entity.Player{ID: connectionID, Name: displayName}
	err = that.rooms.JoinRoom(roomCode, joiner, func(snapshot entity.MatchSnapshot) {
		that.gateway.AddToGroup(connectionID, roomCode)
		that.dispatcher.StartGame(snapshot)
	})
	if err != nil {
		that.reject(ctx, "JoinRoom", connectionID, roomCode, err)
		log.Debug("join rejected", "error", err)

		return fmt.Errorf("failed to join room: %w", err)
	}

	log.Info("match started")

	return nil
}

// MakeMove applies a move and broadcasts its effect. Rejections are replied
// to the caller only.
func (that *GameManager) MakeMove(ctx context.Context, connectionID, roomCode string, row, col int) (err error) {
	defer that.recoverCommand(ctx, "MakeMove", connectionID, &err)

	log := that.logger.With("method", "MakeMove", "connectionID", connectionID, "roomCode", roomCode)

	room, ok := that.rooms.Lookup(roomCode)
	if !ok {
		that.reject(ctx, "MakeMove", connectionID, roomCode, apperror.ErrRoomNotFound)

		return fmt.Errorf("failed to make move: %w", apperror.ErrRoomNotFound)
	}

	var finished *entity.MatchResult
	err = room.Do(func(match *entity.Match) error {
		effect, moveErr := match.ApplyMove(connectionID, row, col)
		if moveErr != nil {
			return moveErr
		}

		that.dispatcher.Moved(roomCode, effect)

		if result, done := entity.NewMatchResult(match); done {
			finished = &result
		}

		return nil
	})
	if err != nil {
		that.reject(ctx, "MakeMove", connectionID, roomCode, err)
		log.Debug("move rejected", "row", row, "col", col, "error", err)

		return fmt.Errorf("failed to make move: %w", err)
	}

	if finished != nil {
		log.Info("match finished", "outcome", finished.Outcome.Kind)
		that.recordMatch(ctx, *finished)
	}

	return nil
}

// WaitRecordings blocks until every in-flight match recording has returned.
func (that *GameManager) WaitRecordings() {
	that.recordings.Wait()
}

func (that *GameManager) recordMatch(ctx context.Context, result entity.MatchResult) {
	if that.recorder == nil {
		return
	}

	log := that.logger.With("method", "recordMatch", "roomCode", result.RoomCode)

	that.recordings.Add(1)
	go func() {
		defer that.recordings.Done()

		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.recordTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				that.sink.Record(recordCtx, "RecordMatchResult", panicError(r))
			}
		}()

		if err := that.recorder.RecordMatchResult(recordCtx, result); err != nil {
			log.Error("failed to record match result", "error", err)
			that.sink.Record(recordCtx, "RecordMatchResult", err)
		}
	}()
}

func (that *GameManager) reject(ctx context.Context, op, connectionID, roomCode string, err error) {
	if !apperror.IsClientError(err) {
		that.sink.Record(ctx, op, err)
	}

	that.dispatcher.Rejected(connectionID, roomCode, err)
}

// recoverCommand turns a panic inside a command into a diagnostic record and
// a generic alert for the caller.
func (that *GameManager) recoverCommand(ctx context.Context, op, connectionID string, errp *error) {
	r := recover()
	if r == nil {
		return
	}

	err := panicError(r)
	that.sink.Record(ctx, op, err)
	that.dispatcher.Internal(connectionID)

	*errp = fmt.Errorf("%w: %w", apperror.ErrInternal, err)
}

func panicError(r any) error {
	return fmt.Errorf("panic: %v", r)
}
