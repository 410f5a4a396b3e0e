package apperror

import "errors"

// Client errors: expected, reported to the caller only, never mutate state.
var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoomFull             = errors.New("room is full")
	ErrAlreadyInRoom        = errors.New("player is already seated in this room")
	ErrGameAlreadyOver      = errors.New("game is already over")
	ErrAwaitingSecondPlayer = errors.New("waiting for the second player")
	ErrUnauthorizedPlayer   = errors.New("player is not seated in this room")
	ErrOpponentLeft         = errors.New("opponent has left, the match cannot continue")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrInvalidPosition      = errors.New("invalid position")
	ErrCellOccupied         = errors.New("cell is already occupied")
)

// ErrInternal is the only error surfaced to a caller for unexpected failures.
var ErrInternal = errors.New("an unexpected error occurred")

type Level string

const (
	LevelInfo    Level = "Info"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// LevelOf classifies err for the Alert event. Unknown errors are LevelError.
func LevelOf(err error) Level {
	switch {
	case errors.Is(err, ErrAwaitingSecondPlayer),
		errors.Is(err, ErrNotYourTurn),
		errors.Is(err, ErrOpponentLeft):
		return LevelInfo
	case errors.Is(err, ErrGameAlreadyOver),
		errors.Is(err, ErrInvalidPosition),
		errors.Is(err, ErrCellOccupied),
		errors.Is(err, ErrAlreadyInRoom),
		errors.Is(err, ErrUnauthorizedPlayer):
		return LevelWarning
	default:
		return LevelError
	}
}

// IsClientError reports whether err is one of the expected rejection reasons.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrRoomNotFound, ErrRoomFull, ErrAlreadyInRoom, ErrGameAlreadyOver,
		ErrAwaitingSecondPlayer, ErrUnauthorizedPlayer, ErrOpponentLeft,
		ErrNotYourTurn, ErrInvalidPosition, ErrCellOccupied,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
