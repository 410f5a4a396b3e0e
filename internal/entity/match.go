package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
)

type Seat int

const (
	SeatNone Seat = iota
	Seat1
	Seat2
)

// Mark returns the mark placed by the seat: Seat1 plays X, Seat2 plays O.
func (s Seat) Mark() Mark {
	switch s {
	case Seat1:
		return MarkX
	case Seat2:
		return MarkO
	default:
		return MarkEmpty
	}
}

func (s Seat) other() Seat {
	if s == Seat1 {
		return Seat2
	}
	return Seat1
}

type Phase string

const (
	PhaseOpen     Phase = "open"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

type OutcomeKind string

const (
	OutcomeWin  OutcomeKind = "win"
	OutcomeDraw OutcomeKind = "draw"
)

type Outcome struct {
	Kind OutcomeKind `json:"kind"`
	Seat Seat        `json:"seat,omitempty"`
	Mark Mark        `json:"mark,omitempty"`
	Line *Line       `json:"line,omitempty"`
}

// LineName is the display name of the winning line, empty for a draw.
func (that *Outcome) LineName() string {
	if that == nil || that.Line == nil {
		return ""
	}
	return that.Line.String()
}

// MoveEffect describes an accepted move.
type MoveEffect struct {
	Seat     Seat     `json:"seat"`
	Mark     Mark     `json:"mark"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	NextTurn Mark     `json:"nextTurn,omitempty"`
	Outcome  *Outcome `json:"outcome,omitempty"`
}

func (that MoveEffect) IsTerminal() bool {
	return that.Outcome != nil
}

// Match is the authoritative state of one room. It is not safe for concurrent
// use; callers serialize access per room.
type Match struct {
	code       string
	board      *Board
	turn       Mark
	phase      Phase
	outcome    *Outcome
	seats      [2]*Player
	finishedAt time.Time
}

// NewMatch opens a match with the creator bound to Seat1.
func NewMatch(code string, creator Player) *Match {
	return &Match{
		code:  code,
		board: NewBoard(BoardSize),
		turn:  Seat1.Mark(),
		phase: PhaseOpen,
		seats: [2]*Player{&creator, nil},
	}
}

func (that *Match) Code() string {
	return that.code
}

func (that *Match) Phase() Phase {
	return that.phase
}

func (that *Match) Turn() Mark {
	return that.turn
}

func (that *Match) Outcome() *Outcome {
	return that.outcome
}

func (that *Match) FinishedAt() time.Time {
	return that.finishedAt
}

func (that *Match) Board() [][]Mark {
	return that.board.Rows()
}

// Player returns the identity bound to seat, if any.
func (that *Match) Player(seat Seat) (Player, bool) {
	if seat != Seat1 && seat != Seat2 {
		return Player{}, false
	}

	player := that.seats[seat-1]
	if player == nil {
		return Player{}, false
	}

	return *player, true
}

// SeatOf returns the seat bound to playerID, or SeatNone.
func (that *Match) SeatOf(playerID string) Seat {
	for i, player := range that.seats {
		if player != nil && player.ID == playerID {
			return Seat(i + 1)
		}
	}

	return SeatNone
}

func (that *Match) BoundSeats() int {
	count := 0
	for _, player := range that.seats {
		if player != nil {
			count++
		}
	}

	return count
}

func (that *Match) IsEmpty() bool {
	return that.BoundSeats() == 0
}

// Join binds Seat2 and starts the match. A room whose creator has left
// cannot be joined.
func (that *Match) Join(player Player) error {
	if that.SeatOf(player.ID) != SeatNone {
		return apperror.ErrAlreadyInRoom
	}

	if that.seats[0] == nil {
		return apperror.ErrRoomNotFound
	}

	if that.phase != PhaseOpen || that.seats[1] != nil {
		return apperror.ErrRoomFull
	}

	that.seats[1] = &player
	that.phase = PhaseActive

	return nil
}

// Vacate unbinds the seat held by playerID. Board and phase are preserved.
func (that *Match) Vacate(playerID string) (Seat, bool) {
	seat := that.SeatOf(playerID)
	if seat == SeatNone {
		return SeatNone, false
	}

	that.seats[seat-1] = nil

	return seat, true
}

// ApplyMove validates and applies a move. On any error the match is unchanged.
func (that *Match) ApplyMove(actorID string, row, col int) (MoveEffect, error) {
	if that.phase == PhaseFinished {
		return MoveEffect{}, apperror.ErrGameAlreadyOver
	}

	if that.phase == PhaseOpen {
		return MoveEffect{}, apperror.ErrAwaitingSecondPlayer
	}

	seat := that.SeatOf(actorID)
	if seat == SeatNone {
		return MoveEffect{}, apperror.ErrUnauthorizedPlayer
	}

	if that.seats[seat.other()-1] == nil {
		return MoveEffect{}, apperror.ErrOpponentLeft
	}

	mark := seat.Mark()
	if that.turn != mark {
		return MoveEffect{}, apperror.ErrNotYourTurn
	}

	if !that.board.InBounds(row, col) {
		return MoveEffect{}, fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidPosition, row, col)
	}

	if that.board.At(row, col) != MarkEmpty {
		return MoveEffect{}, apperror.ErrCellOccupied
	}

	that.board.set(row, col, mark)

	effect := MoveEffect{Seat: seat, Mark: mark, Row: row, Col: col}

	switch line, won := that.board.WinThrough(row, col, mark); {
	case won:
		that.finish(&Outcome{Kind: OutcomeWin, Seat: seat, Mark: mark, Line: &line})
	case that.board.IsFull():
		that.finish(&Outcome{Kind: OutcomeDraw})
	default:
		that.turn = mark.Opponent()
		effect.NextTurn = that.turn
	}

	effect.Outcome = that.outcome

	return effect, nil
}

func (that *Match) finish(outcome *Outcome) {
	that.phase = PhaseFinished
	that.outcome = outcome
	that.finishedAt = time.Now()
}

// MatchSnapshot is a read-only copy of a match, safe to hand to other goroutines.
type MatchSnapshot struct {
	RoomCode    string   `json:"roomCode"`
	Board       [][]Mark `json:"board"`
	CurrentTurn Mark     `json:"currentTurn"`
	Phase       Phase    `json:"phase"`
	Outcome     *Outcome `json:"outcome,omitempty"`
	Player1     *Player  `json:"player1,omitempty"`
	Player2     *Player  `json:"player2,omitempty"`
}

func (that *Match) Snapshot() MatchSnapshot {
	snapshot := MatchSnapshot{
		RoomCode:    that.code,
		Board:       that.board.Rows(),
		CurrentTurn: that.turn,
		Phase:       that.phase,
	}

	if that.outcome != nil {
		outcome := *that.outcome
		snapshot.Outcome = &outcome
	}

	if player, ok := that.Player(Seat1); ok {
		snapshot.Player1 = &player
	}

	if player, ok := that.Player(Seat2); ok {
		snapshot.Player2 = &player
	}

	return snapshot
}
