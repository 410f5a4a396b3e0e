package entity

import "time"

// MatchResult is the record persisted when a match finishes.
type MatchResult struct {
	RoomCode   string    `json:"roomCode"`
	Outcome    Outcome   `json:"outcome"`
	Winner     *Player   `json:"winner,omitempty"`
	Player1    *Player   `json:"player1,omitempty"`
	Player2    *Player   `json:"player2,omitempty"`
	Board      [][]Mark  `json:"board"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NewMatchResult builds the record for a finished match. ok is false while
// the match is still being played.
func NewMatchResult(match *Match) (MatchResult, bool) {
	if match.Phase() != PhaseFinished || match.Outcome() == nil {
		return MatchResult{}, false
	}

	snapshot := match.Snapshot()
	result := MatchResult{
		RoomCode:   snapshot.RoomCode,
		Outcome:    *snapshot.Outcome,
		Player1:    snapshot.Player1,
		Player2:    snapshot.Player2,
		Board:      snapshot.Board,
		FinishedAt: match.FinishedAt(),
	}

	if result.Outcome.Kind == OutcomeWin {
		if winner, ok := match.Player(result.Outcome.Seat); ok {
			result.Winner = &winner
		}
	}

	return result, true
}
