package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-hub/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
)

const defaultCodeAttempts = 32

var ErrCodeSpaceExhausted = errors.New("could not generate a unique room code")

// Room owns one match. All access to the match goes through Do.
type Room struct {
	code   string
	mu     sync.Mutex
	match  *entity.Match
	closed bool
}

func (that *Room) Code() string {
	return that.code
}

// Do runs fn with exclusive access to the room's match. A room that has
// already been removed from the registry reports ErrRoomNotFound.
func (that *Room) Do(fn func(match *entity.Match) error) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrRoomNotFound
	}

	return fn(that.match)
}

// Registry maps room codes to rooms. Operations on different rooms never
// contend on a shared lock.
type Registry struct {
	rooms        sync.Map
	generateCode func() string
	attempts     int
}

func New(generateCode func() string) *Registry {
	return &Registry{
		generateCode: generateCode,
		attempts:     defaultCodeAttempts,
	}
}

// CreateRoom inserts a new open room with the creator in Seat1. The code is
// unique among live rooms. onCreated runs under the room lock before any
// other operation can reach the room.
func (that *Registry) CreateRoom(creator entity.Player, onCreated func(code string)) (string, error) {
	for range that.attempts {
		code := that.generateCode()
		room := &Room{code: code, match: entity.NewMatch(code, creator)}

		if that.insert(room, onCreated) {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, that.attempts)
}

func (that *Registry) insert(room *Room, onCreated func(code string)) bool {
	room.mu.Lock()
	defer room.mu.Unlock()

	if _, loaded := that.rooms.LoadOrStore(room.code, room); loaded {
		return false
	}

	if onCreated != nil {
		onCreated(room.code)
	}

	return true
}

// JoinRoom binds Seat2 and activates the match in one step under the room
// lock. onJoined runs under the same lock, after the change is committed.
func (that *Registry) JoinRoom(code string, joiner entity.Player, onJoined func(entity.MatchSnapshot)) error {
	room, ok := that.Lookup(code)
	if !ok {
		return apperror.ErrRoomNotFound
	}

	return room.Do(func(match *entity.Match) error {
		if err := match.Join(joiner); err != nil {
			return err
		}

		if onJoined != nil {
			onJoined(match.Snapshot())
		}

		return nil
	})
}

func (that *Registry) Lookup(code string) (*Room, bool) {
	value, ok := that.rooms.Load(code)
	if !ok {
		return nil, false
	}

	return value.(*Room), true //nolint: forcetypeassert // only *Room is stored
}

// Vacate runs fn under the room lock and, in the same critical section,
// removes the room when fn leaves both seats unbound. No join can slip in
// between the two steps.
func (that *Registry) Vacate(room *Room, fn func(match *entity.Match)) (removed bool) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return false
	}

	fn(room.match)

	return that.removeLocked(room)
}

// RemoveIfEmpty deletes the room when both seats are unbound. Safe to call
// more than once.
func (that *Registry) RemoveIfEmpty(code string) bool {
	room, ok := that.Lookup(code)
	if !ok {
		return false
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return false
	}

	return that.removeLocked(room)
}

// removeLocked expects room.mu to be held.
func (that *Registry) removeLocked(room *Room) bool {
	if !room.match.IsEmpty() {
		return false
	}

	room.closed = true

	return that.rooms.CompareAndDelete(room.code, room)
}

// Range calls fn for every live room until fn returns false.
func (that *Registry) Range(fn func(room *Room) bool) {
	that.rooms.Range(func(_, value any) bool {
		return fn(value.(*Room)) //nolint: forcetypeassert // only *Room is stored
	})
}

// Snapshot returns a copy of the room's match state.
func (that *Registry) Snapshot(code string) (entity.MatchSnapshot, error) {
	room, ok := that.Lookup(code)
	if !ok {
		return entity.MatchSnapshot{}, apperror.ErrRoomNotFound
	}

	var snapshot entity.MatchSnapshot
	err := room.Do(func(match *entity.Match) error {
		snapshot = match.Snapshot()
		return nil
	})

	return snapshot, err
}

// CountByPhase reports the number of live rooms in each phase.
func (that *Registry) CountByPhase() map[entity.Phase]int {
	counts := make(map[entity.Phase]int)

	that.Range(func(room *Room) bool {
		_ = room.Do(func(match *entity.Match) error {
			counts[match.Phase()]++
			return nil
		})
		return true
	})

	return counts
}
