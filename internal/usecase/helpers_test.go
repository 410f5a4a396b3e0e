package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hub/internal/registry"
)

type sentEvent struct {
	To      string
	Group   bool
	Event   string
	Payload any
}

// fakeGateway records every send and delivers group sends to the current
// members of the group.
type fakeGateway struct {
	mu     sync.Mutex
	events []sentEvent
	groups map[string]map[string]struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{groups: make(map[string]map[string]struct{})}
}

func (that *fakeGateway) Send(connectionID, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, sentEvent{To: connectionID, Event: event, Payload: payload})
}

func (that *fakeGateway) SendGroup(roomCode, event string, payload any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = append(that.events, sentEvent{To: roomCode, Group: true, Event: event, Payload: payload})
}

func (that *fakeGateway) AddToGroup(connectionID, roomCode string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.groups[roomCode] == nil {
		that.groups[roomCode] = make(map[string]struct{})
	}
	that.groups[roomCode][connectionID] = struct{}{}
}

func (that *fakeGateway) RemoveFromGroup(connectionID, roomCode string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.groups[roomCode], connectionID)
}

func (that *fakeGateway) members(roomCode string) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	members := make([]string, 0, len(that.groups[roomCode]))
	for id := range that.groups[roomCode] {
		members = append(members, id)
	}

	return members
}

func (that *fakeGateway) sent() []sentEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]sentEvent(nil), that.events...)
}

func (that *fakeGateway) last() sentEvent {
	events := that.sent()
	if len(events) == 0 {
		return sentEvent{}
	}

	return events[len(events)-1]
}

func (that *fakeGateway) reset() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.events = nil
}

func (that *fakeGateway) named(event string) []sentEvent {
	var out []sentEvent
	for _, e := range that.sent() {
		if e.Event == event {
			out = append(out, e)
		}
	}

	return out
}

type mockRecorder struct {
	mock.Mock
}

func (that *mockRecorder) RecordMatchResult(ctx context.Context, result entity.MatchResult) error {
	args := that.Called(ctx, result)
	return args.Error(0)
}

type mockSink struct {
	mock.Mock
}

func (that *mockSink) Record(ctx context.Context, op string, err error) {
	that.Called(ctx, op, err)
}

type fixture struct {
	manager  *GameManager
	gateway  *fakeGateway
	rooms    *registry.Registry
	recorder *mockRecorder
	sink     *mockSink
}

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()

	var mu sync.Mutex
	next := 0
	generate := func() string {
		mu.Lock()
		defer mu.Unlock()

		if next < len(codes) {
			next++
			return codes[next-1]
		}
		next++
		return "room" + strings.Repeat("x", next)
	}

	gateway := newFakeGateway()
	rooms := registry.New(generate)
	recorder := &mockRecorder{}
	sink := &mockSink{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return &fixture{
		manager:  NewGameManager(logger, rooms, gateway, recorder, sink, 0),
		gateway:  gateway,
		rooms:    rooms,
		recorder: recorder,
		sink:     sink,
	}
}
