package websocket

import (
	"log/slog"
	"sync"

	ws "github.com/gorilla/websocket"
)

const defaultSendBuffer = 64

type client struct {
	id        string
	conn      *ws.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (that *client) closeSend() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// Hub tracks live connections and room groups and delivers events to them.
// Every send is non-blocking: a full buffer drops the frame.
type Hub struct {
	logger     *slog.Logger
	sendBuffer int

	mu      sync.RWMutex
	clients map[string]*client
	groups  map[string]map[string]struct{}
}

func NewHub(logger *slog.Logger, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	return &Hub{
		logger:     logger.With("component", "websocket_hub"),
		sendBuffer: sendBuffer,
		clients:    make(map[string]*client),
		groups:     make(map[string]map[string]struct{}),
	}
}

func (that *Hub) newClient(id string, conn *ws.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, that.sendBuffer),
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c.id] = c
}

// unregister drops the client from every group and closes its send channel.
func (that *Hub) unregister(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.clients[c.id]; !ok || current != c {
		return
	}

	delete(that.clients, c.id)

	for code, members := range that.groups {
		delete(members, c.id)
		if len(members) == 0 {
			delete(that.groups, code)
		}
	}

	c.closeSend()
}

func (that *Hub) Send(connectionID, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	if c, ok := that.clients[connectionID]; ok {
		that.enqueue(c, event, frame)
	}
}

func (that *Hub) SendGroup(roomCode, event string, payload any) {
	frame, err := encode(event, payload)
	if err != nil {
		that.logger.Error("failed to encode event", "event", event, "roomCode", roomCode, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for id := range that.groups[roomCode] {
		if c, ok := that.clients[id]; ok {
			that.enqueue(c, event, frame)
		}
	}
}

// enqueue must be called with mu held so the channel cannot be closed
// underneath it.
func (that *Hub) enqueue(c *client, event string, frame []byte) {
	select {
	case c.send <- frame:
	default:
		that.logger.Warn("send buffer full, dropping event", "connectionID", c.id, "event", event)
	}
}

func (that *Hub) AddToGroup(connectionID, roomCode string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.clients[connectionID]; !ok {
		return
	}

	if that.groups[roomCode] == nil {
		that.groups[roomCode] = make(map[string]struct{})
	}
	that.groups[roomCode][connectionID] = struct{}{}
}

func (that *Hub) RemoveFromGroup(connectionID, roomCode string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.groups[roomCode]
	if !ok {
		return
	}

	delete(members, connectionID)
	if len(members) == 0 {
		delete(that.groups, roomCode)
	}
}

func (that *Hub) ConnectionCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.clients)
}

func (that *Hub) GroupSize(roomCode string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.groups[roomCode])
}

// Close closes every connection. Read pumps then unregister their clients.
func (that *Hub) Close() {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, c := range that.clients {
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}
