package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-hub/internal/pkg"
)

type uGame interface {
	CreateRoom(ctx context.Context, connectionID, displayName string) (string, error)
	JoinRoom(ctx context.Context, connectionID, roomCode, displayName string) error
	MakeMove(ctx context.Context, connectionID, roomCode string, row, col int) error
	Disconnect(ctx context.Context, connectionID string) error
}

type Settings struct {
	ReadLimit      int64
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	AllowedOrigins []string
}

func (that Settings) withDefaults() Settings {
	if that.ReadLimit <= 0 {
		that.ReadLimit = 4096
	}
	if that.PongWait <= 0 {
		that.PongWait = 60 * time.Second
	}
	if that.PingPeriod <= 0 || that.PingPeriod >= that.PongWait {
		that.PingPeriod = that.PongWait * 9 / 10
	}
	if that.WriteWait <= 0 {
		that.WriteWait = 10 * time.Second
	}

	return that
}

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	uGame    uGame
	settings Settings
	upgrader ws.Upgrader

	handlers map[string]func(ctx context.Context, c *client, message *Message) error
}

func New(logger *slog.Logger, hub *Hub, uGame uGame, settings Settings) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket_server"),
		hub:      hub,
		uGame:    uGame,
		settings: settings.withDefaults(),

		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionMove] = server.handleMove

	return server
}

// Handler serves the upgrade endpoint at /ws. Commands run under ctx.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWS(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down websocket server", "error", err)
		}
		that.hub.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(that.settings.AllowedOrigins) == 0 {
		return true
	}

	return slices.Contains(that.settings.AllowedOrigins, "*") ||
		slices.Contains(that.settings.AllowedOrigins, origin)
}

func (that *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := that.hub.newClient(pkg.GenerateConnectionID(), conn)
	that.hub.register(c)
	that.hub.Send(c.id, EventConnected, ConnectedPayload{ConnectionID: c.id})

	log.Info("WebSocket connection established", "connectionID", c.id)

	go that.writePump(c)
	go that.readPump(ctx, c)
}

// readPump processes inbound frames until the connection fails, then hands
// the connection id to the disconnect flow.
func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump", "connectionID", c.id)

	defer func() {
		that.hub.unregister(c)
		_ = c.conn.Close()

		if err := that.uGame.Disconnect(ctx, c.id); err != nil {
			log.Error("failed to handle disconnect", "error", err)
		}

		log.Info("WebSocket connection closed")
	}()

	c.conn.SetReadLimit(that.settings.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(that.settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(that.settings.PongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				log.Warn("unexpected close", "error", err)
			}
			return
		}

		if messageType != ws.TextMessage {
			continue
		}

		that.handleMessage(ctx, c, data)
	}
}

func (that *Server) handleMessage(ctx context.Context, c *client, data []byte) {
	log := that.logger.With("method", "handleMessage", "connectionID", c.id)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		that.sendWarning(c, "malformed message")
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		that.sendWarning(c, "unknown action: "+message.Action)
		return
	}

	if err := handler(ctx, c, &message); err != nil {
		log.Debug("command failed", "action", message.Action, "error", err)
	}
}

func (that *Server) writePump(c *client) {
	ticker := time.NewTicker(that.settings.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(that.settings.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(ws.CloseMessage, ws.FormatCloseMessage(ws.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(ws.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(that.settings.WriteWait))
			if err := c.conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
