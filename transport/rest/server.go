package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
)

type roomReader interface {
	Snapshot(code string) (entity.MatchSnapshot, error)
	CountByPhase() map[entity.Phase]int
}

type matchHistory interface {
	ListRecent(ctx context.Context, limit int) ([]entity.MatchResult, error)
}

type connectionCounter interface {
	ConnectionCount() int
}

type Server struct {
	logger      *slog.Logger
	rooms       roomReader
	history     matchHistory
	connections connectionCounter
	origins     []string
}

// New builds the HTTP API. history and connections may be nil.
func New(logger *slog.Logger, rooms roomReader, history matchHistory, connections connectionCounter, origins []string) *Server {
	return &Server{
		logger:      logger.With("component", "rest"),
		rooms:       rooms,
		history:     history,
		connections: connections,
		origins:     origins,
	}
}

func (that *Server) Router() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms/{roomCode}", that.getRoom).Methods(http.MethodGet)
	api.HandleFunc("/matches/recent", that.listRecentMatches).Methods(http.MethodGet)
	api.HandleFunc("/stats", that.getStats).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(that.origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(that.logger.Handler(), slog.LevelError)),
	)

	return recovery(cors(router))
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down http server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
