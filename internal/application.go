package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-hub/internal/config"
	"github.com/rocketscienceinc/tictactoe-hub/internal/diagnostics"
	"github.com/rocketscienceinc/tictactoe-hub/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-hub/internal/registry"
	"github.com/rocketscienceinc/tictactoe-hub/internal/repository"
	"github.com/rocketscienceinc/tictactoe-hub/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-hub/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-hub/transport/rest"
	"github.com/rocketscienceinc/tictactoe-hub/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application until SIGINT/SIGTERM or a server fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, storage.RedisOptions{
		Addr:     conf.Redis.GetRedisAddr(),
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if closeErr := redisStorage.Close(); closeErr != nil {
			log.Error("could not close redis storage", "error", closeErr)
		}
	}()

	matchRepo := repository.NewMatchResultRepository(
		redisStorage.Connection,
		conf.MatchHistory.TTL,
		conf.MatchHistory.RecentLimit,
	)

	fileSink := diagnostics.NewFileSink(conf.Diagnostics.Dir, conf.Diagnostics.Queue)
	defer fileSink.Close() //nolint: errcheck // Close only drains the queue

	sink := diagnostics.Multi{diagnostics.NewLogSink(logger), fileSink}

	rooms := registry.New(pkg.RoomCodeGenerator(conf.Rooms.CodeLength))
	hub := websocket.NewHub(logger, conf.WebSocket.SendBuffer)
	gameManager := usecase.NewGameManager(logger, rooms, hub, matchRepo, sink, conf.MatchHistory.RecordTimeout)

	wsServer := websocket.New(logger, hub, gameManager, websocket.Settings{
		ReadLimit:      conf.WebSocket.ReadLimit,
		PingPeriod:     conf.WebSocket.PingPeriod,
		PongWait:       conf.WebSocket.PongWait,
		WriteWait:      conf.WebSocket.WriteWait,
		AllowedOrigins: conf.CORS.AllowedOrigins,
	})
	restServer := rest.New(logger, rooms, matchRepo, hub, conf.CORS.AllowedOrigins)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	group.Go(func() error {
		return gameManager.RunReaper(groupCtx, conf.Rooms.SweepInterval, conf.Rooms.FinishedTTL)
	})

	err = group.Wait()
	gameManager.WaitRecordings()

	if err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
