package usecase

import (
	"context"
	"time"

	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hub/internal/registry"
)

// Disconnect vacates every seat held by connectionID, tells the rest of each
// room, and removes rooms left with nobody seated. Board and phase are kept.
func (that *GameManager) Disconnect(ctx context.Context, connectionID string) (err error) {
	defer that.recoverCommand(ctx, "OnDisconnect", connectionID, &err)

	log := that.logger.With("method", "Disconnect", "connectionID", connectionID)

	that.rooms.Range(func(room *registry.Room) bool {
		code := room.Code()

		removed := that.rooms.Vacate(room, func(match *entity.Match) {
			seat, ok := match.Vacate(connectionID)
			if !ok {
				return
			}

			that.gateway.RemoveFromGroup(connectionID, code)
			that.dispatcher.PlayerLeft(code, connectionID)
			log.Info("seat vacated", "roomCode", code, "seat", seat)
		})

		if removed {
			log.Info("room removed", "roomCode", code)
		}

		return true
	})

	return nil
}

// ReapFinished removes rooms that finished at least ttl before now. Both
// seats are vacated first so a room only leaves the registry once empty.
func (that *GameManager) ReapFinished(ctx context.Context, now time.Time, ttl time.Duration) (reaped int) {
	defer func() {
		if r := recover(); r != nil {
			that.sink.Record(ctx, "ReapFinished", panicError(r))
		}
	}()

	that.rooms.Range(func(room *registry.Room) bool {
		code := room.Code()

		removed := that.rooms.Vacate(room, func(match *entity.Match) {
			if match.Phase() != entity.PhaseFinished || now.Sub(match.FinishedAt()) < ttl {
				return
			}

			for _, seat := range []entity.Seat{entity.Seat1, entity.Seat2} {
				if player, ok := match.Player(seat); ok {
					match.Vacate(player.ID)
					that.gateway.RemoveFromGroup(player.ID, code)
				}
			}
		})

		if removed {
			reaped++
		}

		return true
	})

	if reaped > 0 {
		that.logger.Info("reaped finished rooms", "method", "ReapFinished", "count", reaped)
	}

	return reaped
}

// RunReaper sweeps finished rooms every interval until ctx is done. A
// non-positive ttl or interval disables the sweep.
func (that *GameManager) RunReaper(ctx context.Context, interval, ttl time.Duration) error {
	if ttl <= 0 || interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			that.ReapFinished(ctx, now, ttl)
		}
	}
}
