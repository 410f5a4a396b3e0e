package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-hub/internal/entity"
)

const (
	matchKeyPrefix   = "match:"
	recentMatchesKey = "matches:recent"
)

var ErrMatchNotFound = errors.New("match result not found")

type MatchResultRepository interface {
	RecordMatchResult(ctx context.Context, result entity.MatchResult) error
	GetByRoomCode(ctx context.Context, roomCode string) (*entity.MatchResult, error)
	ListRecent(ctx context.Context, limit int) ([]entity.MatchResult, error)
}

type dbMatchResult struct {
	client      *redis.Client
	ttl         time.Duration
	recentLimit int64
}

// NewMatchResultRepository stores results under "match:<code>" (expiring
// after ttl, 0 keeps them) and keeps the last recentLimit in a list.
func NewMatchResultRepository(client *redis.Client, ttl time.Duration, recentLimit int) MatchResultRepository {
	if recentLimit <= 0 {
		recentLimit = 1
	}

	return &dbMatchResult{
		client:      client,
		ttl:         ttl,
		recentLimit: int64(recentLimit),
	}
}

func (that *dbMatchResult) RecordMatchResult(ctx context.Context, result entity.MatchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal match result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, matchKeyPrefix+result.RoomCode, resultJSON, that.ttl)
		pipe.LPush(ctx, recentMatchesKey, resultJSON)
		pipe.LTrim(ctx, recentMatchesKey, 0, that.recentLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}

	return nil
}

func (that *dbMatchResult) GetByRoomCode(ctx context.Context, roomCode string) (*entity.MatchResult, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+roomCode).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match result: %w", err)
	}

	var result entity.MatchResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
	}

	return &result, nil
}

func (that *dbMatchResult) ListRecent(ctx context.Context, limit int) ([]entity.MatchResult, error) {
	if limit <= 0 || int64(limit) > that.recentLimit {
		limit = int(that.recentLimit)
	}

	responses, err := that.client.LRange(ctx, recentMatchesKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	results := make([]entity.MatchResult, 0, len(responses))
	for _, response := range responses {
		var result entity.MatchResult
		if err = json.Unmarshal([]byte(response), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
		}
		results = append(results, result)
	}

	return results, nil
}
