package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard"

// Entry is one leaderboard row.
type Entry struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

type LeaderboardRepository interface {
	RecordScore(ctx context.Context, player string, score int) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

type dbLeaderboard struct {
	client *redis.Client
}

func NewLeaderboardRepository(client *redis.Client) LeaderboardRepository {
	return &dbLeaderboard{
		client: client,
	}
}

// RecordScore stores the player's score, keeping only their best one.
func (that *dbLeaderboard) RecordScore(ctx context.Context, player string, score int) error {
	err := that.client.ZAddGT(ctx, leaderboardKey, redis.Z{
		Score:  float64(score),
		Member: player,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}

	return nil
}

// Top returns up to limit entries, best score first.
func (that *dbLeaderboard) Top(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := that.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		player, ok := row.Member.(string)
		if !ok {
			continue
		}

		entries = append(entries, Entry{
			Player: player,
			Score:  int(row.Score),
		})
	}

	return entries, nil
}
