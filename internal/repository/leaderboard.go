// Package repository provides the key-value store adapter for the
// leaderboard service, backed by Valkey/Redis sorted sets and hashes.
package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/atinyakov/leaderboard/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisLeaderboardRepository implements sorted-set and hash primitives on
// top of a Valkey/Redis client. Every method maps to a single command, so
// atomicity is per call only.
type RedisLeaderboardRepository struct {
	// Client is the store handle; it is safe for concurrent use.
	Client redis.UniversalClient
}

// NewRedisLeaderboardRepository creates a repository using the given client.
func NewRedisLeaderboardRepository(client redis.UniversalClient) *RedisLeaderboardRepository {
	return &RedisLeaderboardRepository{Client: client}
}

// UpsertScore sets member's score in the sorted set at key, replacing any
// previous score for that member.
func (r *RedisLeaderboardRepository) UpsertScore(ctx context.Context, key, member string, score int64) error {
	err := r.Client.ZAdd(ctx, key, redis.Z{Score: float64(score), Member: member}).Err()
	if err != nil {
		return fmt.Errorf("UpsertScore failed: %w", err)
	}
	return nil
}

// TopScores returns up to limit members of the sorted set at key, highest
// score first.
//
//	ctx:   context for cancellation and deadlines
//	key:   sorted set key
//	limit: maximum number of members to return
//
// A missing key yields an empty slice.
func (r *RedisLeaderboardRepository) TopScores(ctx context.Context, key string, limit int) ([]models.ScoreMember, error) {
	if limit <= 0 {
		return []models.ScoreMember{}, nil
	}
	zs, err := r.Client.ZRevRangeWithScores(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("TopScores failed: %w", err)
	}

	members := make([]models.ScoreMember, 0, len(zs))
	for _, z := range zs {
		name, ok := z.Member.(string)
		if !ok {
			name = fmt.Sprint(z.Member)
		}
		members = append(members, models.ScoreMember{
			Name:  name,
			Score: scoreToInt64(z.Score),
		})
	}
	return members, nil
}

// SetField stores value under field in the hash at key.
func (r *RedisLeaderboardRepository) SetField(ctx context.Context, key, field, value string) error {
	if err := r.Client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("SetField failed: %w", err)
	}
	return nil
}

// GetField reads a single field of the hash at key. The boolean is false
// when the field (or the whole hash) does not exist.
func (r *RedisLeaderboardRepository) GetField(ctx context.Context, key, field string) (string, bool, error) {
	val, err := r.Client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("GetField failed: %w", err)
	}
	return val, true, nil
}

// GetAllFields returns every field/value pair of the hash at key.
func (r *RedisLeaderboardRepository) GetAllFields(ctx context.Context, key string) (map[string]string, error) {
	fields, err := r.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("GetAllFields failed: %w", err)
	}
	return fields, nil
}

// Delete removes key, whatever its type. Deleting a missing key is not an error.
func (r *RedisLeaderboardRepository) Delete(ctx context.Context, key string) error {
	if err := r.Client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("Delete failed: %w", err)
	}
	return nil
}

// scoreToInt64 converts a sorted set score, saturating at the int64 range.
func scoreToInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Trunc(f))
}
