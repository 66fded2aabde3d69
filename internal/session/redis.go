package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "ponto:last_punch:"

// RedisTracker shares punch times between processes through redis. Keys
// expire after ttl, which only needs to outlive the punch cooldown.
type RedisTracker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTracker wraps an existing client.
func NewRedisTracker(client *redis.Client, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, ttl: ttl}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *RedisTracker) LastPunch(ctx context.Context, sessionID string) (time.Time, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis get last punch: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid last punch %q: %w", raw, err)
	}
	return t, true, nil
}

func (r *RedisTracker) RecordPunch(ctx context.Context, sessionID string, at time.Time) error {
	if err := r.client.Set(ctx, keyPrefix+sessionID, at.Format(time.RFC3339Nano), r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set last punch: %w", err)
	}
	return nil
}
