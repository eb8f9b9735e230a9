package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter counts one-time-code verification attempts per key.
// The first increment starts the window; the key expires when it ends.
type AttemptCounter struct {
	client *redis.Client
}

// NewAttemptCounter creates an AttemptCounter wrapping the given Redis client.
func NewAttemptCounter(client *redis.Client) *AttemptCounter {
	return &AttemptCounter{client: client}
}

// Increment bumps the counter stored under key and returns its new value.
func (a *AttemptCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := a.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("attempt counter: %w", err)
	}
	return incr.Val(), nil
}

// Reset forgets all attempts recorded under key.
func (a *AttemptCounter) Reset(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("attempt counter reset: %w", err)
	}
	return nil
}
