// Package redislock provides an optional cross-process lock so two writer
// processes targeting the same store never write the same block
// concurrently: SETNX to acquire, a Lua script to release only if owned.
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "contentstore:blocklock:"

// DefaultTTL bounds how long a lock is held if its owner crashes before
// unlocking.
const DefaultTTL = 30 * time.Second

// ErrNotAcquired is returned by Lock when another process already holds the key.
var ErrNotAcquired = fmt.Errorf("redislock: lock not acquired")

// ErrNotOwned is returned by Release when token doesn't match the
// current holder (already expired, or held by someone else).
var ErrNotOwned = fmt.Errorf("redislock: lock not owned")

// Lock is a Redis-backed cross-process mutual-exclusion lock keyed by
// block name.
type Lock struct {
	client *redis.Client
	logger zerolog.Logger
}

// New wraps an existing go-redis client.
func New(client *redis.Client, logger zerolog.Logger) *Lock {
	return &Lock{client: client, logger: logger.With().Str("component", "redislock").Logger()}
}

// Acquire tries to take the lock for key, returning a token that must be
// presented to Release. ttl <= 0 uses DefaultTTL.
func (l *Lock) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	lockKey := keyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redislock: acquire %q: %w", key, err)
	}
	if !ok {
		return "", ErrNotAcquired
	}

	l.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("block lock acquired")
	return token, nil
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// Release gives up the lock for key, iff token still matches the current holder.
func (l *Lock) Release(ctx context.Context, key, token string) error {
	lockKey := keyPrefix + key

	result, err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Int64()
	if err != nil {
		return fmt.Errorf("redislock: release %q: %w", key, err)
	}
	if result == 0 {
		return ErrNotOwned
	}

	l.logger.Debug().Str("key", key).Msg("block lock released")
	return nil
}
