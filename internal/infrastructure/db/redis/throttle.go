package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxFailures = 10
	defaultWindow      = 15 * time.Minute
)

// SigninThrottle counts failed signin attempts per username in Redis.
// Key format: signin_fail:<username>. The counter expires with the window, so
// a lock always lapses on its own; a successful signin clears it early.
type SigninThrottle struct {
	client      *redis.Client
	maxFailures int64
	window      time.Duration
}

// NewSigninThrottle creates a throttle wrapping the given Redis client.
// Non-positive limits fall back to the defaults.
func NewSigninThrottle(client *redis.Client, maxFailures int, window time.Duration) *SigninThrottle {
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &SigninThrottle{client: client, maxFailures: int64(maxFailures), window: window}
}

// Fail records a failed attempt and returns the count in the current window.
// The window starts at the first failure.
func (t *SigninThrottle) Fail(ctx context.Context, username string) (int64, error) {
	key := t.key(username)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return n, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n, nil
}

// IsLocked reports whether the username has exhausted its failure budget.
func (t *SigninThrottle) IsLocked(ctx context.Context, username string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle get: %w", err)
	}
	return n >= t.maxFailures, nil
}

// Reset clears the failure counter after a successful signin.
func (t *SigninThrottle) Reset(ctx context.Context, username string) error {
	if err := t.client.Del(ctx, t.key(username)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}

func (t *SigninThrottle) key(username string) string {
	return "signin_fail:" + username
}
