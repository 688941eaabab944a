package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const attemptKeyPrefix = "login_attempts:"

// RateLimitConfig bounds authentication attempts per client address
// within a fixed window anchored at the first attempt.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
}

// DefaultRateLimitConfig returns the 5-attempts-per-60-seconds policy.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{MaxAttempts: 5, Window: 60 * time.Second}
}

// Decision is the result of a rate-limit check.
type Decision struct {
	Allowed  bool
	Attempts int64
}

// RateLimiter tracks attempt counters in the key-value backend under
// login_attempts:<clientKey>. The window is fixed-size, not sliding:
// the counter expires a fixed interval after its first increment,
// regardless of later attempts.
type RateLimiter struct {
	kv     KeyValue
	config RateLimitConfig
}

func NewRateLimiter(kv KeyValue, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{kv: kv, config: config}
}

// Check reports whether the client may make another attempt. It must
// run before any credential verification work so the limiter covers
// valid- and invalid-credential brute forcing alike.
func (r *RateLimiter) Check(ctx context.Context, clientKey string) (Decision, error) {
	raw, err := r.kv.Get(ctx, attemptKeyPrefix+clientKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return Decision{Allowed: true}, nil
		}
		return Decision{}, fmt.Errorf("failed to read attempt counter: %w", err)
	}

	attempts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// unreadable counter counts as zero
		attempts = 0
	}

	return Decision{
		Allowed:  attempts < int64(r.config.MaxAttempts),
		Attempts: attempts,
	}, nil
}

// Record increments the counter for clientKey. The expiration is set
// only when the increment created the counter, anchoring the window to
// the first attempt.
func (r *RateLimiter) Record(ctx context.Context, clientKey string) error {
	key := attemptKeyPrefix + clientKey
	attempts, err := r.kv.Incr(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to increment attempt counter: %w", err)
	}
	if attempts == 1 {
		if err := r.kv.Expire(ctx, key, r.config.Window); err != nil {
			return fmt.Errorf("failed to arm attempt window: %w", err)
		}
	}
	return nil
}
