package core

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToMaxAttempts(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	limiter := NewRateLimiter(kv, DefaultRateLimitConfig())

	for i := 0; i < 5; i++ {
		decision, err := limiter.Check(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if !decision.Allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if decision.Attempts != int64(i) {
			t.Errorf("attempt %d: Attempts = %d, want %d", i+1, decision.Attempts, i)
		}
		if err := limiter.Record(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	// Requirement: the 6th check within the window is rejected.
	decision, err := limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if decision.Allowed {
		t.Error("6th attempt should be rejected")
	}
	if decision.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", decision.Attempts)
	}
}

func TestRateLimiter_WindowResetsAfterExpiry(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	limiter := NewRateLimiter(kv, DefaultRateLimitConfig())

	for i := 0; i < 5; i++ {
		if err := limiter.Record(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if decision, _ := limiter.Check(ctx, "10.0.0.1"); decision.Allowed {
		t.Fatal("limit should be hit before the window elapses")
	}

	kv.advance(61 * time.Second)

	decision, err := limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed {
		t.Error("attempts should be allowed again after the window elapses")
	}
	if decision.Attempts != 0 {
		t.Errorf("Attempts = %d, want reset to 0", decision.Attempts)
	}
}

// Requirement: the window is anchored at the first attempt, not slid by
// later ones.
func TestRateLimiter_FixedWindowAnchoredAtFirstAttempt(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	limiter := NewRateLimiter(kv, DefaultRateLimitConfig())

	if err := limiter.Record(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	kv.advance(45 * time.Second)
	// a later attempt must not extend the window
	if err := limiter.Record(ctx, "10.0.0.1"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if kv.expireCalls != 1 {
		t.Errorf("Expire called %d times, want once at window start", kv.expireCalls)
	}

	kv.advance(20 * time.Second) // 65s after the first attempt

	decision, err := limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed || decision.Attempts != 0 {
		t.Errorf("decision = %+v, want reset window", decision)
	}
}

func TestRateLimiter_SeparateClientsSeparateCounters(t *testing.T) {
	ctx := context.Background()
	limiter := NewRateLimiter(newFakeKV(), DefaultRateLimitConfig())

	for i := 0; i < 5; i++ {
		if err := limiter.Record(ctx, "10.0.0.1"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	decision, err := limiter.Check(ctx, "10.0.0.2")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed {
		t.Error("a different client must not share the counter")
	}
}

func TestRateLimiter_UnreadableCounterCountsAsZero(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	limiter := NewRateLimiter(kv, DefaultRateLimitConfig())
	kv.put("login_attempts:10.0.0.1", "not-a-number")

	decision, err := limiter.Check(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed || decision.Attempts != 0 {
		t.Errorf("decision = %+v, want allowed with zero attempts", decision)
	}
}

func TestRateLimiter_BackendFailurePropagates(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	limiter := NewRateLimiter(kv, DefaultRateLimitConfig())

	kv.getErr = ErrStoreUnavailable
	if _, err := limiter.Check(ctx, "10.0.0.1"); err == nil {
		t.Error("Check() should propagate backend failures")
	}

	kv.getErr = nil
	kv.incrErr = ErrStoreUnavailable
	if err := limiter.Record(ctx, "10.0.0.1"); err == nil {
		t.Error("Record() should propagate backend failures")
	}
}
