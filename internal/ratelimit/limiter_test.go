package ratelimit

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLimiterFailsOpenWithoutRedis(t *testing.T) {
	limiter := NewLimiter(nil, 2, time.Minute, zap.NewNop())

	for i := 0; i < 10; i++ {
		if !limiter.Allow(context.Background(), "forgot-password:203.0.113.9") {
			t.Fatal("limiter without a backend must allow")
		}
	}
}

func TestLimiterDefaults(t *testing.T) {
	limiter := NewLimiter(nil, 0, 0, zap.NewNop())
	if limiter.limit != 5 {
		t.Errorf("default limit %d, want 5", limiter.limit)
	}
	if limiter.window != 15*time.Minute {
		t.Errorf("default window %v, want 15m", limiter.window)
	}
}
