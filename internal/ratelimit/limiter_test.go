package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testLimiter(t *testing.T, limit int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewWithClient(client, limit, window, nil), srv
}

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	limiter, _ := testLimiter(t, 3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ctx, "1.2.3.4", "submit") {
			t.Fatalf("request %d unexpectedly blocked", i+1)
		}
	}
	if limiter.Allow(ctx, "1.2.3.4", "submit") {
		t.Fatal("fourth request should be blocked")
	}
}

func TestLimiter_SeparateKeysPerIPAndEndpoint(t *testing.T) {
	limiter, _ := testLimiter(t, 1, time.Hour)
	ctx := context.Background()

	if !limiter.Allow(ctx, "1.2.3.4", "submit") {
		t.Fatal("first IP blocked")
	}
	if !limiter.Allow(ctx, "5.6.7.8", "submit") {
		t.Fatal("second IP should have its own window")
	}
	if !limiter.Allow(ctx, "1.2.3.4", "recalculate") {
		t.Fatal("second endpoint should have its own window")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	limiter, srv := testLimiter(t, 1, time.Hour)
	ctx := context.Background()

	if !limiter.Allow(ctx, "1.2.3.4", "submit") {
		t.Fatal("first request blocked")
	}
	if limiter.Allow(ctx, "1.2.3.4", "submit") {
		t.Fatal("second request should be blocked")
	}

	srv.FastForward(time.Hour + time.Minute)

	if !limiter.Allow(ctx, "1.2.3.4", "submit") {
		t.Fatal("request after window expiry should be allowed")
	}
}

func TestLimiter_FailsOpenOnRedisError(t *testing.T) {
	limiter, srv := testLimiter(t, 1, time.Hour)
	srv.Close()

	if !limiter.Allow(context.Background(), "1.2.3.4", "submit") {
		t.Fatal("expected fail-open when redis is down")
	}
}

func TestLimiter_NilLimiterAlwaysAllows(t *testing.T) {
	var limiter *Limiter
	if !limiter.Allow(context.Background(), "1.2.3.4", "submit") {
		t.Fatal("nil limiter should allow everything")
	}
}
