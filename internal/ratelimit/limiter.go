// Package ratelimit enforces the per-IP submission quota backed by Redis.
// The limiter fails open: if Redis is unreachable the request is allowed,
// because losing a lead costs more than an occasional extra submission.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"junkportal_backend/platform/config"
	"junkportal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter per IP and endpoint.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    *logger.Logger
}

// New builds the limiter from configuration. A nil return with nil error
// means Redis is not configured and the quota is disabled.
func New(cfg interface {
	config.RedisConfig
	config.RateLimitConfig
}, log *logger.Logger) (*Limiter, error) {
	if !cfg.IsRedisEnabled() {
		log.Warn("REDIS_URL not configured; submission quota disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &Limiter{
		client: redis.NewClient(opts),
		limit:  cfg.GetSubmitLimitPerWindow(),
		window: cfg.GetSubmitWindow(),
		log:    log,
	}, nil
}

// NewWithClient builds a limiter around an existing client, used in tests.
func NewWithClient(client *redis.Client, limit int, window time.Duration, log *logger.Logger) *Limiter {
	return &Limiter{client: client, limit: limit, window: window, log: log}
}

// Allow reports whether the caller may submit. The first request in a
// window creates the counter with an expiry; subsequent requests increment
// it. Redis errors allow the request.
func (l *Limiter) Allow(ctx context.Context, ip, endpoint string) bool {
	if l == nil || l.client == nil {
		return true
	}

	key := fmt.Sprintf("ratelimit:%s:%s", endpoint, ip)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		if l.log != nil {
			l.log.Warn("rate limit check failed, allowing request", "error", err.Error())
		}
		return true
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil && l.log != nil {
			l.log.Warn("rate limit expiry failed", "error", err.Error())
		}
	}

	allowed := count <= int64(l.limit)
	if !allowed && l.log != nil {
		l.log.RateLimitExceeded(ip, endpoint)
	}
	return allowed
}

// Close releases the Redis connection.
func (l *Limiter) Close() error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Close()
}
