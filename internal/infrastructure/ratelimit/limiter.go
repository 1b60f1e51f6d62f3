package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether a request identified by key may proceed.
// Keys are typically client IPs; the public verification endpoint
// uses this to slow down ID enumeration attempts.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter implements a fixed-window counter in Redis, shared
// across all server instances.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// NewRedisLimiter creates a limiter backed by an existing Redis client.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: "ratelimit:",
		limit:     limit,
		window:    window,
	}
}

// Allow increments the counter for key's current window and compares
// it against the limit. The window expires on its own, so idle keys
// cost nothing.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.keyPrefix + key

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	used := int(count.Val())
	remaining := l.limit - used
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		Allowed:   used <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
	}
	if !d.Allowed {
		d.RetryAfter = ttl.Val()
	}
	return d, nil
}

var _ Limiter = (*RedisLimiter)(nil)

// InMemoryLimiter implements a fixed-window counter in process memory.
// Suitable for single-instance deployments and tests; counters are
// not shared across instances.
type InMemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count   int
	startAt time.Time
}

// NewInMemoryLimiter creates a process-local limiter.
func NewInMemoryLimiter(limit int, period time.Duration) *InMemoryLimiter {
	return &InMemoryLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow checks and records one request for key.
func (l *InMemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.startAt) >= l.period {
		w = &window{startAt: now}
		l.windows[key] = w
		l.evictStale(now)
	}
	w.count++

	remaining := l.limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		Allowed:   w.count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
	}
	if !d.Allowed {
		d.RetryAfter = w.startAt.Add(l.period).Sub(now)
	}
	return d, nil
}

// evictStale drops windows that ended more than one period ago.
// Called with the mutex held, only when a new window starts.
func (l *InMemoryLimiter) evictStale(now time.Time) {
	for key, w := range l.windows {
		if now.Sub(w.startAt) >= 2*l.period {
			delete(l.windows, key)
		}
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)
