package companion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const rateLimitKeyPrefix = "ksclock:ratelimit:"

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter throttles weather requests per device.
type Limiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

var (
	_ Limiter = (*MemoryLimiter)(nil)
	_ Limiter = (*RedisLimiter)(nil)
)

type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewMemoryLimiter(perMinute float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (RateLimitResult, error) {
	m.mu.Lock()
	limiter, ok := m.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(m.limit, m.burst)
		m.limiters[key] = limiter
	}
	m.mu.Unlock()

	r := limiter.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return RateLimitResult{Allowed: false, RetryAfter: delay}, nil
	}
	return RateLimitResult{Allowed: true}, nil
}

// RedisLimiter is a fixed-window counter shared by every companion instance.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	k := rateLimitKeyPrefix + key

	n, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if n == 1 {
		// first hit opens the window
		if err := r.client.PExpire(ctx, k, r.window).Err(); err != nil {
			return RateLimitResult{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if n <= int64(r.limit) {
		return RateLimitResult{Allowed: true}, nil
	}

	retry, err := r.client.PTTL(ctx, k).Result()
	if err != nil || retry <= 0 {
		retry = r.window
	}
	return RateLimitResult{Allowed: false, RetryAfter: retry}, nil
}
