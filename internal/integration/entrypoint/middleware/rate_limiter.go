package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/pantry-ledger/backend/internal/domain/error"
	"github.com/pantry-ledger/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxAttempts is the default number of allowed attempts per window.
	defaultMaxAttempts = 5
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute

	rateLimitKeyPrefix = "pantry-ledger:ratelimit:"
)

// attemptCounter counts hits for a key within a fixed window.
type attemptCounter interface {
	hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter provides IP-based fixed window rate limiting.
// Counters live in Redis when a client is configured so that every API
// instance shares them, otherwise in process memory.
type RateLimiter struct {
	counter     attemptCounter
	maxAttempts int
	window      time.Duration
	disabled    bool
}

// NewRateLimiter creates an in-memory rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(nil, defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a rate limiter. A nil client keeps counters in memory.
func NewRateLimiterWithConfig(client redis.UniversalClient, maxAttempts int, window time.Duration) *RateLimiter {
	var counter attemptCounter = &memoryCounter{entries: make(map[string]*memoryEntry)}
	if client != nil {
		counter = &redisCounter{client: client}
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindowDuration
	}
	return &RateLimiter{
		counter:     counter,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Disable turns the limiter into a pass-through (test and e2e environments).
func (rl *RateLimiter) Disable() *RateLimiter {
	rl.disabled = true
	return rl
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.disabled {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		if !rl.allow(c.Request.Context(), clientIP) {
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow checks if a request from the given key should be allowed.
// Counter failures fail open.
func (rl *RateLimiter) allow(ctx context.Context, key string) bool {
	n, err := rl.counter.hit(ctx, rateLimitKeyPrefix+key, rl.window)
	if err != nil {
		slog.Warn("Rate limit counter unavailable", "error", err)
		return true
	}
	return n <= int64(rl.maxAttempts)
}

type redisCounter struct {
	client redis.UniversalClient
}

func (r *redisCounter) hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

type memoryEntry struct {
	attempts  int64
	resetTime time.Time
}

type memoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func (m *memoryCounter) hit(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, ok := m.entries[key]
	if !ok || now.After(entry.resetTime) {
		m.entries[key] = &memoryEntry{attempts: 1, resetTime: now.Add(window)}
		m.sweep(now)
		return 1, nil
	}
	entry.attempts++
	return entry.attempts, nil
}

// sweep drops expired windows.
func (m *memoryCounter) sweep(now time.Time) {
	for key, entry := range m.entries {
		if now.After(entry.resetTime) {
			delete(m.entries, key)
		}
	}
}
