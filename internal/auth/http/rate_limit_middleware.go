package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimiterStore holds per-IP rate limiters with automatic cleanup.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry (IP -> limiter)
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-IP rate limiting on the register and login endpoints,
// which are the only places a master password can be guessed online.
//
// Uses c.ClientIP(), so X-Forwarded-For and X-Real-IP are honored according to the
// engine's trusted proxy settings. The cleanup goroutine stops when ctx is cancelled.
//
// Returns:
//   - 429 Too Many Requests: Rate limit exceeded (includes Retry-After header)
//   - Continues: Request allowed within rate limit
func RateLimitMiddleware(ctx context.Context, rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{
		rps:   rps,
		burst: burst,
	}

	go store.cleanupStale(ctx, 5*time.Minute, time.Hour)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limiter := store.getLimiter(clientIP)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("client_ip", clientIP),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests from this IP. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates a rate limiter for an IP address.
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	now := time.Now()
	fresh := &rateLimiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: now,
	}

	val, loaded := s.limiters.LoadOrStore(ip, fresh)
	entry := val.(*rateLimiterEntry)
	if loaded {
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
	}
	return entry.limiter
}

// cleanupStale removes limiters not accessed within maxIdle, every interval.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeIdle(time.Now().Add(-maxIdle))
		}
	}
}

func (s *rateLimiterStore) removeIdle(threshold time.Time) {
	s.limiters.Range(func(key, value any) bool {
		entry := value.(*rateLimiterEntry)
		entry.mu.Lock()
		shouldDelete := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if shouldDelete {
			s.limiters.Delete(key)
		}
		return true
	})
}
