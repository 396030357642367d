package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces a minimum interval between requests per user.
type RateLimiter struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	limit time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		seen:  make(map[string]time.Time),
		limit: limit,
	}
}

// Middleware keys requests by the X-User-ID header; requests without
// the header count against the default user.
func (r *RateLimiter) Middleware(defaultUser string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.GetHeader("X-User-ID")
		if user == "" {
			user = defaultUser
		}
		r.mu.Lock()
		last, exists := r.seen[user]
		if exists && time.Since(last) < r.limit {
			r.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		r.seen[user] = time.Now()
		r.mu.Unlock()
		c.Next()
	}
}
