package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/family-budget/backend/internal/domain/error"
	"github.com/family-budget/backend/internal/integration/entrypoint/dto"
)

// window counts one caller's requests inside a fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// RateLimiter caps requests per caller in fixed windows. Callers with a cloud identity are
// keyed by user, device sessions by client IP, so switching devices does not reset the quota.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// NewRateLimiter allows limit requests per period. A non-positive limit disables limiting.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Middleware rejects callers over their quota with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		retryAfter, ok := rl.take(callerKey(c))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many invitations. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func callerKey(c *gin.Context) string {
	if session := GetSession(c); session.HasCloudIdentity() {
		return "user:" + session.UserID
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "addr:" + c.Request.RemoteAddr
}

// take consumes one request from key's quota. When the quota is spent it returns the
// time left until the window resets.
func (rl *RateLimiter) take(key string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(rl.period)}
		return 0, true
	}
	if w.count >= rl.limit {
		return w.resetAt.Sub(now), false
	}
	w.count++
	return 0, true
}

// Reset forgets every caller.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*window)
}

// Cleanup drops expired windows and returns how many remain.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
		}
	}
	return len(rl.windows)
}
