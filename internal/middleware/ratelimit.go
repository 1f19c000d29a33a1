package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cortexai/datachat/internal/models"
	"github.com/patrickmn/go-cache"
)

type slidingWindow struct {
	mu        sync.Mutex
	requests  []time.Time
	limit     int
	windowDur time.Duration
}

func (sw *slidingWindow) allow(now time.Time) (remaining int, ok bool) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := now.Add(-sw.windowDur)

	valid := sw.requests[:0]
	for _, t := range sw.requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	sw.requests = valid

	if len(sw.requests) >= sw.limit {
		return 0, false
	}
	sw.requests = append(sw.requests, now)
	return sw.limit - len(sw.requests), true
}

// RateLimiter keeps one sliding window per client. Idle windows expire from
// the cache once their last request leaves the window.
type RateLimiter struct {
	mu      sync.Mutex
	windows *cache.Cache
	limit   int
	window  time.Duration
}

func NewRateLimiter(limitPerMinute int) *RateLimiter {
	return &RateLimiter{
		windows: cache.New(time.Minute, 5*time.Minute),
		limit:   limitPerMinute,
		window:  time.Minute,
	}
}

func (rl *RateLimiter) windowFor(key string) *slidingWindow {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.windows.Get(key); ok {
		rl.windows.SetDefault(key, v)
		return v.(*slidingWindow)
	}
	sw := &slidingWindow{limit: rl.limit, windowDur: rl.window}
	rl.windows.SetDefault(key, sw)
	return sw
}

// Allow records one request for key.
func (rl *RateLimiter) Allow(key string) (remaining int, ok bool) {
	return rl.windowFor(key).allow(time.Now())
}

// RateLimit limits each client to limitPerMinute requests. Clients are keyed
// by API key, then browser session cookie, then remote address.
func RateLimit(limitPerMinute int) func(http.Handler) http.Handler {
	rl := NewRateLimiter(limitPerMinute)
	limit := strconv.Itoa(limitPerMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, ok := rl.Allow(clientKey(r))

			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				w.Header().Set("Retry-After", "60")
				models.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return "key:" + key
	}
	if c, err := r.Cookie(SessionName); err == nil && c.Value != "" {
		return "session:" + c.Value
	}
	return "addr:" + r.RemoteAddr
}
