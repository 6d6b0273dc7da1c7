package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"barbearia-backend/internal/transport"
)

// RateLimiter is a fixed window limiter keyed by client IP and path.
type RateLimiter struct {
	limit   int
	window  time.Duration
	now     func() time.Time
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count int
	reset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok || now.After(b.reset) {
		rl.sweep(now)
		rl.buckets[key] = &bucket{count: 1, reset: now.Add(rl.window)}
		return true
	}

	if b.count >= rl.limit {
		return false
	}

	b.count++
	return true
}

// sweep drops expired buckets; callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, b := range rl.buckets {
		if now.After(b.reset) {
			delete(rl.buckets, k)
		}
	}
}

// clientIP reads RemoteAddr only. Forwarding headers are trusted once, by
// chi's RealIP at the top of the stack, never here.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r) + ":" + r.URL.Path
		if !rl.Allow(key) {
			transport.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
