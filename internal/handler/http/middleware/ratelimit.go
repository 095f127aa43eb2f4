package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/handler/http/response"
)

// TokenBucket is an in-memory per-key rate limiter refilled continuously at rate tokens
// per minute.
type TokenBucket struct {
	capacity int
	rate     int
	now      func() time.Time
	mu       sync.Mutex
	state    map[string]*bucket
	swept    time.Time
}

// sweepEvery bounds how often idle buckets are dropped
const sweepEvery = time.Minute

type bucket struct {
	tokens int
	last   time.Time
}

func NewTokenBucket(capacity, perMinute int) *TokenBucket {
	if capacity <= 0 {
		capacity = perMinute
	}
	return &TokenBucket{
		capacity: capacity,
		rate:     perMinute,
		now:      time.Now,
		state:    make(map[string]*bucket),
	}
}

// Limit keys buckets by the caller's user id, falling back to the client address
func (l *TokenBucket) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if !l.allow(clientKey(r)) {
			response.TooManyRequests(w, "Rate limit exceeded, try again shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *TokenBucket) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.swept) >= sweepEvery {
		l.sweep(now)
		l.swept = now
	}
	b, ok := l.state[key]
	if !ok {
		b = &bucket{tokens: l.capacity - 1, last: now}
		l.state[key] = b
		return true
	}
	refill := l.refill(b, now)
	if refill > 0 {
		b.tokens = min(b.tokens+refill, l.capacity)
		b.last = now
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (l *TokenBucket) refill(b *bucket, now time.Time) int {
	return int(now.Sub(b.last).Minutes() * float64(l.rate))
}

// sweep drops buckets that have refilled to capacity. A dropped key starts again with a
// full bucket, so callers cannot tell the difference.
func (l *TokenBucket) sweep(now time.Time) {
	for key, b := range l.state {
		if b.tokens+l.refill(b, now) >= l.capacity {
			delete(l.state, key)
		}
	}
}

func clientKey(r *http.Request) string {
	if identity, ok := IdentityFromContext(r.Context()); ok {
		return "user:" + identity.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "ip:unknown"
	}
	return "ip:" + host
}
