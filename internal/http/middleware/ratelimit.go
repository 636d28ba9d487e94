package middleware

import (
	"net/http"
	"sync"
	"time"
)

// visitorLimiter tracks per-client token buckets for the API surface.
// Tokens refill continuously at refillPerSec up to burst; an empty bucket
// means the client is sending faster than the session API allows.
type visitorLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*tokenBucket
	refill    float64
	burst     float64
	now       func() time.Time // swapped in tests
	staleSkip time.Duration
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

func newVisitorLimiter(refillPerSec float64, burst int) *visitorLimiter {
	vl := &visitorLimiter{
		visitors:  make(map[string]*tokenBucket),
		refill:    refillPerSec,
		burst:     float64(burst),
		now:       time.Now,
		staleSkip: 10 * time.Minute,
	}
	go vl.evictLoop()
	return vl
}

// take consumes one token for the client, reporting whether it was available.
func (vl *visitorLimiter) take(client string) bool {
	vl.mu.Lock()
	defer vl.mu.Unlock()

	now := vl.now()
	b, ok := vl.visitors[client]
	if !ok {
		b = &tokenBucket{tokens: vl.burst, seen: now}
		vl.visitors[client] = b
	}

	b.tokens += now.Sub(b.seen).Seconds() * vl.refill
	if b.tokens > vl.burst {
		b.tokens = vl.burst
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// evictLoop drops buckets for clients that have gone quiet, bounding the map.
func (vl *visitorLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		vl.mu.Lock()
		cutoff := vl.now().Add(-vl.staleSkip)
		for client, b := range vl.visitors {
			if b.seen.Before(cutoff) {
				delete(vl.visitors, client)
			}
		}
		vl.mu.Unlock()
	}
}

// RateLimit returns an HTTP middleware that rejects clients exceeding the
// configured request rate with 429 Too Many Requests and a Retry-After hint.
func RateLimit(refillPerSec float64, burst int) func(http.Handler) http.Handler {
	limiter := newVisitorLimiter(refillPerSec, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := r.RemoteAddr
			// Prefer X-Real-Ip set by chi's RealIP middleware.
			if xri := r.Header.Get("X-Real-Ip"); xri != "" {
				client = xri
			}
			if !limiter.take(client) {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
