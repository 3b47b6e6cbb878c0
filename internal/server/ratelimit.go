package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter applies a token-bucket budget per client IP.
type rateLimiter struct {
	enabled bool
	limit   rate.Limit
	burst   int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(enabled bool, requestsPerMin, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		enabled: enabled,
		limit:   rate.Limit(float64(requestsPerMin) / 60.0),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

// allow reports whether a request from the given client IP may proceed.
func (rl *rateLimiter) allow(clientIP string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter.Allow()
}

// cleanup removes limiters for clients not seen within the last hour, so
// long-running servers don't accumulate one bucket per IP forever.
func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-time.Hour)
	for ip, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// startCleanup runs cleanup on a background ticker.
func (rl *rateLimiter) startCleanup() {
	if !rl.enabled {
		return
	}
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.cleanup()
		}
	}()
}
