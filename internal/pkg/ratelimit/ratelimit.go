package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var timeNow = time.Now

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	window  time.Duration
	idleTTL time.Duration
	entries map[string]*entry
	mu      sync.Mutex
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New allows limit requests per window for each key.
func New(limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		window:  window,
		idleTTL: 10 * window,
		entries: make(map[string]*entry),
	}
}

// NewPerSecond refills perSecond tokens every second up to burst.
func NewPerSecond(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		window:  time.Second,
		idleTTL: 10 * time.Minute,
		entries: make(map[string]*entry),
	}
}

func (rl *RateLimiter) get(key string, now time.Time) *rate.Limiter {
	e, ok := rl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := timeNow()
	return rl.get(key, now).AllowN(now, 1)
}

// Limit is the bucket size advertised in headers.
func (rl *RateLimiter) Limit() int {
	return rl.burst
}

// GetRemaining returns the number of whole tokens left for the key.
func (rl *RateLimiter) GetRemaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := timeNow()
	tokens := rl.get(key, now).TokensAt(now)
	if tokens < 0 {
		return 0
	}
	return int(math.Floor(tokens))
}

// GetResetTime returns when the next token becomes available for the key.
func (rl *RateLimiter) GetResetTime(key string) time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := timeNow()
	tokens := rl.get(key, now).TokensAt(now)
	if tokens >= 1 {
		return now
	}
	if rl.limit <= 0 {
		return now.Add(rl.window)
	}
	wait := (1 - tokens) / float64(rl.limit)
	return now.Add(time.Duration(wait * float64(time.Second)))
}

// Reset clears the rate limit for the given key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.entries, key)
}

// Len reports how many keys are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return len(rl.entries)
}

// Cleanup removes keys that have been idle longer than the idle TTL.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := timeNow().Add(-rl.idleTTL)
	for key, e := range rl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(rl.entries, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
