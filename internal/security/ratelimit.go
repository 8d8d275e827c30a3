package security

import (
	"sync"
	"time"
)

// Decision is the outcome of a rate-limit check. RemainingTime is only set
// when the attempt was refused.
type Decision struct {
	Allowed       bool
	RemainingTime time.Duration
}

// RateLimiter caps accepted attempts per identifier within a fixed window.
// State lives in process memory and is lost on restart; it deliberately is a
// per-process limiter, not a durable one. Construct one per concern (login,
// signup, lead capture) and inject it where needed.
type RateLimiter struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

type attemptRecord struct {
	count       int
	lastAttempt time.Time
}

func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		attempts:    make(map[string]*attemptRecord),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
	go rl.cleanup()
	return rl
}

// Allow records an attempt for the identifier and reports whether it is
// within the limit. The first attempt, or any attempt after a full window of
// silence, resets the counter. Every attempt refreshes the window anchor, so
// an identifier that keeps hammering stays blocked until it goes quiet for a
// whole window. Exceeding the limit never raises; the caller gets a refusal
// flag plus the time left until the window resets.
func (rl *RateLimiter) Allow(identifier string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rec, exists := rl.attempts[identifier]

	if !exists || now.Sub(rec.lastAttempt) > rl.window {
		rl.attempts[identifier] = &attemptRecord{count: 1, lastAttempt: now}
		return Decision{Allowed: true}
	}

	rec.count++
	rec.lastAttempt = now
	if rec.count <= rl.maxAttempts {
		return Decision{Allowed: true}
	}
	return Decision{
		Allowed:       false,
		RemainingTime: rl.window,
	}
}

// RemainingTime reports how long the identifier stays blocked, zero when it
// is not blocked.
func (rl *RateLimiter) RemainingTime(identifier string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rec, exists := rl.attempts[identifier]
	if !exists || rec.count <= rl.maxAttempts {
		return 0
	}
	remaining := rl.window - rl.now().Sub(rec.lastAttempt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		for id, rec := range rl.attempts {
			if now.Sub(rec.lastAttempt) > rl.window*2 {
				delete(rl.attempts, id)
			}
		}
		rl.mu.Unlock()
	}
}
