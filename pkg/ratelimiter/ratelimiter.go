package ratelimiter

import (
	"math"
	"sync"
	"time"
)

// Policy defines a fixed-window limit for a namespace.
type Policy struct {
	// Limit is the maximum number of events per window.
	Limit int
	// Window is the length of the fixed window.
	Window time.Duration
}

type counter struct {
	windowStart time.Time
	count       int
	window      time.Duration
}

// RateLimiter enforces fixed-window counters keyed by (namespace, key).
// Namespaces carry their own policy, e.g. "messages_per_second" or
// "api_per_minute"; keys are workspace identifiers. Counters whose window
// started more than twice the window length ago are swept periodically.
type RateLimiter struct {
	mu       sync.Mutex
	counters map[string]*counter
	policies map[string]Policy
	quit     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter and starts its sweep goroutine.
func NewRateLimiter() *RateLimiter {
	rl := &RateLimiter{
		counters: make(map[string]*counter),
		policies: make(map[string]Policy),
		quit:     make(chan struct{}),
	}

	go rl.sweepLoop()

	return rl
}

// SetPolicy registers or replaces the policy for a namespace.
func (rl *RateLimiter) SetPolicy(namespace string, policy Policy) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.policies[namespace] = policy
}

func counterKey(namespace, key string) string {
	return namespace + ":" + key
}

// Allow consumes one unit from the (namespace, key) counter. It returns false
// when the current window is exhausted or when no policy exists for the
// namespace (fail closed).
func (rl *RateLimiter) Allow(namespace, key string) bool {
	return rl.AllowN(namespace, key, 1)
}

// AllowN consumes n units at once.
func (rl *RateLimiter) AllowN(namespace, key string, n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return false
	}

	c := rl.currentCounter(namespace, key, policy)
	if c.count+n > policy.Limit {
		return false
	}

	c.count += n
	return true
}

// Remaining reports the unused budget in the current window without
// consuming any of it. Without a policy it reports zero.
func (rl *RateLimiter) Remaining(namespace, key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return 0
	}

	c := rl.currentCounter(namespace, key, policy)
	remaining := policy.Limit - c.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// GetRemainingWindow returns the number of seconds until the current window
// for (namespace, key) rolls over, rounded up, at least 1. Used as the
// Retry-After value on rejections.
func (rl *RateLimiter) GetRemainingWindow(namespace, key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	policy, ok := rl.policies[namespace]
	if !ok {
		return 0
	}

	c := rl.currentCounter(namespace, key, policy)
	remaining := time.Until(c.windowStart.Add(policy.Window))
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Reset clears the counter for (namespace, key).
func (rl *RateLimiter) Reset(namespace, key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	delete(rl.counters, counterKey(namespace, key))
}

// currentCounter returns the live counter for the key, rolling the window
// over when it has elapsed. Callers must hold the lock.
func (rl *RateLimiter) currentCounter(namespace, key string, policy Policy) *counter {
	ck := counterKey(namespace, key)
	now := time.Now()
	windowStart := now.Truncate(policy.Window)

	c, ok := rl.counters[ck]
	if !ok || !c.windowStart.Equal(windowStart) {
		c = &counter{windowStart: windowStart, window: policy.Window}
		rl.counters[ck] = c
	}
	return c
}

// Stop terminates the sweep goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.quit)
	})
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.quit:
			return
		}
	}
}

// sweep drops counters whose window started more than twice the window
// length ago.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ck, c := range rl.counters {
		if now.Sub(c.windowStart) > 2*c.window {
			delete(rl.counters, ck)
		}
	}
}
