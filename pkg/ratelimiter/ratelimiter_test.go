package ratelimiter

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 3, Window: time.Hour})

	assert.True(t, rl.Allow("burst", "ws1"))
	assert.True(t, rl.Allow("burst", "ws1"))
	assert.True(t, rl.Allow("burst", "ws1"))
	// the send at exactly the limit succeeded; the next one in the same
	// window must fail
	assert.False(t, rl.Allow("burst", "ws1"))
}

func TestAllowWithoutPolicyFailsClosed(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	assert.False(t, rl.Allow("unknown", "ws1"))
	assert.Equal(t, 0, rl.Remaining("unknown", "ws1"))
	assert.Equal(t, 0, rl.GetRemainingWindow("unknown", "ws1"))
}

func TestKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 1, Window: time.Hour})

	assert.True(t, rl.Allow("burst", "ws1"))
	assert.False(t, rl.Allow("burst", "ws1"))
	// another workspace has its own counter
	assert.True(t, rl.Allow("burst", "ws2"))
}

func TestNamespacesAreIndependent(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 1, Window: time.Hour})
	rl.SetPolicy("api", Policy{Limit: 2, Window: time.Hour})

	assert.True(t, rl.Allow("burst", "ws1"))
	assert.False(t, rl.Allow("burst", "ws1"))
	assert.True(t, rl.Allow("api", "ws1"))
	assert.True(t, rl.Allow("api", "ws1"))
	assert.False(t, rl.Allow("api", "ws1"))
}

func TestWindowRollover(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 1, Window: 50 * time.Millisecond})

	assert.True(t, rl.Allow("burst", "ws1"))
	assert.False(t, rl.Allow("burst", "ws1"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, rl.Allow("burst", "ws1"))
}

func TestRemaining(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 10, Window: time.Hour})

	assert.Equal(t, 10, rl.Remaining("burst", "ws1"))
	rl.Allow("burst", "ws1")
	rl.Allow("burst", "ws1")
	assert.Equal(t, 8, rl.Remaining("burst", "ws1"))

	// Remaining must not consume budget
	assert.Equal(t, 8, rl.Remaining("burst", "ws1"))
}

func TestGetRemainingWindow(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("api", Policy{Limit: 1, Window: time.Minute})
	rl.Allow("api", "ws1")

	secs := rl.GetRemainingWindow("api", "ws1")
	assert.GreaterOrEqual(t, secs, 1)
	assert.LessOrEqual(t, secs, 60)
}

func TestReset(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 1, Window: time.Hour})
	rl.Allow("burst", "ws1")
	assert.False(t, rl.Allow("burst", "ws1"))

	rl.Reset("burst", "ws1")
	assert.True(t, rl.Allow("burst", "ws1"))
}

func TestAllowN(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("daily", Policy{Limit: 5, Window: time.Hour})

	assert.True(t, rl.AllowN("daily", "ws1", 4))
	// 2 more would exceed; the counter must stay untouched on rejection
	assert.False(t, rl.AllowN("daily", "ws1", 2))
	assert.True(t, rl.AllowN("daily", "ws1", 1))
}

func TestSweepDropsStaleCounters(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 1, Window: 5 * time.Millisecond})
	rl.Allow("burst", "ws1")

	time.Sleep(20 * time.Millisecond)
	rl.sweep()

	rl.mu.Lock()
	n := len(rl.counters)
	rl.mu.Unlock()
	assert.Equal(t, 0, n)
}

func TestConcurrentAllow(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("burst", Policy{Limit: 50, Window: time.Hour})

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Allow("burst", "ws1")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 50, count)
}

func TestStopTwice(t *testing.T) {
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()
}

func ExampleRateLimiter_Allow() {
	rl := NewRateLimiter()
	defer rl.Stop()

	rl.SetPolicy("messages_per_second", Policy{Limit: 1, Window: time.Second})

	fmt.Println(rl.Allow("messages_per_second", "ws1"))
	fmt.Println(rl.Allow("messages_per_second", "ws1"))
	// Output:
	// true
	// false
}
