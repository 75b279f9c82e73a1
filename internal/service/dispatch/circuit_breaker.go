package dispatch

import (
	"sync"
	"time"
)

// CircuitBreakerConfig holds configuration for the dispatcher's breaker.
type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive handler failures before the
	// circuit opens and claiming pauses.
	Threshold int

	// CooldownPeriod is how long to wait before claiming resumes.
	CooldownPeriod time.Duration
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Threshold:      5,
		CooldownPeriod: time.Minute,
	}
}

// CircuitBreaker guards the dispatch pipeline as a whole. Every job goes to
// the same downstream databases and provider, so one shared circuit is
// enough: a run of consecutive failures pauses claiming instead of burning
// through every queued job's retry budget.
type CircuitBreaker struct {
	failures       int
	threshold      int
	cooldownPeriod time.Duration
	lastFailure    time.Time
	isOpen         bool
	mutex          sync.RWMutex
}

// NewCircuitBreaker creates a new circuit breaker with the given configuration
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.Threshold <= 0 {
		config.Threshold = 5
	}
	if config.CooldownPeriod <= 0 {
		config.CooldownPeriod = time.Minute
	}
	return &CircuitBreaker{
		threshold:      config.Threshold,
		cooldownPeriod: config.CooldownPeriod,
	}
}

// IsOpen checks if the circuit is open. An open circuit whose cooldown has
// passed resets automatically.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if !cb.isOpen {
		return false
	}
	if time.Since(cb.lastFailure) >= cb.cooldownPeriod {
		cb.isOpen = false
		cb.failures = 0
		return false
	}
	return true
}

// RecordSuccess resets the failure count and closes the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.failures = 0
	cb.isOpen = false
}

// RecordFailure counts a failure and opens the circuit at the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.failures++
	cb.lastFailure = time.Now()
	if cb.failures >= cb.threshold {
		cb.isOpen = true
	}
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mutex.RLock()
	defer cb.mutex.RUnlock()
	return cb.failures
}
