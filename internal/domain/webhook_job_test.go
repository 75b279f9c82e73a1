package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryBackoffDoublesAndCaps(t *testing.T) {
	assert.Equal(t, 30*time.Second, RetryBackoff(1))
	assert.Equal(t, time.Minute, RetryBackoff(2))
	assert.Equal(t, 2*time.Minute, RetryBackoff(3))
	assert.Equal(t, 4*time.Minute, RetryBackoff(4))
	assert.Equal(t, 8*time.Minute, RetryBackoff(5))
	assert.Equal(t, 15*time.Minute, RetryBackoff(6))
	assert.Equal(t, 15*time.Minute, RetryBackoff(20))
}
