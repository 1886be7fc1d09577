package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.False(t, rl.IsAllowed("10.0.0.1"))

	// a different client has its own budget
	assert.True(t, rl.IsAllowed("10.0.0.2"))
}

func TestWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	assert.True(t, rl.IsAllowed("10.0.0.1"))
	assert.False(t, rl.IsAllowed("10.0.0.1"))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, rl.IsAllowed("10.0.0.1"))
}

func TestGetRemainingRequests(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	assert.Equal(t, 5, rl.GetRemainingRequests("10.0.0.1"))

	rl.IsAllowed("10.0.0.1")
	rl.IsAllowed("10.0.0.1")

	assert.Equal(t, 3, rl.GetRemainingRequests("10.0.0.1"))
}
