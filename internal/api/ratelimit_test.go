package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	t.Cleanup(rl.Stop)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "keys are independent")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	t.Cleanup(rl.Stop)

	assert.True(t, rl.Allow("k"))
	assert.False(t, rl.Allow("k"))
	assert.Eventually(t, func() bool { return rl.Allow("k") }, time.Second, 10*time.Millisecond)
}

func TestRateLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(5, 20*time.Millisecond)
	t.Cleanup(rl.Stop)

	rl.Allow("a")
	rl.Allow("b")
	assert.Eventually(t, func() bool { return rl.keys() == 0 }, time.Second, 10*time.Millisecond)

	rl.Stop()
	rl.Stop()
}
