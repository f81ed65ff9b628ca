package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownSequence(t *testing.T) {
	limiter := NewCooldownLimiter()
	base := time.Now()
	cooldown := 60 * time.Second

	_, ok := limiter.TryConsume("pseud", "community-1", base, cooldown)
	assert.True(t, ok, "first submission should pass")

	remaining, ok := limiter.TryConsume("pseud", "community-1", base.Add(59*time.Second), cooldown)
	assert.False(t, ok, "submission at t=59 should be blocked")
	assert.GreaterOrEqual(t, remaining, time.Second)

	_, ok = limiter.TryConsume("pseud", "community-1", base.Add(60*time.Second), cooldown)
	assert.True(t, ok, "submission at t=60 should pass")
}

func TestCooldownDisabled(t *testing.T) {
	limiter := NewCooldownLimiter()
	base := time.Now()

	for i := 0; i < 5; i++ {
		_, ok := limiter.TryConsume("pseud", "community-1", base, 0)
		assert.True(t, ok)
	}
}

func TestCooldownIndependentKeys(t *testing.T) {
	limiter := NewCooldownLimiter()
	base := time.Now()
	cooldown := 60 * time.Second

	_, ok := limiter.TryConsume("pseud-a", "community-1", base, cooldown)
	assert.True(t, ok)

	// other submitters and other communities are unaffected
	_, ok = limiter.TryConsume("pseud-b", "community-1", base, cooldown)
	assert.True(t, ok)
	_, ok = limiter.TryConsume("pseud-a", "community-2", base, cooldown)
	assert.True(t, ok)
}
