package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerKeyBurst(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 2, WithClock(func() time.Time { return now }))

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "keys are independent")

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"), "one token refilled")
	assert.False(t, l.Allow("10.0.0.1"))
}

func TestLimiter_Prune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(10, 10, WithClock(func() time.Time { return now }))

	l.Allow("a")
	now = now.Add(5 * time.Minute)
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	assert.Equal(t, 1, l.Prune(time.Minute))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Prune(time.Minute))
}
