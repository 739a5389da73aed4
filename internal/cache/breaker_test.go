package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestBreakerLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker("test", BreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute, HalfOpenMaxCalls: 2}, zerolog.Nop())
	b.now = func() time.Time { return now }
	boom := errors.New("connection refused")

	assert.True(t, b.Allow())
	b.RecordFailure(boom)
	assert.Equal(t, BreakerClosed, b.State())
	b.RecordFailure(boom)
	assert.Equal(t, BreakerOpen, b.State())
	assert.False(t, b.Allow())

	now = now.Add(time.Minute)
	assert.True(t, b.Allow())
	assert.Equal(t, BreakerHalfOpen, b.State())

	// A failed trial call reopens.
	b.RecordFailure(boom)
	assert.Equal(t, BreakerOpen, b.State())

	now = now.Add(time.Minute)
	assert.True(t, b.Allow())
	b.RecordSuccess()
	assert.Equal(t, BreakerHalfOpen, b.State())
	b.RecordSuccess()
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker("reset", BreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute, HalfOpenMaxCalls: 1}, zerolog.Nop())
	boom := errors.New("timeout")

	b.RecordFailure(boom)
	b.RecordSuccess()
	b.RecordFailure(boom)
	assert.Equal(t, BreakerClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}
