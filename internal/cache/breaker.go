package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "basket_cache_breaker_state",
		Help: "State of the comparison cache circuit breaker (0=closed, 1=open, 2=half-open)",
	},
	[]string{"name"},
)

// BreakerState is the state of a circuit breaker.
type BreakerState int

const (
	// BreakerClosed lets every call through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls until the reset timeout passes.
	BreakerOpen
	// BreakerHalfOpen lets a few trial calls through.
	BreakerHalfOpen
)

// String returns the string representation of the state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures int
	// ResetTimeout is how long the breaker stays open before trial calls.
	ResetTimeout time.Duration
	// HalfOpenMaxCalls is the number of successful trials that close it again.
	HalfOpenMaxCalls int
}

// DefaultBreakerConfig returns the default circuit breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:      5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// Breaker stops the cache from calling Redis while it keeps failing.
type Breaker struct {
	mu              sync.Mutex
	state           BreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	config          BreakerConfig
	logger          zerolog.Logger
	name            string
	now             func() time.Time
}

// NewBreaker creates a closed circuit breaker.
func NewBreaker(name string, config BreakerConfig, logger zerolog.Logger) *Breaker {
	b := &Breaker{
		state:  BreakerClosed,
		config: config,
		logger: logger,
		name:   name,
		now:    time.Now,
	}
	breakerState.WithLabelValues(name).Set(float64(BreakerClosed))
	return b
}

// Allow reports whether a call may go through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.lastFailureTime) >= b.config.ResetTimeout {
			b.transitionTo(BreakerHalfOpen)
			b.logger.Info().Str("circuit_breaker", b.name).Msg("Circuit breaker transitioning to half-open")
			return true
		}
		return false
	case BreakerHalfOpen:
		return b.successCount < b.config.HalfOpenMaxCalls
	default:
		return false
	}
}

// RecordSuccess records a successful call.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureCount = 0
	case BreakerHalfOpen:
		b.successCount++
		if b.successCount >= b.config.HalfOpenMaxCalls {
			b.transitionTo(BreakerClosed)
			b.logger.Info().
				Str("circuit_breaker", b.name).
				Int("success_count", b.successCount).
				Msg("Circuit breaker closing after successful recovery")
			b.successCount = 0
			b.failureCount = 0
		}
	}
}

// RecordFailure records a failed call.
func (b *Breaker) RecordFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failureCount++
	b.lastFailureTime = b.now()

	switch b.state {
	case BreakerClosed:
		if b.failureCount >= b.config.MaxFailures {
			b.transitionTo(BreakerOpen)
			b.logger.Warn().
				Err(err).
				Str("circuit_breaker", b.name).
				Int("failure_count", b.failureCount).
				Dur("reset_timeout", b.config.ResetTimeout).
				Msg("Circuit breaker opening after max failures")
		}
	case BreakerHalfOpen:
		// Any failure while probing reopens the breaker.
		b.transitionTo(BreakerOpen)
		b.successCount = 0
		b.logger.Warn().
			Err(err).
			Str("circuit_breaker", b.name).
			Msg("Circuit breaker re-opening after failure in half-open state")
	}
}

// State returns the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transitionTo(state BreakerState) {
	b.state = state
	breakerState.WithLabelValues(b.name).Set(float64(state))
}
