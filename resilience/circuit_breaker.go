// Package resilience provides the circuit breaker protecting calls to the
// marketplace API. When the remote API degrades, the breaker fails fast
// instead of queueing requests behind timeouts; convenience reads such as
// cart reconciliation simply go stale until the circuit recovers.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/surplusmarket/client-go/logging"
)

// ErrCircuitOpen is returned when the breaker rejects a call without
// executing it.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	// StateClosed allows all requests through.
	StateClosed CircuitState = iota
	// StateOpen blocks all requests.
	StateOpen
	// StateHalfOpen allows limited requests to probe recovery.
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrorClassifier decides which errors count toward opening the circuit.
type ErrorClassifier func(error) bool

// DefaultErrorClassifier counts every error except context cancellation,
// which means the caller gave up, not that the remote API failed.
func DefaultErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in logs.
	Name string
	// FailureThreshold is the number of consecutive counted failures that
	// opens the circuit.
	FailureThreshold int
	// SleepWindow is how long the circuit stays open before probing.
	SleepWindow time.Duration
	// HalfOpenRequests is how many consecutive probe successes close the
	// circuit again.
	HalfOpenRequests int
	// ErrorClassifier determines which errors count as failures.
	ErrorClassifier ErrorClassifier
	// Logger for state change events.
	Logger logging.Logger
}

// DefaultConfig returns a configuration suited to an interactive client:
// open quickly, probe quickly.
func DefaultConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:             "surplus-api",
		FailureThreshold: 5,
		SleepWindow:      10 * time.Second,
		HalfOpenRequests: 2,
		ErrorClassifier:  DefaultErrorClassifier,
		Logger:           logging.NoOpLogger{},
	}
}

// CircuitBreaker is a consecutive-failure breaker with a half-open probe
// phase. Safe for concurrent use.
type CircuitBreaker struct {
	config *CircuitBreakerConfig

	mu             sync.Mutex
	state          CircuitState
	failures       int
	probeSuccesses int
	openedAt       time.Time

	now func() time.Time // injected in tests
}

// NewCircuitBreaker creates a circuit breaker. A nil config uses defaults.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultConfig()
	}
	if config.ErrorClassifier == nil {
		config.ErrorClassifier = DefaultErrorClassifier
	}
	if config.Logger == nil {
		config.Logger = logging.NoOpLogger{}
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Execute runs fn under the breaker. When the circuit is open the call is
// rejected with ErrCircuitOpen without invoking fn.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.record(err)
	return err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked() != StateOpen
}

// stateLocked resolves the open→half-open transition lazily when the sleep
// window has elapsed. Caller must hold mu.
func (cb *CircuitBreaker) stateLocked() CircuitState {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.config.SleepWindow {
		cb.transition(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) record(err error) {
	counted := cb.config.ErrorClassifier(err)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		switch cb.state {
		case StateHalfOpen:
			cb.probeSuccesses++
			if cb.probeSuccesses >= cb.config.HalfOpenRequests {
				cb.transition(StateClosed)
			}
		case StateClosed:
			cb.failures = 0
		}
		return
	}

	if !counted {
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.transition(StateOpen)
		cb.openedAt = cb.now()
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.FailureThreshold {
			cb.transition(StateOpen)
			cb.openedAt = cb.now()
		}
	}
}

// transition changes state and resets counters. Caller must hold mu.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.failures = 0
	cb.probeSuccesses = 0

	cb.config.Logger.Info("circuit breaker state change", map[string]interface{}{
		"operation": "circuit_state_change",
		"name":      cb.config.Name,
		"from":      from.String(),
		"to":        to.String(),
	})
}
