package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is the current circuit breaker state.
type CircuitState int

const (
	// Closed allows requests to pass through
	Closed CircuitState = iota
	// Open blocks all requests
	Open
	// HalfOpen allows limited requests to test recovery
	HalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls to a flaky dependency and fails fast once it has
// failed FailureThreshold times in a row.
type CircuitBreaker interface {
	Call(func() error) error
	State() CircuitState
	Metrics() Metrics
	Reset()
}

type Config struct {
	Name             string
	FailureThreshold int           // consecutive failures before opening
	RecoveryTimeout  time.Duration // time spent Open before a HalfOpen probe
	SuccessThreshold int           // HalfOpen successes needed to close

	// OnStateChange runs outside the breaker lock.
	OnStateChange func(name string, from, to CircuitState)
}

func DefaultConfig() *Config {
	return &Config{
		Name:             "default",
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		SuccessThreshold: 1,
	}
}

// Metrics is a point-in-time snapshot of the breaker.
type Metrics struct {
	State        CircuitState
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	NextAttempt  time.Time
}

type circuitBreaker struct {
	config      Config
	now         func() time.Time
	mu          sync.Mutex
	state       CircuitState
	failures    int
	successes   int
	lastFailure time.Time
	nextAttempt time.Time
}

// NewCircuitBreaker returns a circuit breaker and applies defaults for nil or zero fields.
func NewCircuitBreaker(config *Config) CircuitBreaker {
	cfg := *DefaultConfig()
	if config != nil {
		if config.Name != "" {
			cfg.Name = config.Name
		}
		if config.FailureThreshold > 0 {
			cfg.FailureThreshold = config.FailureThreshold
		}
		if config.RecoveryTimeout > 0 {
			cfg.RecoveryTimeout = config.RecoveryTimeout
		}
		if config.SuccessThreshold > 0 {
			cfg.SuccessThreshold = config.SuccessThreshold
		}
		cfg.OnStateChange = config.OnStateChange
	}

	return &circuitBreaker{config: cfg, now: time.Now, state: Closed}
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	from := cb.state
	if cb.state == Open && cb.now().After(cb.nextAttempt) {
		cb.state = HalfOpen
		cb.successes = 0
	}
	allowed := cb.state != Open
	to := cb.state
	cb.mu.Unlock()
	cb.notify(from, to)

	if !allowed {
		return ErrCircuitOpen
	}

	// Never call user code while holding the lock.
	err := fn()

	cb.mu.Lock()
	from = cb.state
	if err != nil {
		cb.recordFailure()
	} else {
		cb.recordSuccess()
	}
	to = cb.state
	cb.mu.Unlock()
	cb.notify(from, to)

	return err
}

func (cb *circuitBreaker) notify(from, to CircuitState) {
	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Metrics() Metrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Metrics{
		State:        cb.state,
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		NextAttempt:  cb.nextAttempt,
	}
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	from := cb.state
	cb.state = Closed
	cb.failures = 0
	cb.successes = 0
	cb.mu.Unlock()
	cb.notify(from, Closed)
}

func (cb *circuitBreaker) recordFailure() {
	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case Closed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.trip()
		}
	case HalfOpen:
		cb.trip()
	}
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.nextAttempt = cb.now().Add(cb.config.RecoveryTimeout)
}

func (cb *circuitBreaker) recordSuccess() {
	cb.failures = 0

	if cb.state == HalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.state = Closed
			cb.successes = 0
		}
	}
}
