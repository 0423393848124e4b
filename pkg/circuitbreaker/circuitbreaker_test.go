package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errProvider = errors.New("provider returned 503")

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(&Config{FailureThreshold: 2, RecoveryTimeout: time.Hour})

	assert.ErrorIs(t, cb.Call(func() error { return errProvider }), errProvider)
	assert.Equal(t, Closed, cb.State())
	assert.ErrorIs(t, cb.Call(func() error { return errProvider }), errProvider)
	assert.Equal(t, Open, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_HalfOpenProbeClosesCircuit(t *testing.T) {
	var transitions []string
	cb := NewCircuitBreaker(&Config{
		Name:             "mailer",
		FailureThreshold: 1,
		RecoveryTimeout:  time.Minute,
		OnStateChange: func(name string, from, to CircuitState) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	}).(*circuitBreaker)

	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = cb.Call(func() error { return errProvider })
	assert.Equal(t, Open, cb.State())

	now = now.Add(2 * time.Minute)
	assert.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, Closed, cb.State())

	assert.Equal(t, []string{
		"mailer:closed->open",
		"mailer:open->half-open",
		"mailer:half-open->closed",
	}, transitions)
}

func TestCircuitBreaker_ResetClearsCounters(t *testing.T) {
	cb := NewCircuitBreaker(&Config{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	_ = cb.Call(func() error { return errProvider })

	cb.Reset()

	m := cb.Metrics()
	assert.Equal(t, Closed, m.State)
	assert.Zero(t, m.FailureCount)
}
