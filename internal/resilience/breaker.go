// Package resilience guards calls to flaky dependencies with circuit breakers
// and ordered failover.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
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

type BreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the breaker. Default 5.
	MaxFailures int
	// ResetTimeout is how long an open breaker rejects calls. Default 30s.
	ResetTimeout time.Duration
	// HalfOpenMax successful probes close the breaker again. Default 3.
	HalfOpenMax int
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.MaxFailures <= 0 {
		c.MaxFailures = 5
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = 30 * time.Second
	}
	if c.HalfOpenMax <= 0 {
		c.HalfOpenMax = 3
	}
	return c
}

type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu           sync.Mutex
	state        State
	failures     int
	openedAt     time.Time
	probes       int
	probeSuccess int
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{cfg: cfg.withDefaults(), now: time.Now}
}

// Execute runs fn unless the breaker is open. While half-open only
// HalfOpenMax probes are let through; any probe failure re-opens it.
func (b *Breaker) Execute(fn func() error) error {
	probe, err := b.admit()
	if err != nil {
		return err
	}
	err = fn()
	b.record(probe, err)
	return err
}

func (b *Breaker) admit() (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.ResetTimeout {
			return false, ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probes = 0
		b.probeSuccess = 0
		slog.Info("circuit breaker half-open", "name", b.cfg.Name)
		fallthrough
	case StateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMax {
			return false, ErrCircuitOpen
		}
		b.probes++
		return true, nil
	}
	return false, nil
}

func (b *Breaker) record(probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		if probe {
			b.trip()
			return
		}
		b.failures++
		if b.failures >= b.cfg.MaxFailures {
			b.trip()
		}
		return
	}
	if !probe {
		b.failures = 0
		return
	}
	b.probeSuccess++
	if b.probeSuccess >= b.cfg.HalfOpenMax {
		b.state = StateClosed
		b.failures = 0
		slog.Info("circuit breaker closed", "name", b.cfg.Name)
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	slog.Warn("circuit breaker opened", "name", b.cfg.Name, "failures", b.failures)
}

// State reports half-open for an open breaker whose timeout has elapsed; the
// transition itself happens on the next Execute.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.ResetTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	b.probeSuccess = 0
}
