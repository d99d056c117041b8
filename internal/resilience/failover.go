package resilience

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrAllFailed = errors.New("all providers failed")

type member[T any] struct {
	name    string
	value   T
	breaker *Breaker
}

// Failover tries its members in registration order, skipping any whose
// breaker is open.
type Failover[T any] struct {
	cfg     BreakerConfig
	members []member[T]
}

func NewFailover[T any](cfg BreakerConfig) *Failover[T] {
	return &Failover[T]{cfg: cfg}
}

func (f *Failover[T]) Add(name string, value T) {
	cfg := f.cfg
	cfg.Name = name
	f.members = append(f.members, member[T]{name: name, value: value, breaker: NewBreaker(cfg)})
}

func (f *Failover[T]) Len() int {
	return len(f.members)
}

// BreakerState returns the state of the named member's breaker.
func (f *Failover[T]) BreakerState(name string) (State, bool) {
	for _, m := range f.members {
		if m.name == name {
			return m.breaker.State(), true
		}
	}
	return StateClosed, false
}

// Do returns the first successful result together with the name of the
// member that produced it.
func Do[T, R any](f *Failover[T], fn func(T) (R, error)) (R, string, error) {
	var (
		zero    R
		lastErr error
	)
	if len(f.members) == 0 {
		return zero, "", fmt.Errorf("%w: no providers configured", ErrAllFailed)
	}
	for i := range f.members {
		m := &f.members[i]
		var out R
		err := m.breaker.Execute(func() error {
			var err error
			out, err = fn(m.value)
			return err
		})
		if err == nil {
			return out, m.name, nil
		}
		lastErr = err
		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("provider skipped", "provider", m.name)
			continue
		}
		slog.Warn("provider failed", "provider", m.name, "error", err)
	}
	return zero, "", fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
