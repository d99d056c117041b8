package memory

import (
	"context"
	"maps"
	"sync"

	"vexal/internal/app/ports"
	"vexal/internal/domain/session"
)

type Store struct {
	mu          sync.Mutex
	state       map[string]session.State
	credentials map[string]ports.SessionCredentialRecord
	turns       map[string][]ports.TurnRecord
}

func NewStore() *Store {
	return &Store{
		state:       make(map[string]session.State),
		credentials: make(map[string]ports.SessionCredentialRecord),
		turns:       make(map[string][]ports.TurnRecord),
	}
}

func (s *Store) SeedState(state session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[state.SessionID] = state.Clone()
}

type txKeyType struct{}

var txKey = txKeyType{}

// lock takes the store mutex unless ctx already runs inside RunInTx, which
// holds it for the whole transaction.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey) == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	state       map[string]session.State
	credentials map[string]ports.SessionCredentialRecord
	turns       map[string][]ports.TurnRecord
}

// Stored values are never mutated in place, so shallow map copies are
// enough to roll back.
func (s *Store) snapshot() snapshot {
	turns := make(map[string][]ports.TurnRecord, len(s.turns))
	for id, list := range s.turns {
		turns[id] = list[:len(list):len(list)]
	}
	return snapshot{
		state:       maps.Clone(s.state),
		credentials: maps.Clone(s.credentials),
		turns:       turns,
	}
}

func (s *Store) restore(snap snapshot) {
	s.state = snap.state
	s.credentials = snap.credentials
	s.turns = snap.turns
}
