package memory

import (
	"context"

	"vexal/internal/app/ports"
	"vexal/internal/domain/session"
)

type SessionStateRepo struct {
	store *Store
}

func NewSessionStateRepo(store *Store) SessionStateRepo {
	return SessionStateRepo{store: store}
}

func (r SessionStateRepo) GetBySessionID(ctx context.Context, sessionID string) (session.State, error) {
	defer r.store.lock(ctx)()
	state, ok := r.store.state[sessionID]
	if !ok {
		return session.State{}, ports.ErrNotFound
	}
	return state.Clone(), nil
}

func (r SessionStateRepo) SaveWithVersion(ctx context.Context, state session.State, expectedVersion int64) error {
	defer r.store.lock(ctx)()
	current, ok := r.store.state[state.SessionID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.state[state.SessionID] = state.Clone()
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.state[state.SessionID] = state.Clone()
	return nil
}
