package memory

import (
	"context"

	"vexal/internal/app/ports"
)

type TurnRepo struct {
	store *Store
}

func NewTurnRepo(store *Store) TurnRepo {
	return TurnRepo{store: store}
}

func (r TurnRepo) Append(ctx context.Context, turn ports.TurnRecord) error {
	defer r.store.lock(ctx)()
	r.store.turns[turn.SessionID] = append(r.store.turns[turn.SessionID], turn)
	return nil
}

// ListBySessionID returns the most recent limit turns, oldest first.
func (r TurnRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.TurnRecord, error) {
	defer r.store.lock(ctx)()
	turns := r.store.turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return append([]ports.TurnRecord(nil), turns...), nil
}
