package memory

import (
	"bytes"
	"context"

	"vexal/internal/app/ports"
)

type SessionCredentialRepo struct {
	store *Store
}

func NewSessionCredentialRepo(store *Store) SessionCredentialRepo {
	return SessionCredentialRepo{store: store}
}

func (r SessionCredentialRepo) Create(ctx context.Context, credential ports.SessionCredentialRecord) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.credentials[credential.SessionID]; ok {
		return ports.ErrConflict
	}
	credential.KeySalt = bytes.Clone(credential.KeySalt)
	credential.KeyHash = bytes.Clone(credential.KeyHash)
	r.store.credentials[credential.SessionID] = credential
	return nil
}

func (r SessionCredentialRepo) GetBySessionID(ctx context.Context, sessionID string) (ports.SessionCredentialRecord, error) {
	defer r.store.lock(ctx)()
	credential, ok := r.store.credentials[sessionID]
	if !ok {
		return ports.SessionCredentialRecord{}, ports.ErrNotFound
	}
	return credential, nil
}
