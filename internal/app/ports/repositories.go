package ports

import (
	"context"
	"time"

	"vexal/internal/domain/session"
)

type SessionStateRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (session.State, error)
	SaveWithVersion(ctx context.Context, state session.State, expectedVersion int64) error
}

type TurnRecord struct {
	SessionID  string    `json:"session_id"`
	TurnNumber int       `json:"turn_number"`
	Command    string    `json:"command"`
	Mode       string    `json:"mode"`
	Rule       string    `json:"rule"`
	Response   string    `json:"response"`
	Narrative  string    `json:"narrative,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	GameTime   string    `json:"game_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

type TurnRepository interface {
	Append(ctx context.Context, turn TurnRecord) error
	// ListBySessionID returns the most recent turns, oldest first.
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]TurnRecord, error)
}

type SessionCredentialRecord struct {
	SessionID string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type SessionCredentialRepository interface {
	Create(ctx context.Context, credential SessionCredentialRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (SessionCredentialRecord, error)
}
