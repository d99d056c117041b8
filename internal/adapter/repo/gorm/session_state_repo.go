package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"vexal/internal/adapter/repo/gorm/model"
	"vexal/internal/app/ports"
	"vexal/internal/domain/session"

	"gorm.io/gorm"
)

// SessionStateRepo stores each session as one JSONB document. Version and
// turn count are mirrored into columns for the optimistic update and for
// operators.
type SessionStateRepo struct {
	db *gorm.DB
}

func NewSessionStateRepo(db *gorm.DB) SessionStateRepo {
	return SessionStateRepo{db: db}
}

func (r SessionStateRepo) GetBySessionID(ctx context.Context, sessionID string) (session.State, error) {
	var m model.SessionState
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Where("session_id = ?", sessionID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session.State{}, ports.ErrNotFound
		}
		return session.State{}, err
	}

	return decodeSessionState(m), nil
}

// decodeSessionState restores a session from its row. The columns win over
// the document for id, version and turn count.
func decodeSessionState(m model.SessionState) session.State {
	var st session.State
	if err := json.Unmarshal([]byte(m.Document), &st); err != nil {
		// A corrupt document is replaced by defaults on the next Normalize.
		slog.Warn("session document unreadable", "session_id", m.SessionID, "error", err)
		st = session.State{}
	}
	st.SessionID = m.SessionID
	st.Version = m.Version
	st.TurnCount = int(m.TurnCount)
	return st
}

func (r SessionStateRepo) SaveWithVersion(ctx context.Context, state session.State, expectedVersion int64) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", state.SessionID, err)
	}
	db := getDBFromCtx(ctx, r.db).WithContext(ctx)
	if expectedVersion == 0 {
		m := model.SessionState{
			SessionID: state.SessionID,
			Document:  string(doc),
			TurnCount: int32(state.TurnCount),
			Version:   state.Version,
			UpdatedAt: state.UpdatedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			if isUniqueViolation(err) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"document":   string(doc),
		"turn_count": int32(state.TurnCount),
		"version":    state.Version,
		"updated_at": state.UpdatedAt,
	}
	res := db.Model(&model.SessionState{}).
		Where("session_id = ? AND version = ?", state.SessionID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
