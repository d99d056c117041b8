package gormrepo

import (
	"context"
	"slices"

	"vexal/internal/adapter/repo/gorm/model"
	"vexal/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnRepo struct {
	db *gorm.DB
}

func NewTurnRepo(db *gorm.DB) TurnRepo {
	return TurnRepo{db: db}
}

func (r TurnRepo) Append(ctx context.Context, turn ports.TurnRecord) error {
	row := model.SessionTurn{
		SessionID:  turn.SessionID,
		TurnNumber: int32(turn.TurnNumber),
		Command:    turn.Command,
		Mode:       turn.Mode,
		Rule:       turn.Rule,
		Response:   turn.Response,
		Narrative:  turn.Narrative,
		Provider:   turn.Provider,
		GameTime:   turn.GameTime,
		OccurredAt: turn.OccurredAt,
	}
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}

// ListBySessionID returns the most recent limit turns, oldest first.
func (r TurnRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.TurnRecord, error) {
	rows := []model.SessionTurn{}
	query := getDBFromCtx(ctx, r.db).WithContext(ctx).
		Where(&model.SessionTurn{SessionID: sessionID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "turn_number"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	out := make([]ports.TurnRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.TurnRecord{
			SessionID:  row.SessionID,
			TurnNumber: int(row.TurnNumber),
			Command:    row.Command,
			Mode:       row.Mode,
			Rule:       row.Rule,
			Response:   row.Response,
			Narrative:  row.Narrative,
			Provider:   row.Provider,
			GameTime:   row.GameTime,
			OccurredAt: row.OccurredAt,
		})
	}
	return out, nil
}
