package replay

import (
	"context"
	"errors"
	"strings"

	"vexal/internal/app/ports"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidRequest = errors.New("invalid replay request")

type UseCase struct {
	Turns ports.TurnRepository
}

// Execute returns the session's turn log oldest first. The time window is
// applied after the repository limit.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" || u.Turns == nil {
		return Response{}, ErrInvalidRequest
	}
	if req.OccurredFrom > 0 && req.OccurredTo > 0 && req.OccurredFrom > req.OccurredTo {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	turns, err := u.Turns.ListBySessionID(ctx, req.SessionID, limit)
	if err != nil {
		return Response{}, err
	}
	turns = filterByTimeWindow(turns, req.OccurredFrom, req.OccurredTo)

	resp := Response{SessionID: req.SessionID, Turns: turns}
	if n := len(turns); n > 0 {
		resp.LatestTurn = turns[n-1].TurnNumber
		resp.GameTime = turns[n-1].GameTime
	}
	return resp, nil
}

func filterByTimeWindow(turns []ports.TurnRecord, from, to int64) []ports.TurnRecord {
	if from <= 0 && to <= 0 {
		return turns
	}
	out := make([]ports.TurnRecord, 0, len(turns))
	for _, turn := range turns {
		ts := turn.OccurredAt.Unix()
		if from > 0 && ts < from {
			continue
		}
		if to > 0 && ts > to {
			continue
		}
		out = append(out, turn)
	}
	return out
}
