package status

import (
	"context"
	"errors"
	"strings"

	"vexal/internal/app/ports"
	"vexal/internal/app/stateview"
	"vexal/internal/domain/condition"
	"vexal/internal/domain/gameclock"
	"vexal/internal/domain/stats"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	StateRepo ports.SessionStateRepository
	Registry  *condition.Registry
	Resolver  *stats.Resolver
	Clock     gameclock.Config
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" || u.StateRepo == nil {
		return Response{}, ErrInvalidRequest
	}
	st, err := u.StateRepo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return Response{}, err
	}
	st.Normalize(u.Clock)

	var eff stats.Effective
	if u.Resolver != nil {
		eff = u.Resolver.Resolve(st.SessionID, st.Player)
	} else {
		eff = stats.ForState(st.Player, u.Registry)
	}
	return Response{
		SessionID:  st.SessionID,
		State:      st.Player,
		Effective:  eff,
		Conditions: stateview.ActiveConditions(st.Player, u.Registry),
		GameTime:   st.Clock.Format(),
		TurnCount:  st.TurnCount,
		Flags:      st.Flags,
		Lore:       st.Lore,
		Version:    st.Version,
	}, nil
}

type CatalogUseCase struct {
	Registry *condition.Registry
}

func (u CatalogUseCase) Execute(context.Context) (CatalogResponse, error) {
	return CatalogResponse{Conditions: stateview.Catalog(u.Registry)}, nil
}
