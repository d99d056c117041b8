package status

import (
	"vexal/internal/app/stateview"
	"vexal/internal/domain/lore"
	"vexal/internal/domain/player"
	"vexal/internal/domain/stats"
)

type Request struct {
	SessionID string
}

type Response struct {
	SessionID  string                    `json:"session_id"`
	State      player.State              `json:"state"`
	Effective  stats.Effective           `json:"effective"`
	Conditions []stateview.ConditionView `json:"conditions"`
	GameTime   string                    `json:"game_time"`
	TurnCount  int                       `json:"turn_count"`
	Flags      map[string]bool           `json:"flags"`
	Lore       lore.Book                 `json:"lore"`
	Version    int64                     `json:"version"`
}

type CatalogResponse struct {
	Conditions []stateview.ConditionView `json:"conditions"`
}
