package replay

import "vexal/internal/app/ports"

type Request struct {
	SessionID    string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	SessionID  string             `json:"session_id"`
	Turns      []ports.TurnRecord `json:"turns"`
	LatestTurn int                `json:"latest_turn"`
	GameTime   string             `json:"game_time,omitempty"`
}
