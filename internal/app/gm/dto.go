package gm

import (
	"vexal/internal/domain/gameclock"
	"vexal/internal/domain/lore"
	"vexal/internal/domain/player"
)

type Request struct {
	SessionID string
	Prompt    string
	Mode      string
	Time      *gameclock.TimeSpec
}

type Response struct {
	Response     string          `json:"response"`
	Narrative    string          `json:"narrative"`
	Rule         string          `json:"rule"`
	Mode         string          `json:"mode"`
	Provider     string          `json:"provider"`
	GameTime     string          `json:"game_time"`
	TurnCount    int             `json:"turn_count"`
	XPAwarded    int             `json:"xp_awarded,omitempty"`
	LeveledUp    bool            `json:"leveled_up,omitempty"`
	Expired      []string        `json:"expired_conditions,omitempty"`
	ReplyEffects []string        `json:"reply_effects,omitempty"`
	Lore         lore.Extraction `json:"lore_extracted"`
	Persisted    bool            `json:"persisted"`
	PersistError string          `json:"persist_error,omitempty"`
	State        player.State    `json:"state"`
}
