package session

import (
	"time"

	"vexal/internal/domain/gameclock"
	"vexal/internal/domain/lore"
	"vexal/internal/domain/player"
)

const FlagPuzzleSolved = "puzzle_solved"

// State is everything the game master knows about one session. It is loaded,
// mutated by a single command, and saved back as one document.
type State struct {
	SessionID string          `json:"session_id"`
	Player    player.State    `json:"player"`
	Clock     gameclock.Clock `json:"clock"`
	TurnCount int             `json:"turn_count"`
	Lore      lore.Book       `json:"lore"`
	Flags     map[string]bool `json:"flags"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// New seeds a session with default player stats, the configured clock epoch
// and a copy of the seed lore.
func New(sessionID string, cfg gameclock.Config, seed lore.Book, now time.Time) State {
	return State{
		SessionID: sessionID,
		Player:    player.NewState(),
		Clock:     gameclock.NewClock(cfg),
		Lore:      seed.Clone(),
		Flags:     map[string]bool{},
		Version:   1,
		UpdatedAt: now,
	}
}

// Normalize repairs a decoded document so a partially written or older row
// never breaks command processing.
func (s *State) Normalize(cfg gameclock.Config) {
	if len(s.Player.Attributes) == 0 && s.Player.Pools.HP.Max == 0 {
		s.Player = player.NewState()
	}
	s.Player.Normalize()
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if s.Clock.Current.IsZero() {
		s.Clock = gameclock.NewClock(cfg)
	}
	if s.Clock.HoursPerTurn <= 0 {
		s.Clock.HoursPerTurn = gameclock.NewClock(cfg).HoursPerTurn
	}
	if s.Lore.MainQuest == "" {
		s.Lore.MainQuest = lore.DefaultMainQuest
	}
}

func (s State) Clone() State {
	out := s
	out.Player = s.Player.Clone()
	out.Lore = s.Lore.Clone()
	out.Flags = make(map[string]bool, len(s.Flags))
	for k, v := range s.Flags {
		out.Flags[k] = v
	}
	return out
}

func (s State) Flag(name string) bool {
	return s.Flags[name]
}

func (s *State) SetFlag(name string) {
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	s.Flags[name] = true
}
