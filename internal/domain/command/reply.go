package command

import (
	"strings"

	"vexal/internal/domain/player"
)

// ReplyEffect adjusts pools when a generated narrative describes a
// consequence. Unlike command rules every matching effect applies.
type ReplyEffect struct {
	Phrase  string `yaml:"phrase"`
	HP      int    `yaml:"hp"`
	Mana    int    `yaml:"mana"`
	Stamina int    `yaml:"stamina"`
}

func DefaultReplyEffects() []ReplyEffect {
	return []ReplyEffect{
		{Phrase: "you are attacked", HP: -10},
		{Phrase: "you cast", Mana: -5},
		{Phrase: "you attack", Stamina: -5},
	}
}

func ApplyReplyEffects(narrative string, effects []ReplyEffect, s *player.State) []string {
	text := strings.ToLower(narrative)
	var applied []string
	for _, e := range effects {
		if e.Phrase == "" || !strings.Contains(text, strings.ToLower(e.Phrase)) {
			continue
		}
		s.Pools.HP.Add(e.HP)
		s.Pools.Mana.Add(e.Mana)
		s.Pools.Stamina.Add(e.Stamina)
		applied = append(applied, e.Phrase)
	}
	s.ClampPools()
	return applied
}
