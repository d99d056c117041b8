package stats

import (
	"maps"

	"vexal/internal/domain/condition"
	"vexal/internal/domain/player"
)

type Effective struct {
	Attributes          map[player.Attribute]int `json:"attributes"`
	PoolPenalty         int                      `json:"pool_penalty"`
	HPMaxPenalty        int                      `json:"hp_max_penalty"`
	StaminaDrain        int                      `json:"stamina_drain"`
	SpellCostMultiplier float64                  `json:"spell_cost_multiplier"`
	MovementSpeed       float64                  `json:"movement_speed"`
	ManaRegen           float64                  `json:"mana_regen"`
}

func (e Effective) Clone() Effective {
	out := e
	out.Attributes = maps.Clone(e.Attributes)
	return out
}

// Compute resolves effective attributes and derived modifiers. It never
// mutates its inputs. Unknown condition names and attribute deltas for
// attributes missing from base are skipped.
func Compute(base map[player.Attribute]int, active []string, equipment map[player.Slot]*player.Item, reg *condition.Registry) Effective {
	out := Effective{
		Attributes:          maps.Clone(base),
		SpellCostMultiplier: 1.0,
		MovementSpeed:       1.0,
		ManaRegen:           1.0,
	}
	if out.Attributes == nil {
		out.Attributes = map[player.Attribute]int{}
	}

	for _, name := range active {
		c, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		for _, e := range c.Effects {
			out.apply(e)
		}
	}

	for _, slot := range player.ArmorSlots {
		item := equipment[slot]
		if item == nil || item.Type != player.ItemArmor {
			continue
		}
		if _, ok := out.Attributes[player.DEX]; ok {
			out.Attributes[player.DEX] += player.MaterialDexPenalty(item.Material)
		}
	}
	return out
}

func (out *Effective) apply(e condition.Effect) {
	switch e.Key {
	case condition.EffectAttr:
		if _, ok := out.Attributes[e.Attr]; ok {
			out.Attributes[e.Attr] += int(e.Value)
		}
	case condition.EffectAllAttrs:
		for attr := range out.Attributes {
			out.Attributes[attr] += int(e.Value)
		}
	case condition.EffectPoolPenalty:
		out.PoolPenalty += int(e.Value)
	case condition.EffectHPMaxPenalty:
		out.HPMaxPenalty += int(e.Value)
	case condition.EffectStaminaDrain:
		out.StaminaDrain += int(e.Value)
	case condition.EffectSpellCostMultiplier:
		out.SpellCostMultiplier *= e.Value
	case condition.EffectMovementSpeed:
		out.MovementSpeed *= e.Value
	case condition.EffectManaRegen:
		out.ManaRegen *= e.Value
	}
}

// ForState is Compute over a player's current snapshot.
func ForState(s player.State, reg *condition.Registry) Effective {
	return Compute(s.Attributes, s.ConditionNames(), s.Equipment, reg)
}
