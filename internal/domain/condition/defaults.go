package condition

import "vexal/internal/domain/player"

const (
	Exhausted     = "Exhausted"
	Fatigued      = "Fatigued"
	Wounded       = "Wounded"
	SprainedAnkle = "Sprained Ankle"
	Parched       = "Parched"
	DivineFavor   = "Divine Favor"
	Blessed       = "Blessed"
	Haste         = "Haste"
	VexalActive   = "Vexal Active"
)

func defaultConditions() []Condition {
	return []Condition{
		{
			Name: Exhausted, Kind: KindDebuff, Severity: 3, Color: "#ff4b4b",
			Description: "Severe fatigue reduces DEX and CON by 5",
			Effects: []Effect{
				AttrDelta(player.DEX, -5),
				AttrDelta(player.CON, -5),
				Scalar(EffectStaminaDrain, 2),
			},
		},
		{
			Name: Fatigued, Kind: KindDebuff, Severity: 2, Color: "#ff9800",
			Description: "Mild exhaustion reduces DEX by 3",
			Effects: []Effect{
				AttrDelta(player.DEX, -3),
				Scalar(EffectStaminaDrain, 1),
			},
		},
		{
			Name: Wounded, Kind: KindDebuff, Severity: 3, Color: "#d32f2f",
			Description: "Physical damage reduces max HP by 20",
			Effects:     []Effect{Scalar(EffectHPMaxPenalty, -20)},
		},
		{
			Name: SprainedAnkle, Kind: KindDebuff, Severity: 2, Color: "#ff9800",
			Description: "Movement penalty reduces DEX by 2",
			Effects: []Effect{
				AttrDelta(player.DEX, -2),
				Scalar(EffectMovementSpeed, 0.5),
			},
		},
		{
			Name: Parched, Kind: KindDebuff, Severity: 2, Color: "#f44336",
			Description: "Mana regeneration slowed by 50%",
			Effects:     []Effect{Scalar(EffectManaRegen, 0.5)},
		},
		{
			Name: DivineFavor, Kind: KindBuff, Severity: 1, Color: "#ffd700",
			Description: "Blessed by divine power, 25% mana cost reduction",
			Effects:     []Effect{Scalar(EffectSpellCostMultiplier, 0.75)},
		},
		{
			Name: Blessed, Kind: KindBuff, Severity: 1, Color: "#28a745",
			Description: "Holy protection increases WIS by 3",
			Effects:     []Effect{AttrDelta(player.WIS, 3)},
		},
		{
			Name: Haste, Kind: KindBuff, Severity: 1, Color: "#00bcd4",
			Description: "Supernatural speed increases DEX by 4",
			Effects: []Effect{
				AttrDelta(player.DEX, 4),
				Scalar(EffectMovementSpeed, 1.5),
			},
		},
		{
			Name: VexalActive, Kind: KindDebuff, Severity: 4, Color: "#e83e8c",
			Description: "Corrupting influence suppresses all attributes",
			Effects: []Effect{
				Scalar(EffectAllAttrs, -2),
				Scalar(EffectPoolPenalty, -20),
			},
		},
	}
}

// Default returns the built-in condition table.
func Default() *Registry {
	r, err := NewRegistry(defaultConditions()...)
	if err != nil {
		panic(err)
	}
	return r
}
