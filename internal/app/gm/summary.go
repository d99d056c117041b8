package gm

import (
	"fmt"
	"strings"

	"vexal/internal/domain/player"
	"vexal/internal/domain/session"
	"vexal/internal/domain/stats"
)

// summarize renders the state block handed to the narrator.
func summarize(st session.State, eff stats.Effective) string {
	p := st.Player
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d, XP %d/%d\n", p.Level, p.XP, player.XPThreshold)
	fmt.Fprintf(&b, "HP %d/%d, Mana %d/%d, Stamina %d/%d\n",
		p.Pools.HP.Current, p.Pools.HP.Max,
		p.Pools.Mana.Current, p.Pools.Mana.Max,
		p.Pools.Stamina.Current, p.Pools.Stamina.Max)

	attrs := make([]string, 0, len(player.Attributes))
	for _, a := range player.Attributes {
		if v, ok := eff.Attributes[a]; ok {
			attrs = append(attrs, fmt.Sprintf("%s %d", a, v))
		}
	}
	fmt.Fprintf(&b, "Attributes: %s\n", strings.Join(attrs, ", "))

	if names := p.ConditionNames(); len(names) > 0 {
		conds := make([]string, 0, len(names))
		for _, n := range names {
			conds = append(conds, fmt.Sprintf("%s (%d turns)", n, p.Conditions[n].Remaining()))
		}
		fmt.Fprintf(&b, "Conditions: %s\n", strings.Join(conds, ", "))
	}
	if eff.MovementSpeed != 1 {
		fmt.Fprintf(&b, "Movement speed x%.2f\n", eff.MovementSpeed)
	}
	fmt.Fprintf(&b, "Main quest: %s", st.Lore.MainQuest)
	return b.String()
}
