package stateview

import (
	"sort"

	"vexal/internal/domain/condition"
	"vexal/internal/domain/player"
)

type ConditionView struct {
	Name        string             `json:"name"`
	Kind        condition.Kind     `json:"kind,omitempty"`
	Severity    int                `json:"severity"`
	Color       string             `json:"color,omitempty"`
	Description string             `json:"description,omitempty"`
	Effects     map[string]float64 `json:"effects,omitempty"`
	// TurnsLeft is omitted from catalog listings.
	TurnsLeft *int `json:"turns_left,omitempty"`
}

// ActiveConditions lists the player's conditions with registry metadata,
// most severe first and then by name. Names missing from the registry are
// still listed with zero severity.
func ActiveConditions(p player.State, reg *condition.Registry) []ConditionView {
	out := make([]ConditionView, 0, len(p.Conditions))
	for _, name := range p.ConditionNames() {
		v := ConditionView{Name: name}
		if c, ok := reg.Lookup(name); ok {
			v = fromCondition(c)
		}
		if ac := p.Conditions[name]; ac.Timer != nil {
			turns := *ac.Timer
			v.TurnsLeft = &turns
		}
		out = append(out, v)
	}
	sortViews(out)
	return out
}

// Catalog renders every registered condition.
func Catalog(reg *condition.Registry) []ConditionView {
	if reg == nil {
		return []ConditionView{}
	}
	all := reg.All()
	out := make([]ConditionView, 0, len(all))
	for _, c := range all {
		out = append(out, fromCondition(c))
	}
	return out
}

func fromCondition(c condition.Condition) ConditionView {
	v := ConditionView{
		Name:        c.Name,
		Kind:        c.Kind,
		Severity:    c.Severity,
		Color:       c.Color,
		Description: c.Description,
	}
	if len(c.Effects) > 0 {
		v.Effects = make(map[string]float64, len(c.Effects))
		for _, e := range c.Effects {
			v.Effects[e.RawKey()] = e.Value
		}
	}
	return v
}

func sortViews(views []ConditionView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Severity != views[j].Severity {
			return views[i].Severity > views[j].Severity
		}
		return views[i].Name < views[j].Name
	})
}
