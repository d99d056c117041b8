package condition

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"vexal/internal/domain/player"
)

var (
	ErrUnknownEffectKey   = errors.New("unknown effect key")
	ErrFractionalEffect   = errors.New("additive effect must be a whole number")
	ErrDuplicateCondition = errors.New("duplicate condition")
	ErrInvalidCondition   = errors.New("invalid condition")
)

type Kind string

const (
	KindBuff   Kind = "buff"
	KindDebuff Kind = "debuff"
)

func (k Kind) IsValid() bool {
	return k == KindBuff || k == KindDebuff
}

type EffectKey string

const (
	EffectAttr                EffectKey = "attr"
	EffectAllAttrs            EffectKey = "all_attrs"
	EffectPoolPenalty         EffectKey = "pool_penalty"
	EffectHPMaxPenalty        EffectKey = "hp_max_penalty"
	EffectStaminaDrain        EffectKey = "stamina_drain"
	EffectSpellCostMultiplier EffectKey = "spell_cost_multiplier"
	EffectMovementSpeed       EffectKey = "movement_speed"
	EffectManaRegen           EffectKey = "mana_regen"
)

var scalarKeys = map[EffectKey]bool{
	EffectAllAttrs:            false,
	EffectPoolPenalty:         false,
	EffectHPMaxPenalty:        false,
	EffectStaminaDrain:        false,
	EffectSpellCostMultiplier: true,
	EffectMovementSpeed:       true,
	EffectManaRegen:           true,
}

// Multiplicative reports whether effects with this key combine by product.
func (k EffectKey) Multiplicative() bool {
	return scalarKeys[k]
}

// Effect is one modifier carried by a condition. Attr is set only for
// EffectAttr.
type Effect struct {
	Key   EffectKey
	Attr  player.Attribute
	Value float64
}

func AttrDelta(attr player.Attribute, delta int) Effect {
	return Effect{Key: EffectAttr, Attr: attr, Value: float64(delta)}
}

func Scalar(key EffectKey, value float64) Effect {
	return Effect{Key: key, Value: value}
}

// ParseEffect maps a raw table key (an attribute short name or a scalar
// effect key) to a typed effect. Additive effects take whole numbers only.
func ParseEffect(key string, value float64) (Effect, error) {
	if attr, ok := player.ParseAttribute(key); ok {
		if value != math.Trunc(value) {
			return Effect{}, fmt.Errorf("%w: %s=%v", ErrFractionalEffect, key, value)
		}
		return Effect{Key: EffectAttr, Attr: attr, Value: value}, nil
	}
	k := EffectKey(key)
	multiplicative, ok := scalarKeys[k]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %q", ErrUnknownEffectKey, key)
	}
	if !multiplicative && value != math.Trunc(value) {
		return Effect{}, fmt.Errorf("%w: %s=%v", ErrFractionalEffect, key, value)
	}
	return Effect{Key: k, Value: value}, nil
}

func (e Effect) RawKey() string {
	if e.Key == EffectAttr {
		return string(e.Attr)
	}
	return string(e.Key)
}

type Condition struct {
	Name        string
	Kind        Kind
	Severity    int
	Color       string
	Description string
	Effects     []Effect
}

type Registry struct {
	byName map[string]Condition
}

func NewRegistry(conditions ...Condition) (*Registry, error) {
	r := &Registry{byName: make(map[string]Condition, len(conditions))}
	for _, c := range conditions {
		if c.Name == "" || !c.Kind.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCondition, c.Name)
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCondition, c.Name)
		}
		c.Effects = append([]Effect(nil), c.Effects...)
		r.byName[c.Name] = c
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (Condition, bool) {
	if r == nil {
		return Condition{}, false
	}
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// All returns every condition ordered by severity (highest first), then name.
func (r *Registry) All() []Condition {
	out := make([]Condition, 0, len(r.byName))
	for _, c := range r.byName {
		out = append(out, c)
	}
	SortBySeverity(out)
	return out
}

func SortBySeverity(conds []Condition) {
	sort.Slice(conds, func(i, j int) bool {
		if conds[i].Severity != conds[j].Severity {
			return conds[i].Severity > conds[j].Severity
		}
		return conds[i].Name < conds[j].Name
	})
}
