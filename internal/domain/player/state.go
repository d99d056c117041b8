package player

import (
	"maps"
	"sort"
)

const (
	XPThreshold = 100

	levelUpHP      = 10
	levelUpMana    = 5
	levelUpStamina = 5
)

type State struct {
	Attributes map[Attribute]int          `json:"attributes"`
	Pools      Pools                      `json:"pools"`
	XP         int                        `json:"xp"`
	Level      int                        `json:"level"`
	Skills     map[string]map[string]int  `json:"skills"`
	SkillsExp  map[string]int             `json:"skills_exp"`
	Conditions map[string]ActiveCondition `json:"conditions"`
	Equipment  map[Slot]*Item             `json:"equipment"`
}

func NewState() State {
	return State{
		Attributes: map[Attribute]int{
			STR: 16,
			DEX: 14,
			CON: 15,
			INT: 10,
			WIS: 12,
			CHA: 10,
		},
		Pools: Pools{
			HP:      Pool{Current: 100, Max: 100},
			Mana:    Pool{Current: 50, Max: 50},
			Stamina: Pool{Current: 50, Max: 50},
		},
		Level: 1,
		Skills: map[string]map[string]int{
			"Combat": {"Attack": 1, "Defense": 1},
			"Arcane": {"Spellcraft": 1},
		},
		SkillsExp:  map[string]int{},
		Conditions: map[string]ActiveCondition{},
		Equipment: map[Slot]*Item{
			SlotTorso:    {Name: "Leather Jerkin", Type: ItemArmor, Material: "Leather"},
			SlotMainHand: {Name: "Short Sword", Type: ItemWeapon, Material: "Steel"},
		},
	}
}

// Normalize repairs a decoded state so the invariants hold: maps are
// non-nil, level is at least 1 and every pool sits in [0, max].
func (s *State) Normalize() {
	if s.Attributes == nil {
		s.Attributes = map[Attribute]int{}
	}
	if s.Skills == nil {
		s.Skills = map[string]map[string]int{}
	}
	if s.SkillsExp == nil {
		s.SkillsExp = map[string]int{}
	}
	if s.Conditions == nil {
		s.Conditions = map[string]ActiveCondition{}
	}
	if s.Equipment == nil {
		s.Equipment = map[Slot]*Item{}
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	s.ClampPools()
}

func (s *State) ClampPools() {
	s.Pools.HP.clamp()
	s.Pools.Mana.clamp()
	s.Pools.Stamina.clamp()
}

func (s State) Clone() State {
	out := s
	out.Attributes = maps.Clone(s.Attributes)
	out.SkillsExp = maps.Clone(s.SkillsExp)
	out.Conditions = maps.Clone(s.Conditions)
	if s.Skills != nil {
		out.Skills = make(map[string]map[string]int, len(s.Skills))
		for cat, skills := range s.Skills {
			out.Skills[cat] = maps.Clone(skills)
		}
	}
	if s.Equipment != nil {
		out.Equipment = make(map[Slot]*Item, len(s.Equipment))
		for slot, item := range s.Equipment {
			if item == nil {
				out.Equipment[slot] = nil
				continue
			}
			cp := *item
			out.Equipment[slot] = &cp
		}
	}
	return out
}

// GainXP adds xp and on crossing the threshold keeps the remainder.
func (s *State) GainXP(xp int) bool {
	if xp <= 0 {
		return false
	}
	s.XP += xp
	if s.XP < XPThreshold {
		return false
	}
	s.XP -= XPThreshold
	s.levelUp()
	return true
}

// GainExperience is the skill leveling path: every known skill earns a tenth
// of the award, and a level-up resets XP to zero.
func (s *State) GainExperience(xp int) bool {
	if xp <= 0 {
		return false
	}
	if s.SkillsExp == nil {
		s.SkillsExp = map[string]int{}
	}
	for _, name := range s.SkillNames() {
		s.SkillsExp[name] += xp / 10
	}
	s.XP += xp
	if s.XP < XPThreshold {
		return false
	}
	s.XP = 0
	s.levelUp()
	return true
}

func (s *State) levelUp() {
	s.Level++
	s.Pools.HP.Max += levelUpHP
	s.Pools.Mana.Max += levelUpMana
	s.Pools.Stamina.Max += levelUpStamina
}

func (s State) SkillNames() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, skills := range s.Skills {
		for name := range skills {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
