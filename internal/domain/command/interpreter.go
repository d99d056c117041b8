package command

import (
	"fmt"
	"log/slog"
	"strings"

	"vexal/internal/domain/condition"
	"vexal/internal/domain/player"
)

const (
	GoblinDamage   = 15
	SpellManaCost  = 10
	ConditionTurns = 3
	GainXPAmount   = 50
	ActionXP       = 10

	RuleGoblinAttack = "goblin_attack"
	RuleCastSpell    = "cast_spell"
	RuleGainXP       = "gain_xp"
	RuleNone         = "none"

	NothingHappened = "Nothing happened."
	PuzzleSolved    = "Puzzle solved! You found a hidden passage."
)

// Rule is one (predicate, handler) pair. Match receives the lower-cased
// command; Apply mutates the state and returns the narrative line.
type Rule struct {
	Name  string
	Match func(cmd string) bool
	Apply func(s *player.State) string
}

func Contains(phrase string) func(string) bool {
	phrase = strings.ToLower(phrase)
	return func(cmd string) bool {
		return strings.Contains(cmd, phrase)
	}
}

type Outcome struct {
	Rule         string   `json:"rule"`
	Narrative    string   `json:"narrative"`
	XPAwarded    int      `json:"xp_awarded,omitempty"`
	LeveledUp    bool     `json:"leveled_up,omitempty"`
	PuzzleSolved bool     `json:"puzzle_solved,omitempty"`
	Expired      []string `json:"expired,omitempty"`
	Malformed    []string `json:"malformed,omitempty"`
}

type Interpreter struct {
	Rules []Rule
}

func Default() Interpreter {
	return Interpreter{Rules: DefaultRules()}
}

func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleGoblinAttack, Match: Contains("goblin attacks"), Apply: goblinAttack},
		{Name: RuleCastSpell, Match: Contains("cast spell"), Apply: castSpell},
		{Name: RuleGainXP, Match: Contains("gain xp"), Apply: gainXP},
	}
}

// Process runs the first matching rule, the separate use/cast XP award, the
// puzzle check and the condition timer tick, in that order. A panicking rule
// leaves the state untouched and yields the generic narrative.
func (in Interpreter) Process(text string, s *player.State) (out Outcome) {
	before := s.Clone()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command rule panicked", "command", text, "panic", r)
			*s = before
			out = Outcome{Rule: RuleNone, Narrative: NothingHappened}
		}
	}()

	s.Normalize()
	cmd := strings.ToLower(text)
	startLevel := s.Level

	out.Rule = RuleNone
	out.Narrative = NothingHappened
	for _, r := range in.Rules {
		if r.Match == nil || r.Apply == nil || !r.Match(cmd) {
			continue
		}
		out.Rule = r.Name
		out.Narrative = r.Apply(s)
		break
	}

	if strings.Contains(cmd, "use") || strings.Contains(cmd, "cast") {
		s.GainExperience(ActionXP)
		out.XPAwarded = ActionXP
	}
	if strings.Contains(cmd, "solve") {
		out.PuzzleSolved = true
		out.Narrative += " " + PuzzleSolved
	}

	tick := s.TickConditions()
	out.Expired = tick.Expired
	out.Malformed = tick.Malformed
	for _, name := range tick.Malformed {
		slog.Warn("dropped condition with malformed timer", "condition", name)
	}

	s.ClampPools()
	out.LeveledUp = s.Level > startLevel
	return out
}

func goblinAttack(s *player.State) string {
	s.Pools.HP.Add(-GoblinDamage)
	s.AddConditionIfAbsent(condition.Wounded, ConditionTurns)
	return fmt.Sprintf("The goblin hit you for %d damage! HP: %d/%d.", GoblinDamage, s.Pools.HP.Current, s.Pools.HP.Max)
}

func castSpell(s *player.State) string {
	if s.Pools.Mana.Current < SpellManaCost {
		return "You don't have enough Mana!"
	}
	s.Pools.Mana.Add(-SpellManaCost)
	s.SetCondition(condition.Blessed, ConditionTurns)
	return fmt.Sprintf("You cast a spell! Mana: %d/%d.", s.Pools.Mana.Current, s.Pools.Mana.Max)
}

func gainXP(s *player.State) string {
	if s.GainXP(GainXPAmount) {
		return fmt.Sprintf("Level Up! You are now Level %d.", s.Level)
	}
	return fmt.Sprintf("You gained %d XP! Current XP: %d/%d.", GainXPAmount, s.XP, player.XPThreshold)
}
