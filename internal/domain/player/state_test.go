package player

import (
	"encoding/json"
	"testing"
)

func TestPoolAddClampsToRange(t *testing.T) {
	p := Pool{Current: 10, Max: 100}
	p.Add(-15)
	if p.Current != 0 {
		t.Fatalf("expected hp clamped to 0, got %d", p.Current)
	}
	p.Add(250)
	if p.Current != 100 {
		t.Fatalf("expected hp clamped to max, got %d", p.Current)
	}
}

func TestNormalizeRepairsDecodedState(t *testing.T) {
	s := State{Pools: Pools{HP: Pool{Current: 140, Max: 100}, Mana: Pool{Current: -3, Max: 50}}}
	s.Normalize()
	if s.Level != 1 {
		t.Fatalf("expected level 1, got %d", s.Level)
	}
	if s.Pools.HP.Current != 100 || s.Pools.Mana.Current != 0 {
		t.Fatalf("unexpected pools after normalize: %+v", s.Pools)
	}
	if s.Conditions == nil || s.Equipment == nil || s.SkillsExp == nil {
		t.Fatalf("expected maps initialised")
	}
}

func TestGainXPKeepsRemainder(t *testing.T) {
	s := NewState()
	s.XP = 60
	if leveled := s.GainXP(50); !leveled {
		t.Fatalf("expected level up")
	}
	if s.XP != 10 {
		t.Fatalf("expected xp=10, got %d", s.XP)
	}
	if s.Level != 2 {
		t.Fatalf("expected level 2, got %d", s.Level)
	}
	if s.Pools.HP.Max != 110 || s.Pools.Mana.Max != 55 || s.Pools.Stamina.Max != 55 {
		t.Fatalf("unexpected max pools: %+v", s.Pools)
	}
}

func TestGainExperienceResetsToZeroAndFeedsSkills(t *testing.T) {
	s := NewState()
	s.XP = 95
	if leveled := s.GainExperience(10); !leveled {
		t.Fatalf("expected level up")
	}
	if s.XP != 0 {
		t.Fatalf("expected xp reset to 0, got %d", s.XP)
	}
	for _, name := range []string{"Attack", "Defense", "Spellcraft"} {
		if got := s.SkillsExp[name]; got != 1 {
			t.Fatalf("expected %s exp=1, got %d", name, got)
		}
	}
}

func TestSetConditionRefreshesInsteadOfStacking(t *testing.T) {
	s := NewState()
	s.SetCondition("Blessed", 1)
	s.SetCondition("Blessed", 3)
	if len(s.Conditions) != 1 {
		t.Fatalf("expected one condition, got %d", len(s.Conditions))
	}
	if got := s.Conditions["Blessed"].Remaining(); got != 3 {
		t.Fatalf("expected refreshed timer 3, got %d", got)
	}
	if added := s.AddConditionIfAbsent("Blessed", 5); added {
		t.Fatalf("expected existing condition to be kept")
	}
}

func TestTickConditionsSequence(t *testing.T) {
	s := NewState()
	s.SetCondition("Wounded", 3)

	want := []int{2, 1}
	for i, w := range want {
		s.TickConditions()
		if got := s.Conditions["Wounded"].Remaining(); got != w {
			t.Fatalf("tick %d: expected timer %d, got %d", i+1, w, got)
		}
	}
	res := s.TickConditions()
	if s.HasCondition("Wounded") {
		t.Fatalf("expected Wounded removed on third tick")
	}
	if len(res.Expired) != 1 || res.Expired[0] != "Wounded" {
		t.Fatalf("unexpected expired list: %v", res.Expired)
	}
}

func TestTickConditionsDropsMalformedAndAbsentTimers(t *testing.T) {
	var s State
	doc := `{"conditions":{"Haste":{"timer":"soon"},"Parched":{},"Blessed":{"timer":2},"Fatigued":7}}`
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Normalize()

	res := s.TickConditions()
	if !s.HasCondition("Blessed") || s.Conditions["Blessed"].Remaining() != 1 {
		t.Fatalf("expected Blessed to tick to 1, got %+v", s.Conditions)
	}
	if len(s.Conditions) != 1 {
		t.Fatalf("expected only Blessed left, got %v", s.ConditionNames())
	}
	if len(res.Malformed) != 2 {
		t.Fatalf("expected 2 malformed entries, got %v", res.Malformed)
	}
	if len(res.Expired) != 1 || res.Expired[0] != "Parched" {
		t.Fatalf("expected Parched expired, got %v", res.Expired)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewState()
	cp := s.Clone()
	cp.Attributes[STR] = 1
	cp.Equipment[SlotTorso].Material = "Plate"
	cp.Skills["Combat"]["Attack"] = 9
	if s.Attributes[STR] != 16 {
		t.Fatalf("clone shares attributes")
	}
	if s.Equipment[SlotTorso].Material != "Leather" {
		t.Fatalf("clone shares equipment")
	}
	if s.Skills["Combat"]["Attack"] != 1 {
		t.Fatalf("clone shares skills")
	}
}

func TestMaterialDexPenaltyUnknownIsZero(t *testing.T) {
	if got := MaterialDexPenalty("Mithril"); got != 0 {
		t.Fatalf("expected 0 for unknown material, got %d", got)
	}
	if got := MaterialDexPenalty("Plate"); got != -3 {
		t.Fatalf("expected -3 for plate, got %d", got)
	}
}
