package stats

import (
	"testing"

	"vexal/internal/domain/condition"
	"vexal/internal/domain/player"
)

func baseAttrs() map[player.Attribute]int {
	return map[player.Attribute]int{
		player.STR: 16, player.DEX: 14, player.CON: 15,
		player.INT: 10, player.WIS: 12, player.CHA: 10,
	}
}

func TestComputeVexalActiveReducesEveryAttribute(t *testing.T) {
	base := baseAttrs()
	got := Compute(base, []string{condition.VexalActive}, nil, condition.Default())

	for attr, v := range base {
		if got.Attributes[attr] != v-2 {
			t.Fatalf("%s: expected %d, got %d", attr, v-2, got.Attributes[attr])
		}
	}
	if got.PoolPenalty != -20 {
		t.Fatalf("expected pool penalty -20, got %d", got.PoolPenalty)
	}
	if base[player.STR] != 16 {
		t.Fatalf("base attributes were mutated")
	}
}

func TestComputeStacksAllAttrsWithIndividualDeltas(t *testing.T) {
	got := Compute(baseAttrs(), []string{condition.VexalActive, condition.Exhausted}, nil, condition.Default())
	if got.Attributes[player.DEX] != 14-2-5 {
		t.Fatalf("expected DEX=7, got %d", got.Attributes[player.DEX])
	}
	if got.StaminaDrain != 2 {
		t.Fatalf("expected stamina drain 2, got %d", got.StaminaDrain)
	}
}

func TestComputeMultipliersCombineByProduct(t *testing.T) {
	got := Compute(baseAttrs(), []string{condition.Haste, condition.SprainedAnkle, condition.Parched, condition.DivineFavor}, nil, condition.Default())
	if got.MovementSpeed != 0.75 {
		t.Fatalf("expected movement 0.75, got %v", got.MovementSpeed)
	}
	if got.ManaRegen != 0.5 {
		t.Fatalf("expected mana regen 0.5, got %v", got.ManaRegen)
	}
	if got.SpellCostMultiplier != 0.75 {
		t.Fatalf("expected spell cost 0.75, got %v", got.SpellCostMultiplier)
	}
	if got.Attributes[player.DEX] != 14+4-2 {
		t.Fatalf("expected DEX=16, got %d", got.Attributes[player.DEX])
	}
}

func TestComputeDefaultsAndUnknownConditions(t *testing.T) {
	got := Compute(baseAttrs(), []string{"Petrified"}, nil, condition.Default())
	if got.SpellCostMultiplier != 1 || got.MovementSpeed != 1 || got.ManaRegen != 1 {
		t.Fatalf("expected neutral multipliers, got %+v", got)
	}
	if got.PoolPenalty != 0 || got.HPMaxPenalty != 0 || got.StaminaDrain != 0 {
		t.Fatalf("expected zero additive modifiers, got %+v", got)
	}
}

func TestComputeIgnoresAttributesMissingFromBase(t *testing.T) {
	base := map[player.Attribute]int{player.STR: 10}
	got := Compute(base, []string{condition.Blessed}, nil, condition.Default())
	if _, ok := got.Attributes[player.WIS]; ok {
		t.Fatalf("expected WIS to stay absent")
	}
	if got.Attributes[player.STR] != 10 {
		t.Fatalf("expected STR untouched, got %d", got.Attributes[player.STR])
	}
}

func TestComputeArmorMaterialPenalty(t *testing.T) {
	equipment := map[player.Slot]*player.Item{
		player.SlotTorso:    {Name: "Breastplate", Type: player.ItemArmor, Material: "Plate"},
		player.SlotHead:     {Name: "Coif", Type: player.ItemArmor, Material: "Chainmail"},
		player.SlotHands:    {Name: "Gloves", Type: player.ItemArmor, Material: "Moonsilk"},
		player.SlotMainHand: {Name: "Mace", Type: player.ItemArmor, Material: "Plate"},
		player.SlotOffHand:  {Name: "Dagger", Type: player.ItemWeapon, Material: "Steel"},
	}
	got := Compute(baseAttrs(), nil, equipment, condition.Default())
	if got.Attributes[player.DEX] != 14-3-2 {
		t.Fatalf("expected DEX=9, got %d", got.Attributes[player.DEX])
	}
}

func TestResolverCachesUntilInvalidated(t *testing.T) {
	r := NewResolver(condition.Default())
	s := player.NewState()

	first := r.Resolve("s1", s)
	_ = r.Resolve("s1", s)
	hits, misses := r.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	r.Invalidate("s1")
	second := r.Resolve("s1", s)
	hits, misses = r.Stats()
	if hits != 1 || misses != 2 {
		t.Fatalf("expected miss after invalidate, got %d/%d", hits, misses)
	}
	if first.Attributes[player.DEX] != second.Attributes[player.DEX] {
		t.Fatalf("expected deterministic result")
	}
}

func TestResolverRecomputesWhenFingerprintChanges(t *testing.T) {
	r := NewResolver(condition.Default())
	s := player.NewState()
	before := r.Resolve("s1", s)

	s.SetCondition(condition.Blessed, 3)
	after := r.Resolve("s1", s)
	if after.Attributes[player.WIS] != before.Attributes[player.WIS]+3 {
		t.Fatalf("expected stale entry to be bypassed, got WIS %d", after.Attributes[player.WIS])
	}
}

func TestResolverReturnsCopies(t *testing.T) {
	r := NewResolver(condition.Default())
	s := player.NewState()
	got := r.Resolve("s1", s)
	got.Attributes[player.STR] = 0

	again := r.Resolve("s1", s)
	if again.Attributes[player.STR] != 16 {
		t.Fatalf("cache entry was mutated through returned value")
	}
}

func TestFingerprintIgnoresTimers(t *testing.T) {
	a := player.NewState()
	b := player.NewState()
	a.SetCondition(condition.Wounded, 3)
	b.SetCondition(condition.Wounded, 1)
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("expected timers to be outside the fingerprint")
	}
}
