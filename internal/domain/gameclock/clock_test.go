package gameclock

import (
	"errors"
	"testing"
	"time"
)

func TestNewClockDefaults(t *testing.T) {
	c := NewClock(Config{})
	if got, want := c.Format(), "Year 1000-01-01 08:00"; got != want {
		t.Fatalf("format mismatch: got=%q want=%q", got, want)
	}
	if c.HoursPerTurn != 6 {
		t.Fatalf("expected 6 hours per turn, got %d", c.HoursPerTurn)
	}
}

func TestAdvanceDefaultsToOneTurn(t *testing.T) {
	c := NewClock(Config{})
	if got, want := c.Advance(TimeSpec{}, Config{}), "Year 1000-01-01 14:00"; got != want {
		t.Fatalf("advance mismatch: got=%q want=%q", got, want)
	}
}

func TestAdvanceTravelUsesSessionHoursPerTurn(t *testing.T) {
	c := NewClock(Config{})
	c.HoursPerTurn = 4
	if got, want := c.Advance(TimeSpec{Scale: ScaleTravel}, Config{}), "Year 1000-01-01 12:00"; got != want {
		t.Fatalf("advance mismatch: got=%q want=%q", got, want)
	}
}

func TestAdvanceCombatDefaultsToSixSeconds(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current
	c.Advance(TimeSpec{Scale: ScaleCombat}, Config{})
	if got := c.Current.Sub(start); got != 6*time.Second {
		t.Fatalf("expected 6s, got %s", got)
	}
	if got, want := c.Format(), "Year 1000-01-01 08:00"; got != want {
		t.Fatalf("display should truncate to minute: got=%q want=%q", got, want)
	}
}

func TestAdvanceCombatUsesConfiguredSeconds(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current
	c.Advance(TimeSpec{Scale: ScaleCombat}, Config{CombatSecondsPerTurn: 12})
	if got := c.Current.Sub(start); got != 12*time.Second {
		t.Fatalf("expected 12s, got %s", got)
	}
	c.Advance(TimeSpec{Scale: ScaleCombat, SecondsPerTurn: 3}, Config{CombatSecondsPerTurn: 12})
	if got := c.Current.Sub(start); got != 15*time.Second {
		t.Fatalf("expected 15s total, got %s", got)
	}
}

func TestAdvanceSecondsWinOverHours(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current
	c.Advance(TimeSpec{Seconds: 90, Hours: 5}, Config{})
	if got := c.Current.Sub(start); got != 90*time.Second {
		t.Fatalf("expected only seconds applied, got %s", got)
	}
}

func TestAdvanceExplicitHours(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current
	c.Advance(TimeSpec{Hours: 30}, Config{})
	if got := c.Current.Sub(start); got != 30*time.Hour {
		t.Fatalf("expected 30h, got %s", got)
	}
}

func TestAdvanceHoursPerTurnUpdatesSession(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current
	c.Advance(TimeSpec{HoursPerTurn: 2}, Config{})
	if c.HoursPerTurn != 2 {
		t.Fatalf("expected hours per turn updated to 2, got %d", c.HoursPerTurn)
	}
	if got := c.Current.Sub(start); got != 2*time.Hour {
		t.Fatalf("expected one 2h turn, got %s", got)
	}
}

func TestAdvanceHugeHoursCappedAndForward(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current

	c.Advance(TimeSpec{Hours: 3000000}, DefaultConfig())

	if !c.Current.After(start) {
		t.Fatalf("clock moved backwards: start=%v got=%v", start, c.Current)
	}
	if got, want := c.Current.Sub(start), time.Duration(MaxAdvanceHours)*time.Hour; got != want {
		t.Fatalf("advance not capped: got=%v want=%v", got, want)
	}
}

func TestAdvanceHugeSecondsCapped(t *testing.T) {
	c := NewClock(Config{})
	start := c.Current

	c.Advance(TimeSpec{Seconds: 1 << 62, Scale: ScaleCombat}, DefaultConfig())

	if got, want := c.Current.Sub(start), time.Duration(MaxAdvanceSeconds)*time.Second; got != want {
		t.Fatalf("advance not capped: got=%v want=%v", got, want)
	}
}

func TestAdvanceNegativeValuesCountAsNotGiven(t *testing.T) {
	c := NewClock(Config{})

	got := c.Advance(TimeSpec{Seconds: -86400, Hours: -5}, DefaultConfig())

	if want := "Year 1000-01-01 14:00"; got != want {
		t.Fatalf("expected one default turn: got=%q want=%q", got, want)
	}
}

func TestAdvanceHugeHoursPerTurnIgnored(t *testing.T) {
	c := NewClock(Config{})
	c.Advance(TimeSpec{HoursPerTurn: 1 << 40}, DefaultConfig())

	if c.HoursPerTurn != MaxAdvanceHours {
		t.Fatalf("hours per turn not capped: %d", c.HoursPerTurn)
	}
}

func TestTimeSpecValidate(t *testing.T) {
	cases := []struct {
		name string
		spec TimeSpec
		ok   bool
	}{
		{"empty", TimeSpec{}, true},
		{"travel", TimeSpec{Scale: ScaleTravel, Hours: 12}, true},
		{"negative seconds", TimeSpec{Seconds: -1}, false},
		{"negative hours per turn", TimeSpec{HoursPerTurn: -3}, false},
		{"huge hours", TimeSpec{Hours: 3000000}, false},
		{"huge seconds", TimeSpec{Seconds: MaxAdvanceSeconds + 1}, false},
		{"unknown scale", TimeSpec{Scale: "dream"}, false},
	}
	for _, tc := range cases {
		err := tc.spec.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidTimeSpec) {
			t.Fatalf("%s: expected ErrInvalidTimeSpec, got %v", tc.name, err)
		}
	}
}
