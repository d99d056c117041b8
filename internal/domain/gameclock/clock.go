package gameclock

import (
	"errors"
	"time"
)

const (
	ScaleCombat = "combat"
	ScaleTravel = "travel"

	DisplayLayout = "Year 2006-01-02 15:04"

	// A single command never moves the clock more than ten years.
	MaxAdvanceHours   = 24 * 365 * 10
	MaxAdvanceSeconds = MaxAdvanceHours * 3600
)

var ErrInvalidTimeSpec = errors.New("invalid time spec")

type Config struct {
	Epoch                time.Time
	HoursPerTurn         int
	CombatSecondsPerTurn int
}

func (c Config) withDefaults() Config {
	if c.Epoch.IsZero() {
		c.Epoch = time.Date(1000, 1, 1, 8, 0, 0, 0, time.UTC)
	}
	if c.HoursPerTurn <= 0 {
		c.HoursPerTurn = 6
	}
	if c.CombatSecondsPerTurn <= 0 {
		c.CombatSecondsPerTurn = 6
	}
	return c
}

func DefaultConfig() Config {
	return Config{}.withDefaults()
}

// TimeSpec describes how far a single command moves the game clock. Zero
// values mean "not given".
type TimeSpec struct {
	Hours          int    `json:"hours,omitempty" yaml:"hours,omitempty"`
	Seconds        int    `json:"seconds,omitempty" yaml:"seconds,omitempty"`
	Scale          string `json:"scale,omitempty" yaml:"scale,omitempty"`
	SecondsPerTurn int    `json:"seconds_per_turn,omitempty" yaml:"seconds_per_turn,omitempty"`
	HoursPerTurn   int    `json:"hours_per_turn,omitempty" yaml:"hours_per_turn,omitempty"`
}

func (s TimeSpec) IsZero() bool {
	return s == TimeSpec{}
}

// Validate rejects negative values, per-command steps beyond the advance
// limits and unknown scales.
func (s TimeSpec) Validate() error {
	switch {
	case s.Hours < 0, s.Seconds < 0, s.SecondsPerTurn < 0, s.HoursPerTurn < 0:
		return errors.Join(ErrInvalidTimeSpec, errors.New("values must not be negative"))
	case s.Hours > MaxAdvanceHours, s.HoursPerTurn > MaxAdvanceHours:
		return errors.Join(ErrInvalidTimeSpec, errors.New("hours exceed advance limit"))
	case s.Seconds > MaxAdvanceSeconds, s.SecondsPerTurn > MaxAdvanceSeconds:
		return errors.Join(ErrInvalidTimeSpec, errors.New("seconds exceed advance limit"))
	}
	switch s.Scale {
	case "", ScaleCombat, ScaleTravel:
		return nil
	}
	return errors.Join(ErrInvalidTimeSpec, errors.New("unknown scale "+s.Scale))
}

type Clock struct {
	Current      time.Time `json:"current"`
	HoursPerTurn int       `json:"hours_per_turn"`
}

func NewClock(cfg Config) Clock {
	cfg = cfg.withDefaults()
	return Clock{Current: cfg.Epoch, HoursPerTurn: cfg.HoursPerTurn}
}

// Advance moves the clock forward by the resolved seconds, else the resolved
// hours, else one turn at the session's hours per turn. Non-positive values
// count as not given and steps are capped at the advance limits, so the clock
// never moves backwards.
func (c *Clock) Advance(spec TimeSpec, cfg Config) string {
	cfg = cfg.withDefaults()
	if c.Current.IsZero() {
		c.Current = cfg.Epoch
	}
	if spec.HoursPerTurn > 0 {
		c.HoursPerTurn = min(spec.HoursPerTurn, MaxAdvanceHours)
	}
	if c.HoursPerTurn <= 0 || c.HoursPerTurn > MaxAdvanceHours {
		c.HoursPerTurn = cfg.HoursPerTurn
	}

	seconds := firstPositive(spec.Seconds)
	hours := firstPositive(spec.Hours)
	switch spec.Scale {
	case ScaleCombat:
		seconds = firstPositive(spec.SecondsPerTurn, spec.Seconds, cfg.CombatSecondsPerTurn)
	case ScaleTravel:
		hours = firstPositive(spec.HoursPerTurn, spec.Hours, c.HoursPerTurn)
	}

	switch {
	case seconds > 0:
		c.Current = c.Current.Add(time.Duration(min(seconds, MaxAdvanceSeconds)) * time.Second)
	case hours > 0:
		c.Current = c.Current.Add(time.Duration(min(hours, MaxAdvanceHours)) * time.Hour)
	default:
		c.Current = c.Current.Add(time.Duration(c.HoursPerTurn) * time.Hour)
	}
	return c.Format()
}

func (c Clock) Format() string {
	return c.Current.Format(DisplayLayout)
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
