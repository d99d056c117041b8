package player

import (
	"bytes"
	"encoding/json"
	"sort"
)

type ActiveCondition struct {
	Timer *int `json:"timer,omitempty"`

	// Malformed marks an entry whose stored timer could not be read.
	Malformed bool `json:"-"`
}

func Turns(n int) ActiveCondition {
	return ActiveCondition{Timer: &n}
}

func (c ActiveCondition) Remaining() int {
	if c.Timer == nil {
		return 0
	}
	return *c.Timer
}

// UnmarshalJSON never fails: documents written by older clients may carry
// strings or objects in the timer field.
func (c *ActiveCondition) UnmarshalJSON(b []byte) error {
	*c = ActiveCondition{}
	var raw struct {
		Timer json.RawMessage `json:"timer"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		c.Malformed = true
		return nil
	}
	if len(raw.Timer) == 0 || bytes.Equal(raw.Timer, []byte("null")) {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw.Timer, &n); err != nil {
		c.Malformed = true
		return nil
	}
	c.Timer = &n
	return nil
}

func (s *State) HasCondition(name string) bool {
	_, ok := s.Conditions[name]
	return ok
}

// SetCondition applies or refreshes a condition; it never stacks.
func (s *State) SetCondition(name string, turns int) {
	if s.Conditions == nil {
		s.Conditions = map[string]ActiveCondition{}
	}
	s.Conditions[name] = Turns(turns)
}

func (s *State) AddConditionIfAbsent(name string, turns int) bool {
	if s.HasCondition(name) {
		return false
	}
	s.SetCondition(name, turns)
	return true
}

func (s *State) RemoveCondition(name string) {
	delete(s.Conditions, name)
}

type TickResult struct {
	Expired   []string
	Malformed []string
}

// TickConditions runs once per processed command. A timer above 1 is
// decremented; anything else (1, zero, negative, absent or malformed)
// removes the condition.
func (s *State) TickConditions() TickResult {
	var res TickResult
	for name, c := range s.Conditions {
		if c.Malformed {
			delete(s.Conditions, name)
			res.Malformed = append(res.Malformed, name)
			continue
		}
		if c.Timer != nil && *c.Timer > 1 {
			s.Conditions[name] = Turns(*c.Timer - 1)
			continue
		}
		delete(s.Conditions, name)
		res.Expired = append(res.Expired, name)
	}
	sort.Strings(res.Expired)
	sort.Strings(res.Malformed)
	return res
}

func (s State) ConditionNames() []string {
	out := make([]string, 0, len(s.Conditions))
	for name := range s.Conditions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
