package stats

import (
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"vexal/internal/domain/condition"
	"vexal/internal/domain/player"
)

const defaultMaxEntries = 1024

type cacheEntry struct {
	fingerprint uint64
	stats       Effective
}

// Resolver memoises Compute per session. An entry is served only while the
// fingerprint of (attributes, active conditions, equipment) still matches;
// callers drop it with Invalidate after every state mutation.
type Resolver struct {
	Registry   *condition.Registry
	MaxEntries int

	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    uint64
	misses  uint64
}

func NewResolver(reg *condition.Registry) *Resolver {
	return &Resolver{Registry: reg, MaxEntries: defaultMaxEntries}
}

func (r *Resolver) Resolve(sessionID string, s player.State) Effective {
	fp := Fingerprint(s)

	r.mu.Lock()
	if e, ok := r.entries[sessionID]; ok && e.fingerprint == fp {
		r.hits++
		r.mu.Unlock()
		return e.stats.Clone()
	}
	r.misses++
	r.mu.Unlock()

	computed := ForState(s, r.Registry)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]cacheEntry{}
	}
	limit := r.MaxEntries
	if limit <= 0 {
		limit = defaultMaxEntries
	}
	if _, exists := r.entries[sessionID]; !exists && len(r.entries) >= limit {
		clear(r.entries)
	}
	r.entries[sessionID] = cacheEntry{fingerprint: fp, stats: computed.Clone()}
	return computed
}

func (r *Resolver) Invalidate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sessionID)
}

func (r *Resolver) Stats() (hits, misses uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits, r.misses
}

// Fingerprint hashes the inputs of Compute in a canonical order.
func Fingerprint(s player.State) uint64 {
	d := xxhash.New()

	attrs := make([]string, 0, len(s.Attributes))
	for a := range s.Attributes {
		attrs = append(attrs, string(a))
	}
	sort.Strings(attrs)
	for _, a := range attrs {
		_, _ = d.WriteString(a)
		_, _ = d.WriteString("=")
		_, _ = d.WriteString(strconv.Itoa(s.Attributes[player.Attribute(a)]))
		_, _ = d.WriteString(";")
	}
	_, _ = d.WriteString("|")

	for _, name := range s.ConditionNames() {
		_, _ = d.WriteString(name)
		_, _ = d.WriteString(";")
	}
	_, _ = d.WriteString("|")

	slots := make([]string, 0, len(s.Equipment))
	for slot := range s.Equipment {
		slots = append(slots, string(slot))
	}
	sort.Strings(slots)
	for _, slot := range slots {
		item := s.Equipment[player.Slot(slot)]
		if item == nil {
			continue
		}
		_, _ = d.WriteString(slot)
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(string(item.Type))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(item.Material)
		_, _ = d.WriteString(";")
	}
	return d.Sum64()
}
