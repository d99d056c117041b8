package inmemory

import (
	"maps"
	"sync"
	"time"
)

type Snapshot struct {
	CommandTotal       uint64             `json:"command_total"`
	CommandRejected    uint64             `json:"command_rejected"`
	NarrativeFallbacks uint64             `json:"narrative_fallbacks"`
	PersistFailures    uint64             `json:"persist_failures"`
	ByMode             map[string]uint64  `json:"by_mode"`
	ByRule             map[string]uint64  `json:"by_rule"`
	NarrativeCalls     map[string]uint64  `json:"narrative_calls"`
	NarrativeAvgMillis map[string]float64 `json:"narrative_avg_ms"`
}

type Recorder struct {
	mu        sync.Mutex
	total     uint64
	rejected  uint64
	fallbacks uint64
	persist   uint64
	byMode    map[string]uint64
	byRule    map[string]uint64
	calls     map[string]uint64
	latency   map[string]time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		byMode:  map[string]uint64{},
		byRule:  map[string]uint64{},
		calls:   map[string]uint64{},
		latency: map[string]time.Duration{},
	}
}

func (r *Recorder) RecordCommand(mode, rule string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.byMode[mode]++
	if rule == "" {
		rule = "none"
	}
	r.byRule[rule]++
}

func (r *Recorder) RecordRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

func (r *Recorder) RecordNarrativeFallback(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks++
}

func (r *Recorder) RecordNarrativeLatency(provider string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[provider]++
	r.latency[provider] += d
}

func (r *Recorder) RecordPersistFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persist++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CommandTotal:       r.total,
		CommandRejected:    r.rejected,
		NarrativeFallbacks: r.fallbacks,
		PersistFailures:    r.persist,
		ByMode:             maps.Clone(r.byMode),
		ByRule:             maps.Clone(r.byRule),
		NarrativeCalls:     maps.Clone(r.calls),
		NarrativeAvgMillis: make(map[string]float64, len(r.latency)),
	}
	for provider, total := range r.latency {
		if n := r.calls[provider]; n > 0 {
			out.NarrativeAvgMillis[provider] = float64(total.Milliseconds()) / float64(n)
		}
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
