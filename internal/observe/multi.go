package observe

import (
	"time"

	"vexal/internal/app/ports"
)

// Multi fans every observation out to each recorder.
type Multi []ports.CommandMetrics

func (m Multi) RecordCommand(mode, rule string) {
	for _, r := range m {
		r.RecordCommand(mode, rule)
	}
}

func (m Multi) RecordRejected() {
	for _, r := range m {
		r.RecordRejected()
	}
}

func (m Multi) RecordNarrativeFallback(mode string) {
	for _, r := range m {
		r.RecordNarrativeFallback(mode)
	}
}

func (m Multi) RecordNarrativeLatency(provider string, d time.Duration) {
	for _, r := range m {
		r.RecordNarrativeLatency(provider, d)
	}
}

func (m Multi) RecordPersistFailure() {
	for _, r := range m {
		r.RecordPersistFailure()
	}
}
