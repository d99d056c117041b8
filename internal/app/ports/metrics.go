package ports

import "time"

type CommandMetrics interface {
	RecordCommand(mode, rule string)
	RecordRejected()
	RecordNarrativeFallback(mode string)
	RecordNarrativeLatency(provider string, d time.Duration)
	RecordPersistFailure()
}
