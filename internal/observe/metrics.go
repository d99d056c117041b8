// Package observe exposes the game master's command metrics through
// OpenTelemetry. [InitProvider] bridges them to a Prometheus scrape
// endpoint; tests build [Metrics] on a ManualReader instead.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "vexal"

// Metrics implements ports.CommandMetrics. Instruments are safe for
// concurrent use.
type Metrics struct {
	Commands           metric.Int64Counter
	Rejected           metric.Int64Counter
	NarrativeFallbacks metric.Int64Counter
	PersistFailures    metric.Int64Counter

	// NarrativeDuration uses attribute.String("provider", ...).
	NarrativeDuration metric.Float64Histogram
}

// latencyBuckets are in seconds and sized for hosted LLM calls.
var latencyBuckets = []float64{
	0.1, 0.25, 0.5, 1, 2, 4, 8, 15, 30,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Commands, err = m.Int64Counter("vexal.commands",
		metric.WithDescription("Processed commands by mode and matched rule."),
	); err != nil {
		return nil, err
	}
	if met.Rejected, err = m.Int64Counter("vexal.commands.rejected",
		metric.WithDescription("Commands rejected before processing."),
	); err != nil {
		return nil, err
	}
	if met.NarrativeFallbacks, err = m.Int64Counter("vexal.narrative.fallbacks",
		metric.WithDescription("Narratives replaced by the fallback text."),
	); err != nil {
		return nil, err
	}
	if met.PersistFailures, err = m.Int64Counter("vexal.persist.failures",
		metric.WithDescription("Turns whose state could not be saved."),
	); err != nil {
		return nil, err
	}
	if met.NarrativeDuration, err = m.Float64Histogram("vexal.narrative.duration",
		metric.WithDescription("Latency of narrative generation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

func (m *Metrics) RecordCommand(mode, rule string) {
	if rule == "" {
		rule = "none"
	}
	m.Commands.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("rule", rule),
	))
}

func (m *Metrics) RecordRejected() {
	m.Rejected.Add(context.Background(), 1)
}

func (m *Metrics) RecordNarrativeFallback(mode string) {
	m.NarrativeFallbacks.Add(context.Background(), 1, metric.WithAttributes(attribute.String("mode", mode)))
}

func (m *Metrics) RecordNarrativeLatency(provider string, d time.Duration) {
	m.NarrativeDuration.Record(context.Background(), d.Seconds(), metric.WithAttributes(attribute.String("provider", provider)))
}

func (m *Metrics) RecordPersistFailure() {
	m.PersistFailures.Add(context.Background(), 1)
}
