package observe

import (
	"context"
	"testing"
	"time"

	"vexal/internal/adapter/metrics/inmemory"
	"vexal/internal/app/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

var (
	_ ports.CommandMetrics = (*Metrics)(nil)
	_ ports.CommandMetrics = Multi{}
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func sumWhere(t *testing.T, rm metricdata.ResourceMetrics, name, key, value string) int64 {
	t.Helper()
	met := findMetric(rm, name)
	if met == nil {
		t.Fatalf("metric %q not found", name)
	}
	sum, ok := met.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %q is not a sum", name)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if key == "" {
			total += dp.Value
			continue
		}
		for _, kv := range dp.Attributes.ToSlice() {
			if string(kv.Key) == key && kv.Value.AsString() == value {
				total += dp.Value
			}
		}
	}
	return total
}

func TestCommandCounters(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordCommand("static", "goblin_attack")
	m.RecordCommand("static", "goblin_attack")
	m.RecordCommand("llm", "")
	m.RecordRejected()
	m.RecordNarrativeFallback("llm")
	m.RecordPersistFailure()

	rm := collect(t, reader)
	if got := sumWhere(t, rm, "vexal.commands", "rule", "goblin_attack"); got != 2 {
		t.Errorf("goblin_attack count = %d, want 2", got)
	}
	if got := sumWhere(t, rm, "vexal.commands", "rule", "none"); got != 1 {
		t.Errorf("none count = %d, want 1", got)
	}
	if got := sumWhere(t, rm, "vexal.commands.rejected", "", ""); got != 1 {
		t.Errorf("rejected = %d, want 1", got)
	}
	if got := sumWhere(t, rm, "vexal.narrative.fallbacks", "mode", "llm"); got != 1 {
		t.Errorf("fallbacks = %d, want 1", got)
	}
	if got := sumWhere(t, rm, "vexal.persist.failures", "", ""); got != 1 {
		t.Errorf("persist failures = %d, want 1", got)
	}
}

func TestNarrativeDurationHistogram(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordNarrativeLatency("openai", 300*time.Millisecond)
	m.RecordNarrativeLatency("openai", 1200*time.Millisecond)

	rm := collect(t, reader)
	met := findMetric(rm, "vexal.narrative.duration")
	if met == nil {
		t.Fatal("metric not found")
	}
	hist, ok := met.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatal("metric is not a histogram")
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Count != 2 {
		t.Fatalf("unexpected data points: %+v", hist.DataPoints)
	}
}

func TestMultiFansOut(t *testing.T) {
	m, reader := newTestMetrics(t)
	rec := inmemory.NewRecorder()

	multi := Multi{m, rec}
	multi.RecordCommand("heuristic", "puzzle")
	multi.RecordRejected()

	if s := rec.Snapshot(); s.CommandTotal != 1 || s.CommandRejected != 1 {
		t.Fatalf("recorder missed observations: %+v", s)
	}
	if got := sumWhere(t, collect(t, reader), "vexal.commands", "mode", "heuristic"); got != 1 {
		t.Fatalf("otel missed command: %d", got)
	}
}
