package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.Reservations == nil || m.HTTPRequests == nil || m.PartialFailures == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.Reservations.WithLabelValues(OutcomeSuccess).Inc()
	m.PartialFailures.Inc()

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	if got := testutil.ToFloat64(m.Reservations.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Fatalf("expected 1 successful reservation, got %v", got)
	}
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// Each registry owns its collectors, so two instances must not collide.
	first := New(prometheus.NewRegistry())
	second := New(prometheus.NewRegistry())

	first.PartialFailures.Inc()

	if got := testutil.ToFloat64(second.PartialFailures); got != 0 {
		t.Fatalf("expected independent counters, got %v", got)
	}
}
