package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveBooking("created", false)
	m.ObserveBooking("failed", true)
	m.ObserveFetchFailure("upcoming")
	m.ObserveSlotRequest()
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveBooking("created", false)
	m.ObserveFetchFailure("past")
	m.ObserveSlotRequest()
}
