package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters for booking and aggregation flows.
type SchedulingMetrics struct {
	bookingsTotal *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	slotRequests  prometheus.Counter
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellmind",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome", "reschedule"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wellmind",
			Subsystem: "scheduling",
			Name:      "fetch_failures_total",
			Help:      "Failed reads against the appointment store or worker directory",
		}, []string{"source"}),
		slotRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wellmind",
			Subsystem: "scheduling",
			Name:      "slot_window_requests_total",
			Help:      "Requests for the offerable date/time window",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.fetchFailures, m.slotRequests)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(outcome string, reschedule bool) {
	if m == nil {
		return
	}
	label := "false"
	if reschedule {
		label = "true"
	}
	m.bookingsTotal.WithLabelValues(outcome, label).Inc()
}

func (m *SchedulingMetrics) ObserveFetchFailure(source string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(source).Inc()
}

func (m *SchedulingMetrics) ObserveSlotRequest() {
	if m == nil {
		return
	}
	m.slotRequests.Inc()
}
