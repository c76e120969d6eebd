package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking workflow.
type BookingMetrics struct {
	submissionsTotal *prometheus.CounterVec
	stepTotal        *prometheus.CounterVec
	submitLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glamora",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions by outcome",
		}, []string{"outcome"}),
		stepTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glamora",
			Subsystem: "booking",
			Name:      "step_transitions_total",
			Help:      "Total workflow step transitions",
		}, []string{"step"}),
		submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glamora",
			Subsystem: "booking",
			Name:      "submit_latency_seconds",
			Help:      "Latency of booking creation against the salon backend",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.stepTotal, m.submitLatency)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveStep(step string) {
	if m == nil {
		return
	}
	m.stepTotal.WithLabelValues(step).Inc()
}

func (m *BookingMetrics) ObserveSubmitLatency(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submitLatency.WithLabelValues(outcome).Observe(seconds)
}
