package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking workflow.
type BookingMetrics struct {
	attemptsTotal  *prometheus.CounterVec
	bookingLatency prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		attemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome"}),
		bookingLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "careconnect",
			Subsystem: "booking",
			Name:      "latency_seconds",
			Help:      "Latency of booking workflow execution",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.attemptsTotal, m.bookingLatency)
	return m
}

// ObserveAttempt records a booking attempt outcome such as "booked",
// "slot_taken" or "rejected".
func (m *BookingMetrics) ObserveAttempt(outcome string) {
	if m == nil {
		return
	}
	m.attemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.Observe(seconds)
}

// TriageMetrics exposes counters for symptom analysis.
type TriageMetrics struct {
	analysesTotal *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
}

func NewTriageMetrics(reg prometheus.Registerer) *TriageMetrics {
	m := &TriageMetrics{
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Subsystem: "triage",
			Name:      "analyses_total",
			Help:      "Total symptom analyses by path",
		}, []string{"path", "emergency"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careconnect",
			Subsystem: "triage",
			Name:      "cache_total",
			Help:      "Triage cache lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.analysesTotal, m.cacheTotal)
	return m
}

// ObserveAnalysis records which path served an analysis ("ai" or "fallback").
func (m *TriageMetrics) ObserveAnalysis(path string, emergency bool) {
	if m == nil {
		return
	}
	label := "false"
	if emergency {
		label = "true"
	}
	m.analysesTotal.WithLabelValues(path, label).Inc()
}

// ObserveCache records a cache lookup result ("hit" or "miss").
func (m *TriageMetrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}
