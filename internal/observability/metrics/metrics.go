package metrics

import "github.com/prometheus/client_golang/prometheus"

// WidgetMetrics exposes counters/histograms for the lead-qualification widget.
type WidgetMetrics struct {
	analysisTotal    *prometheus.CounterVec
	analysisLatency  prometheus.Histogram
	submissionsTotal *prometheus.CounterVec
	dispatchTotal    *prometheus.CounterVec
	dispatchLatency  *prometheus.HistogramVec
	sessions         prometheus.Gauge
}

func NewWidgetMetrics(reg prometheus.Registerer) *WidgetMetrics {
	m := &WidgetMetrics{
		analysisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "widget",
			Name:      "analysis_total",
			Help:      "Total analysis requests by outcome",
		}, []string{"outcome"}),
		analysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agency",
			Subsystem: "widget",
			Name:      "analysis_latency_seconds",
			Help:      "Latency of text-generation calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "widget",
			Name:      "submissions_total",
			Help:      "Total qualification submissions by outcome",
		}, []string{"outcome"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Subsystem: "widget",
			Name:      "dispatch_total",
			Help:      "Total lead dispatches by outcome",
		}, []string{"outcome"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agency",
			Subsystem: "widget",
			Name:      "dispatch_latency_seconds",
			Help:      "Latency of lead dispatch to the notification sink",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "agency",
			Subsystem: "widget",
			Name:      "sessions",
			Help:      "Live widget sessions",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.analysisTotal, m.analysisLatency, m.submissionsTotal, m.dispatchTotal, m.dispatchLatency, m.sessions)
	return m
}

// ObserveAnalysis records one generation call.
func (m *WidgetMetrics) ObserveAnalysis(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.analysisTotal.WithLabelValues(outcome).Inc()
	m.analysisLatency.Observe(seconds)
}

func (m *WidgetMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *WidgetMetrics) ObserveDispatch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(outcome).Inc()
	m.dispatchLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *WidgetMetrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}
