package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the evaluation pipeline.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	StageDuration    *prometheus.HistogramVec
	RiskScore        prometheus.Histogram
	AlertsTotal      *prometheus.CounterVec
	AlertsDropped    prometheus.Counter
	AuditEventsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns pipeline metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_evaluations_total",
			Help: "Total evaluation runs by terminal status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulse_evaluation_duration_seconds",
			Help:    "Duration of evaluation runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms .. ~20s
		}, []string{"status"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pulse_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms .. ~10s
		}, []string{"stage"}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pulse_risk_score",
			Help:    "Distribution of model risk probabilities.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11), // 0 .. 1
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_alerts_total",
			Help: "Alerts successfully submitted to the alert store, by severity.",
		}, []string{"severity"}),
		AlertsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pulse_alerts_dropped_total",
			Help: "Alerts dropped because the alert store rejected or was unreachable.",
		}),
		AuditEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pulse_audit_events_total",
			Help: "Audit events by delivery result (sent, failed, dropped).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.StageDuration,
		m.RiskScore,
		m.AlertsTotal,
		m.AlertsDropped,
		m.AuditEventsTotal,
	)

	return m
}

// Nil-tolerant observation helpers so the Service can run without metrics
// in tests.

func (m *Metrics) observeRun(status Status, seconds float64) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(string(status)).Inc()
	m.RunDuration.WithLabelValues(string(status)).Observe(seconds)
}

func (m *Metrics) observeStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) observeScore(prob float64) {
	if m == nil {
		return
	}
	m.RiskScore.Observe(prob)
}

func (m *Metrics) incAlert(severity string) {
	if m == nil {
		return
	}
	m.AlertsTotal.WithLabelValues(severity).Inc()
}

func (m *Metrics) incAlertDropped() {
	if m == nil {
		return
	}
	m.AlertsDropped.Inc()
}

// AuditObserver returns a callback the audit emitter can use to count
// delivery results on the shared registry.
func (m *Metrics) AuditObserver() func(result string) {
	return func(result string) {
		if m == nil {
			return
		}
		m.AuditEventsTotal.WithLabelValues(result).Inc()
	}
}
