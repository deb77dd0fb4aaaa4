package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for compliance assessments.
type Metrics struct {
	// Completed assessments by grade label
	Assessments *prometheus.CounterVec

	// Violations by normalized severity
	Violations *prometheus.CounterVec

	// Questions handed out per draw
	QuestionsDrawn prometheus.Histogram

	// Evaluate latency including persistence
	EvaluateLatency prometheus.Histogram
}

// New registers the metrics with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Assessments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lhc_assessments_total",
			Help: "Total completed assessments by grade",
		}, []string{"grade"}),

		Violations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lhc_violations_total",
			Help: "Total violations found by normalized severity",
		}, []string{"severity"}),

		QuestionsDrawn: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lhc_questions_drawn",
			Help:    "Number of questions returned per draw",
			Buckets: []float64{0, 5, 10, 20, 30, 50, 100},
		}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lhc_evaluate_duration_seconds",
			Help:    "Duration of assessment evaluation including persistence",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementAssessment records a completed assessment.
func (m *Metrics) IncrementAssessment(grade string) {
	if m != nil {
		m.Assessments.WithLabelValues(grade).Inc()
	}
}

// AddViolation records one violation of the given severity.
func (m *Metrics) AddViolation(severity string) {
	if m != nil {
		m.Violations.WithLabelValues(severity).Inc()
	}
}

// ObserveDraw records the size of a question draw.
func (m *Metrics) ObserveDraw(n int) {
	if m != nil {
		m.QuestionsDrawn.Observe(float64(n))
	}
}

// ObserveEvaluateLatency records an evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
