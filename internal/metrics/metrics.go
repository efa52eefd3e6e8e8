package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

const namespace = "trivia_quiz"

// Answer results reported by ObserveAnswer.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
	ResultExpired   = "expired"
)

// Metrics holds Prometheus collectors for quiz sessions.
type Metrics struct {
	FetchTotal        *prometheus.CounterVec
	AnswersTotal      *prometheus.CounterVec
	BatchesCompleted  prometheus.Counter
	ActiveSessions    prometheus.Gauge
	ArchivedQuestions prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Question batch fetches by outcome",
			},
			[]string{"outcome"},
		),
		AnswersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Resolved questions by result",
			},
			[]string{"result"},
		),
		BatchesCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_completed_total",
				Help:      "Batches played through to the last question",
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Quiz sessions currently running",
			},
		),
		ArchivedQuestions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "archived_questions",
				Help:      "Distinct questions stored in the archive",
			},
		),
	}

	reg.MustRegister(m.FetchTotal, m.AnswersTotal, m.BatchesCompleted, m.ActiveSessions, m.ArchivedQuestions)

	return m
}

// ObserveFetch counts a fetch; err is nil on success.
func (m *Metrics) ObserveFetch(err *entities.SupplyError) {
	outcome := "ok"
	if err != nil {
		outcome = err.Kind.String()
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAnswer(result string) {
	m.AnswersTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBatchCompleted() {
	m.BatchesCompleted.Inc()
}

func (m *Metrics) SessionStarted() {
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionStopped() {
	m.ActiveSessions.Dec()
}

func (m *Metrics) SetArchivedQuestions(n int64) {
	m.ArchivedQuestions.Set(float64(n))
}
