package squadmetrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics records squad metrics on a Prometheus registry.
type PrometheusMetrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	banked            *prometheus.HistogramVec
	scoreDecreases    prometheus.Counter
	auditFindings     *prometheus.CounterVec
	handlers          *prometheus.CounterVec
	handlerDuration   *prometheus.HistogramVec
}

var _ SquadMetrics = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics registers the squad collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "operations_total",
			Help:      "Service operations by outcome.",
		}, []string{"operation", "service", "outcome"}),
		operationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		banked: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "banked_points",
			Help:      "Points banked per squad mutation.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"kind"}),
		scoreDecreases: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "score_decreases_total",
			Help:      "Player score updates that lowered cumulative points.",
		}),
		auditFindings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "audit_findings_total",
			Help:      "Role timestamp audit findings.",
		}, []string{"issue", "repaired"}),
		handlers: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "handler_messages_total",
			Help:      "Handled messages by outcome.",
		}, []string{"handler", "outcome"}),
		handlerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "squad",
			Name:      "handler_duration_seconds",
			Help:      "Message handler latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
	}
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "success").Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "failure").Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.operationDuration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordBankedPoints(_ context.Context, kind string, points float64) {
	m.banked.WithLabelValues(kind).Observe(points)
}

func (m *PrometheusMetrics) RecordScoreDecrease(context.Context) {
	m.scoreDecreases.Inc()
}

func (m *PrometheusMetrics) RecordAuditFinding(_ context.Context, issue string, repaired bool) {
	m.auditFindings.WithLabelValues(issue, strconv.FormatBool(repaired)).Inc()
}

func (m *PrometheusMetrics) RecordHandlerAttempt(_ context.Context, handler string) {
	m.handlers.WithLabelValues(handler, "attempt").Inc()
}

func (m *PrometheusMetrics) RecordHandlerSuccess(_ context.Context, handler string) {
	m.handlers.WithLabelValues(handler, "success").Inc()
}

func (m *PrometheusMetrics) RecordHandlerFailure(_ context.Context, handler string) {
	m.handlers.WithLabelValues(handler, "failure").Inc()
}

func (m *PrometheusMetrics) RecordHandlerDuration(_ context.Context, handler string, d time.Duration) {
	m.handlerDuration.WithLabelValues(handler).Observe(d.Seconds())
}
