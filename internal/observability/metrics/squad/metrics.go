// Package squadmetrics defines the metrics recorded by the squad module.
package squadmetrics

import (
	"context"
	"time"
)

// SquadMetrics is implemented by PrometheusMetrics and NoOpMetrics.
type SquadMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	// RecordBankedPoints observes points moved into a squad's bank.
	RecordBankedPoints(ctx context.Context, kind string, points float64)
	// RecordScoreDecrease counts score updates that lowered a player's points.
	RecordScoreDecrease(ctx context.Context)
	// RecordAuditFinding counts role timestamp findings by issue and outcome.
	RecordAuditFinding(ctx context.Context, issue string, repaired bool)

	RecordHandlerAttempt(ctx context.Context, handlerName string)
	RecordHandlerSuccess(ctx context.Context, handlerName string)
	RecordHandlerFailure(ctx context.Context, handlerName string)
	RecordHandlerDuration(ctx context.Context, handlerName string, duration time.Duration)
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

var _ SquadMetrics = (*NoOpMetrics)(nil)

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string) {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordBankedPoints(context.Context, string, float64) {}
func (NoOpMetrics) RecordScoreDecrease(context.Context) {}
func (NoOpMetrics) RecordAuditFinding(context.Context, string, bool) {}
func (NoOpMetrics) RecordHandlerAttempt(context.Context, string) {}
func (NoOpMetrics) RecordHandlerSuccess(context.Context, string) {}
func (NoOpMetrics) RecordHandlerFailure(context.Context, string) {}
func (NoOpMetrics) RecordHandlerDuration(context.Context, string, time.Duration) {}
