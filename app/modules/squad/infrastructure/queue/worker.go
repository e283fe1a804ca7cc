package squadqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	squadhandlers "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/handlers"
	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
)

// Auditor runs role timestamp sweeps.
type Auditor interface {
	AuditRoleTimestamps(ctx context.Context, opts squadservice.AuditOptions) (squadservice.AuditOperationResult, error)
}

// AuditSweepWorker runs a sweep and publishes the report.
type AuditSweepWorker struct {
	river.WorkerDefaults[AuditSweepArgs]

	auditor   Auditor
	publisher message.Publisher
	logger    *slog.Logger
}

// NewAuditSweepWorker creates the sweep worker.
func NewAuditSweepWorker(auditor Auditor, publisher message.Publisher, logger *slog.Logger) *AuditSweepWorker {
	return &AuditSweepWorker{auditor: auditor, publisher: publisher, logger: logger}
}

// Timeout bounds one sweep. Repair sweeps lock squads, so a stuck sweep must
// not hold them indefinitely.
func (w *AuditSweepWorker) Timeout(*river.Job[AuditSweepArgs]) time.Duration {
	return 10 * time.Minute
}

// Work runs the sweep. Infrastructure errors are returned so River retries
// the job; a rejected sweep is cancelled.
func (w *AuditSweepWorker) Work(ctx context.Context, job *river.Job[AuditSweepArgs]) error {
	logger := w.logger.With(
		attr.Any("job_id", job.ID),
		attr.String("league_id", job.Args.LeagueID),
		attr.Bool("repair", job.Args.Repair),
	)
	logger.InfoContext(ctx, "Running role timestamp sweep")

	result, err := w.auditor.AuditRoleTimestamps(ctx, squadservice.AuditOptions{
		LeagueID: job.Args.LeagueID,
		Repair:   job.Args.Repair,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Role timestamp sweep failed", attr.Error(err))
		return err
	}
	if result.IsFailure() {
		logger.WarnContext(ctx, "Role timestamp sweep rejected", attr.Error(*result.Failure))
		return river.JobCancel(*result.Failure)
	}

	outcome := *result.Success
	body, err := json.Marshal(squadhandlers.AuditCompletedPayload(outcome))
	if err != nil {
		return fmt.Errorf("marshal audit report: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(handlerwrapper.TopicMetadataKey, squadevents.SquadAuditCompletedV1)

	if err := w.publisher.Publish(squadevents.SquadAuditCompletedV1, msg); err != nil {
		return fmt.Errorf("publish audit report: %w", err)
	}

	logger.InfoContext(ctx, "Role timestamp sweep completed",
		attr.Int("squads_scanned", outcome.Report.SquadsScanned),
		attr.Int("findings", len(outcome.Report.Findings)),
		attr.Int("squads_updated", outcome.SquadsUpdated),
	)
	return nil
}
