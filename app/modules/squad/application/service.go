package squadservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	squaddomain "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/domain"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
	squadmetrics "github.com/Black-And-White-Club/fantasy-bot/internal/observability/metrics/squad"
	"github.com/Black-And-White-Club/fantasy-bot/internal/results"
)

const serviceName = "SquadService"

// SquadService implements the Service interface.
type SquadService struct {
	repo         squaddb.Repository
	logger       *slog.Logger
	metrics      squadmetrics.SquadMetrics
	tracer       trace.Tracer
	db           *bun.DB
	defaultRules squaddomain.LeagueRules
}

var _ Service = (*SquadService)(nil)

// NewSquadService creates a new SquadService. defaultRules applies to leagues
// created without explicit rules.
func NewSquadService(
	repo squaddb.Repository,
	logger *slog.Logger,
	metrics squadmetrics.SquadMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	defaultRules squaddomain.LeagueRules,
) *SquadService {
	return &SquadService{
		repo:         repo,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		db:           db,
		defaultRules: defaultRules,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *SquadService,
	ctx context.Context,
	operationName string,
	squadID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("squad_id", squadID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.SquadID(squadID),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.SquadID(squadID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.SquadID(squadID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.SquadID(squadID),
			attr.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.SquadID(squadID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *SquadService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		if txErr == nil && result.IsFailure() {
			// Roll back partial writes made before the failure was detected.
			return errBusinessFailure
		}
		return txErr
	})
	if errors.Is(err, errBusinessFailure) {
		return result, nil
	}

	return result, err
}

// errBusinessFailure aborts a transaction whose operation produced a Failure.
var errBusinessFailure = errors.New("business failure")

// failOrError turns a domain error into a Failure result and passes
// infrastructure errors through.
func failOrError[S any](err error) (results.OperationResult[S, error], error) {
	if IsDomainError(err) {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}

// loadSquad fetches a squad and converts it to engine state.
func (s *SquadService) loadSquad(ctx context.Context, db bun.IDB, squadID string) (*squaddb.Squad, squaddomain.SquadState, error) {
	squad, err := s.repo.GetSquad(ctx, db, squadID)
	if err != nil {
		if errors.Is(err, squaddb.ErrNotFound) {
			return nil, squaddomain.SquadState{}, fmt.Errorf("%w: %s", ErrSquadNotFound, squadID)
		}
		return nil, squaddomain.SquadState{}, err
	}
	state, err := squad.State()
	if err != nil {
		return nil, squaddomain.SquadState{}, fmt.Errorf("decode squad %s: %w", squadID, err)
	}
	return squad, state, nil
}

// saveEdit persists an edited state along with its trail entry and a total
// snapshot. The caller holds the squad lock.
func (s *SquadService) saveEdit(ctx context.Context, db bun.IDB, squad *squaddb.Squad, state squaddomain.SquadState, record *squaddb.TransferRecord) error {
	squad.ApplyState(state)
	if err := s.repo.SaveSquad(ctx, db, squad); err != nil {
		return fmt.Errorf("save squad: %w", err)
	}

	record.SquadID = squad.ID
	record.CorrelationID = attr.CorrelationIDFromContext(ctx)
	if err := s.repo.InsertTransfer(ctx, db, record); err != nil {
		return fmt.Errorf("record %s: %w", record.Kind, err)
	}

	if err := s.snapshotTotal(ctx, db, squad.ID, state, record.Kind); err != nil {
		return err
	}

	if record.BankedContribution > 0 {
		s.metrics.RecordBankedPoints(ctx, record.Kind, record.BankedContribution)
	}
	return nil
}

func (s *SquadService) snapshotTotal(ctx context.Context, db bun.IDB, squadID string, state squaddomain.SquadState, reason string) error {
	total := state.Total()
	err := s.repo.InsertTotalSnapshot(ctx, db, &squaddb.SquadTotalSnapshot{
		SquadID:      squadID,
		Total:        total.Total,
		BankedPoints: total.BankedPoints,
		Reason:       reason,
	})
	if err != nil {
		return fmt.Errorf("snapshot total: %w", err)
	}
	return nil
}

func summarize(squad *squaddb.Squad, state squaddomain.SquadState) *SquadSummary {
	return &SquadSummary{
		SquadID:  squad.ID,
		LeagueID: squad.LeagueID,
		OwnerID:  squad.OwnerID,
		Name:     squad.Name,
		Version:  squad.Version,
		Total:    state.Total().Rounded(),
	}
}
