package squadqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/Black-And-White-Club/fantasy-bot/config"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
)

const serviceName = "river"

// Metrics records queue operations.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService schedules squad maintenance jobs.
type QueueService interface {
	// EnqueueAudit requests an immediate sweep and returns the job id.
	EnqueueAudit(ctx context.Context, args AuditSweepArgs) (int64, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service runs the squad River client: the periodic audit sweep and on-demand
// sweeps.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics Metrics
}

// NewService connects to Postgres, applies the River schema and configures
// the periodic audit sweep.
func NewService(
	ctx context.Context,
	dsn string,
	logger *slog.Logger,
	metrics Metrics,
	auditor Auditor,
	publisher message.Publisher,
	auditCfg config.AuditConfig,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", serviceName)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewAuditSweepWorker(auditor, publisher, ctxLogger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger: ctxLogger,
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: 2},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs(auditCfg),
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", serviceName)
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", serviceName)
	metrics.RecordOperationDuration(ctx, "initialize_service", serviceName, time.Since(start))

	ctxLogger.Info("Squad queue service initialized",
		attr.String("audit_interval", auditCfg.Interval.String()),
		attr.Bool("audit_repair", auditCfg.Repair),
	)
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		metrics: metrics,
	}, nil
}

// Migrate applies the River schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

func periodicJobs(cfg config.AuditConfig) []*river.PeriodicJob {
	if cfg.Interval <= 0 {
		return nil
	}
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(cfg.Interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return AuditSweepArgs{Repair: cfg.Repair}, nil
			},
			nil,
		),
	}
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service", serviceName)
	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", serviceName)
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service", serviceName)
	s.logger.Info("Squad queue service started")
	return nil
}

// Stop waits for running jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service", serviceName)
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", serviceName)
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service", serviceName)
	s.logger.Info("Squad queue service stopped")
	return nil
}

// EnqueueAudit requests an immediate sweep. A duplicate of a sweep that is
// still pending returns the existing job.
func (s *Service) EnqueueAudit(ctx context.Context, args AuditSweepArgs) (int64, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_audit", serviceName)

	res, err := s.client.Insert(ctx, args, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to enqueue audit sweep", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "enqueue_audit", serviceName)
		return 0, fmt.Errorf("failed to enqueue audit sweep: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_audit", serviceName)
	s.metrics.RecordOperationDuration(ctx, "enqueue_audit", serviceName, time.Since(start))
	s.logger.InfoContext(ctx, "Audit sweep enqueued",
		attr.Any("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return res.Job.ID, nil
}

// HealthCheck verifies the queue database is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM river_job").Scan(&count); err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	s.logger.Debug("Queue service health check passed", attr.Int("total_jobs", count))
	return nil
}
