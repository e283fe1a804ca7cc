package squad

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	squadhandlers "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/handlers"
	squadqueue "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/queue"
	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	squadrouter "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/router"
	"github.com/Black-And-White-Club/fantasy-bot/config"
	"github.com/Black-And-White-Club/fantasy-bot/internal/eventbus"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability"
)

// Module represents the squad module.
type Module struct {
	EventBus     eventbus.EventBus
	SquadService squadservice.Service
	SquadRouter  *squadrouter.SquadRouter
	QueueService squadqueue.QueueService

	config        *config.Config
	observability observability.Observability

	mu         sync.Mutex
	closed     bool
	cancelFunc context.CancelFunc
}

// NewSquadModule wires the squad service to the event bus, the read API and
// the audit queue. withQueue false leaves sweeps to the audit command.
func NewSquadModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	repo squaddb.Repository,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	routerCtx context.Context,
	withQueue bool,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.SquadMetrics
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "squad.NewSquadModule called")

	service := squadservice.NewSquadService(repo, logger, metrics, tracer, db, cfg.League.DefaultRules)
	handlers := squadhandlers.NewSquadHandlers(service, logger, tracer)

	squadRouter := squadrouter.NewSquadRouter(logger, router, eventBus, eventBus, tracer, metrics, obs.Registry.Prometheus)
	if err := squadRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure squad router: %w", err)
	}

	if httpRouter != nil {
		handlers.MountHTTP(httpRouter, squadhandlers.RateLimits{
			Read:         rate.Limit(cfg.HTTP.RateLimit),
			ReadBurst:    cfg.HTTP.RateBurst,
			Preview:      rate.Limit(cfg.HTTP.PreviewRateLimit),
			PreviewBurst: cfg.HTTP.PreviewRateBurst,
		})
	}

	module := &Module{
		EventBus:      eventBus,
		SquadService:  service,
		SquadRouter:   squadRouter,
		config:        cfg,
		observability: obs,
	}

	if withQueue {
		queue, err := squadqueue.NewService(ctx, cfg.Postgres.DSN, logger, metrics, service, eventBus, cfg.Audit)
		if err != nil {
			return nil, fmt.Errorf("failed to create squad queue: %w", err)
		}
		module.QueueService = queue
	}

	return module, nil
}

// Run starts the audit queue and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting squad module")

	if wg != nil {
		defer wg.Done()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.cancelFunc = cancel
	m.mu.Unlock()

	if m.QueueService != nil {
		if err := m.QueueService.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start squad queue", slog.Any("error", err))
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Squad module goroutine stopped")
}

// Close stops the squad module and cleans up resources.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping squad module")

	m.mu.Lock()
	m.closed = true
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.mu.Unlock()

	if m.QueueService != nil {
		if err := m.QueueService.Stop(context.Background()); err != nil {
			logger.Error("Error stopping squad queue", slog.Any("error", err))
		}
	}

	if m.SquadRouter != nil {
		if err := m.SquadRouter.Close(); err != nil {
			logger.Error("Error closing SquadRouter from module", "error", err)
			return fmt.Errorf("error closing SquadRouter: %w", err)
		}
	}

	logger.Info("Squad module stopped")
	return nil
}
