package squadrouter

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	squadevents "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/events"
	squadhandlers "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/handlers"
	"github.com/Black-And-White-Club/fantasy-bot/internal/eventbus"
	"github.com/Black-And-White-Club/fantasy-bot/internal/handlerwrapper"
)

// SquadRouter handles Watermill handler registration for squad events.
type SquadRouter struct {
	logger         *slog.Logger
	router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metrics        handlerwrapper.ReturningMetrics
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewSquadRouter creates a new SquadRouter. A nil registry skips the
// Prometheus router metrics.
func NewSquadRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	handlerMetrics handlerwrapper.ReturningMetrics,
	prometheusRegistry *prometheus.Registry,
) *SquadRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}
	return &SquadRouter{
		logger:         logger,
		router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metrics:        handlerMetrics,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the squad handlers.
func (r *SquadRouter) Configure(_ context.Context, handlers squadhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.router)
	}

	r.router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
	)

	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
	metrics    handlerwrapper.ReturningMetrics
}

// registerHandlers wires topics to handler methods.
func (r *SquadRouter) registerHandlers(handlers squadhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
		metrics:    r.metrics,
	}

	registerHandler(deps, squadevents.SquadCreationRequestedV1, handlers.HandleSquadCreationRequested)
	registerHandler(deps, squadevents.SquadTransferRequestedV1, handlers.HandleTransferRequested)
	registerHandler(deps, squadevents.SquadBenchSwapRequestedV1, handlers.HandleBenchSwapRequested)
	registerHandler(deps, squadevents.SquadRoleAssignmentRequestedV1, handlers.HandleRoleAssignmentRequested)
	registerHandler(deps, squadevents.PlayerScoreUpdatedV1, handlers.HandlePlayerScoreUpdated)
	registerHandler(deps, squadevents.SquadTotalRequestedV1, handlers.HandleSquadTotalRequested)
	registerHandler(deps, squadevents.SquadAuditRequestedV1, handlers.HandleSquadAuditRequested)

	r.logger.Info("Squad module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "squad." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.metrics,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *SquadRouter) Close() error {
	return r.router.Close()
}
