package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Black-And-White-Club/fantasy-bot/app/modules/squad"
	"github.com/Black-And-White-Club/fantasy-bot/config"
	"github.com/Black-And-White-Club/fantasy-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/fantasy-bot/internal/eventbus"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability/attr"
)

// App owns the process-wide connections and the squad module.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bundb.DBService
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPServer    *http.Server
	SquadModule   *squad.Module

	routerCtx    context.Context
	routerCancel context.CancelFunc
}

// NewApp connects to Postgres and NATS and builds the squad module.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Provider.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus, err := eventbus.NewJetStreamBus(ctx, cfg.NATS, logger)
	if err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		_ = bus.Close()
		_ = dbService.Close()
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	httpRouter := chi.NewRouter()
	httpRouter.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	httpRouter.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	httpRouter.Handle("/metrics", obs.MetricsHandler())

	routerCtx, routerCancel := context.WithCancel(ctx)

	squadModule, err := squad.NewSquadModule(ctx, cfg, obs, dbService.Squad, dbService.GetDB(), bus, router, httpRouter, routerCtx, true)
	if err != nil {
		routerCancel()
		_ = bus.Close()
		_ = dbService.Close()
		return nil, fmt.Errorf("failed to initialize squad module: %w", err)
	}

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            dbService,
		EventBus:      bus,
		Router:        router,
		HTTPServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpRouter,
			ReadHeaderTimeout: 5 * time.Second,
		},
		SquadModule:  squadModule,
		routerCtx:    routerCtx,
		routerCancel: routerCancel,
	}, nil
}

// Run serves events and the read API until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	moduleCtx, cancelModule := context.WithCancel(ctx)
	defer cancelModule()

	var wg sync.WaitGroup
	wg.Add(1)
	go app.SquadModule.Run(moduleCtx, &wg)

	errCh := make(chan error, 2)
	go func() {
		if err := app.Router.Run(app.routerCtx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", attr.String("addr", app.HTTPServer.Addr))
		if err := app.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Component failed", attr.Error(runErr))
	}

	app.Close()
	cancelModule()
	wg.Wait()
	return runErr
}

// Close shuts everything down in reverse dependency order.
func (app *App) Close() {
	logger := app.Observability.Provider.Logger

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.HTTPServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", attr.Error(err))
	}

	app.routerCancel()
	if err := app.SquadModule.Close(); err != nil {
		logger.Error("Error closing squad module", attr.Error(err))
	}
	if err := app.EventBus.Close(); err != nil {
		logger.Error("Error closing event bus", attr.Error(err))
	}
	if err := app.DB.Close(); err != nil {
		logger.Error("Error closing database", attr.Error(err))
	}
	logger.Info("Application shut down gracefully")
}
