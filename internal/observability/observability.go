// Package observability wires logging, metrics and tracing for the service.
package observability

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Black-And-White-Club/fantasy-bot/config"
	squadmetrics "github.com/Black-And-White-Club/fantasy-bot/internal/observability/metrics/squad"
)

// Provider owns the process logger.
type Provider struct {
	Logger *slog.Logger
}

// Registry holds the per-module instruments.
type Registry struct {
	Tracer       trace.Tracer
	SquadMetrics squadmetrics.SquadMetrics
	Prometheus   *prometheus.Registry
}

// Observability bundles what modules need to log, measure and trace.
type Observability struct {
	Provider Provider
	Registry Registry
}

// Init builds the logger, a Prometheus registry with runtime collectors and a
// tracer from the global OpenTelemetry provider.
func Init(cfg config.ObservabilityConfig) Observability {
	logger := NewLogger(cfg)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Provider: Provider{Logger: logger},
		Registry: Registry{
			Tracer:       otel.Tracer(cfg.ServiceName),
			SquadMetrics: squadmetrics.NewPrometheusMetrics(reg, "fantasy"),
			Prometheus:   reg,
		},
	}
}

// NewNoop returns observability that discards metrics and traces; tests and
// one-shot commands use it.
func NewNoop(logger *slog.Logger) Observability {
	return Observability{
		Provider: Provider{Logger: logger},
		Registry: Registry{
			Tracer:       noop.NewTracerProvider().Tracer("noop"),
			SquadMetrics: &squadmetrics.NoOpMetrics{},
			Prometheus:   prometheus.NewRegistry(),
		},
	}
}

// NewLogger returns a JSON logger, or a text logger in development.
func NewLogger(cfg config.ObservabilityConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.Environment, "development") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts)).With(
		slog.String("service", cfg.ServiceName),
	)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MetricsHandler serves the registry in the Prometheus text format.
func (o Observability) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(o.Registry.Prometheus, promhttp.HandlerOpts{Registry: o.Registry.Prometheus})
}
