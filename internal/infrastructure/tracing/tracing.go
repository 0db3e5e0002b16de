package tracing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/signals/internal/infrastructure/configs"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "github.com/hilthontt/signals"

var ErrMissingEndpoint = errors.New("tracing endpoint is required")

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	SampleRatio    float64
	ExportTimeout  time.Duration
}

func NewConfig(serviceName, serviceVersion string, cfg configs.TracingConfig) Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Endpoint,
		SampleRatio:    cfg.SampleRatio,
	}
}

// sampleRatio clamps the configured ratio; zero means sample everything.
func (c Config) sampleRatio() float64 {
	if c.SampleRatio <= 0 || c.SampleRatio > 1 {
		return 1
	}
	return c.SampleRatio
}

func (c Config) exportTimeout() time.Duration {
	if c.ExportTimeout <= 0 {
		return 10 * time.Second
	}
	return c.ExportTimeout
}

type ShutdownFunc = func(context.Context) error

// InitTracer installs a global provider exporting to cfg.Endpoint over
// OTLP/HTTP. Dispatch spans and ops HTTP spans both go through it.
func InitTracer(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
		otlptracehttp.WithTimeout(cfg.exportTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.sampleRatio()))),
	)

	otel.SetTracerProvider(tp)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Noop leaves the global no-op provider in place.
func Noop() ShutdownFunc {
	return func(context.Context) error { return nil }
}

func GetTracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}
