package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// TracerConfig selects the Jaeger collector and the sampling strategy.
// Sampler "ratio" keeps the given fraction of turn traces; anything else
// samples everything, which is fine at dispatcher call volumes.
type TracerConfig struct {
	ServiceName  string
	Version      string
	Endpoint     string
	SamplerType  string
	SamplerParam float64
}

// InitTracer wires the global tracer provider to a Jaeger collector. Spans
// cover the turn path and the row-store round trips.
func InitTracer(cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(cfg.Endpoint),
	))
	if err != nil {
		return nil, err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SamplerType == "ratio" {
		sampler = sdktrace.TraceIDRatioBased(cfg.SamplerParam)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.Version),
		)),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(tp)

	return tp, nil
}
