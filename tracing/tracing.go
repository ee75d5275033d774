// Package tracing wraps every SCC engine run and every BuildCondensation
// call in an OpenTelemetry span, exporting over OTLP/gRPC when an endpoint
// is configured.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/wyfcoding/scc"

// Config configures the OTLP-over-gRPC exporter pipeline.
type Config struct {
	ServiceName  string
	OTLPEndpoint string // empty disables export; spans are still created
	Insecure     bool
}

// Init builds and registers a global TracerProvider exporting to
// cfg.OTLPEndpoint via OTLP/gRPC. It returns a shutdown func the caller
// should defer. If cfg.OTLPEndpoint is empty, Init installs a provider with
// no exporter: spans are created (so ctx propagation and
// logging.TraceHandler still work) but never leave the process.
func Init(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		dialOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.Insecure {
			dialOpts = append(dialOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(ctx, dialOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns this library's named tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartEngineSpan starts a span around one Tarjan/Kosaraju run, tagging it
// with the engine name and input size.
func StartEngineSpan(ctx context.Context, engine string, vertices, edges int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "scc.engine.run",
		trace.WithAttributes(
			attribute.String("scc.engine", engine),
			attribute.Int("scc.vertices", vertices),
			attribute.Int("scc.edges", edges),
		),
	)
}

// StartCondensationSpan starts a span around one BuildCondensation call.
func StartCondensationSpan(ctx context.Context, components int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "scc.dispatch.build_condensation",
		trace.WithAttributes(attribute.Int("scc.components", components)),
	)
}

// EndSpan records err (if non-nil) on span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
