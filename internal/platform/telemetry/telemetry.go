// Package telemetry wires OpenTelemetry tracing and metrics for the service.
// Spans and metrics go to stdout during development or to an OTLP/HTTP
// collector in deployed environments.
//
//	p, err := telemetry.Setup(ctx, telemetry.Options{
//		ServiceName: "go-todo-service",
//		Exporter:    telemetry.ExporterOTLP,
//		Endpoint:    "http://otel-collector:4318",
//	})
//	defer p.Shutdown(ctx)
//
// Setup installs the providers and the W3C propagators globally.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var errEmptyEndpoint = errors.New("endpoint must not be empty for the otlp exporter")

// Options selects where telemetry is exported.
type Options struct {
	ServiceName string
	Exporter    string // ExporterStdout or ExporterOTLP
	Endpoint    string // collector URL, otlp only
}

func (o Options) validate() error {
	switch o.Exporter {
	case ExporterStdout:
		return nil
	case ExporterOTLP:
		if o.Endpoint == "" {
			return errEmptyEndpoint
		}
		return nil
	default:
		return fmt.Errorf("unsupported exporter %q", o.Exporter)
	}
}

// Providers owns the installed SDK providers. The zero value stands for
// disabled telemetry: Metrics is nil and Shutdown does nothing.
type Providers struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// Setup builds both providers, registers the instruments and installs
// everything globally. On error nothing is left running.
func Setup(ctx context.Context, opts Options) (*Providers, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(opts.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	p := &Providers{}
	if p.Tracer, err = newTracerProvider(ctx, opts, res); err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	if p.Meter, err = newMeterProvider(ctx, opts, res); err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	if p.Metrics, err = NewMetrics(p.Meter, opts.ServiceName); err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return p, nil
}

// Shutdown flushes and stops whichever providers are set.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		if err := p.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.Meter != nil {
		if err := p.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func newTracerProvider(ctx context.Context, opts Options, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	var (
		exp sdktrace.SpanExporter
		err error
	)
	if opts.Exporter == ExporterOTLP {
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(opts.Endpoint))}
		if !isHTTPS(opts.Endpoint) {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exp, err = otlptracehttp.New(ctx, httpOpts...)
	} else {
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res)), nil
}

func newMeterProvider(ctx context.Context, opts Options, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	var (
		exp sdkmetric.Exporter
		err error
	)
	if opts.Exporter == ExporterOTLP {
		httpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(opts.Endpoint))}
		if !isHTTPS(opts.Endpoint) {
			httpOpts = append(httpOpts, otlpmetrichttp.WithInsecure())
		}
		exp, err = otlpmetrichttp.New(ctx, httpOpts...)
	} else {
		exp, err = stdoutmetric.New()
	}
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	), nil
}

// hostPort reduces "http://otel-collector:4318" to "otel-collector:4318".
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && u.Scheme == "https"
}
