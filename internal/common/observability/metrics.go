package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability records per-round OpenTelemetry instruments, exported through
// the Prometheus registry, and hands out tracers for the chat pipeline.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	roundCounter  otelmetric.Int64Counter
	roundDuration otelmetric.Float64Histogram
	tracer        trace.Tracer
}

// New never fails: when the exporter cannot be built the returned value
// records nothing.
func New(serviceName string) *Observability {
	o := &Observability{tracer: otel.Tracer(serviceName)}

	exporter, err := prometheus.New()
	if err != nil {
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o.meterProvider = provider
	o.meter = provider.Meter(serviceName)
	o.roundCounter, _ = o.meter.Int64Counter(
		"chat.rounds",
		otelmetric.WithDescription("Number of chat rounds processed"),
	)
	o.roundDuration, _ = o.meter.Float64Histogram(
		"chat.round.duration",
		otelmetric.WithDescription("Chat round duration"),
		otelmetric.WithUnit("ms"),
	)
	return o
}

// NewNoop is used by tests and by callers that do not export metrics.
func NewNoop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("noop")
	}
	return o.tracer
}

func (o *Observability) RecordRound(ctx context.Context, category string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("category", category))
	if o.roundCounter != nil {
		o.roundCounter.Add(ctx, 1, attrs)
	}
	if o.roundDuration != nil {
		o.roundDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
