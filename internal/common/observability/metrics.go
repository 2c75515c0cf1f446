package observability

import (
	"context"
	"time"

	"gigdial/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

// New installs an otel meter provider backed by the Prometheus exporter.
// On exporter failure it returns a no-op Observability.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, _ := meter.Int64Counter(
		"requests.processed",
		otelmetric.WithDescription("Number of requests and jobs processed"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"requests.duration",
		otelmetric.WithDescription("Request and job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
	}
}

// RecordProcessed counts one processed request or job for the given operation.
func (o *Observability) RecordProcessed(ctx context.Context, operation, status string) {
	if o == nil || o.requestCounter == nil {
		return
	}
	o.requestCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, operation string, duration time.Duration, status string) {
	if o == nil || o.requestDuration == nil {
		return
	}
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown(ctx context.Context) {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
