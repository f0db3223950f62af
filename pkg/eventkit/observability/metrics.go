package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records eventkit metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordPublish records one publish call. It is incremented exactly
	// once per publish, not once per subscriber.
	RecordPublish(ctx context.Context, eventKind, publisher string)

	// RecordSubscriberRun records one subscriber invocation with its
	// duration and error status.
	RecordSubscriberRun(ctx context.Context, eventKind, subscriber string, duration time.Duration, err error)

	// RecordNotification records one notification publish.
	RecordNotification(ctx context.Context, scope, group, level string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	publishes         metric.Int64Counter
	subscriberRuns    metric.Int64Counter
	subscriberErrors  metric.Int64Counter
	subscriberLatency metric.Float64Histogram
	notifications     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventkit")

	publishes, err := meter.Int64Counter("eventkit.publishes",
		metric.WithDescription("Number of event publish calls"),
	)
	if err != nil {
		return nil, err
	}

	subscriberRuns, err := meter.Int64Counter("eventkit.subscriber.runs",
		metric.WithDescription("Number of subscriber invocations"),
	)
	if err != nil {
		return nil, err
	}

	subscriberErrors, err := meter.Int64Counter("eventkit.subscriber.errors",
		metric.WithDescription("Number of failed subscriber invocations"),
	)
	if err != nil {
		return nil, err
	}

	subscriberLatency, err := meter.Float64Histogram("eventkit.subscriber.latency_ms",
		metric.WithDescription("Subscriber invocation latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("eventkit.notifications",
		metric.WithDescription("Number of notification publish calls"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		publishes:         publishes,
		subscriberRuns:    subscriberRuns,
		subscriberErrors:  subscriberErrors,
		subscriberLatency: subscriberLatency,
		notifications:     notifications,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordPublish records one publish call.
func (m *otelMetrics) RecordPublish(ctx context.Context, eventKind, publisher string) {
	m.publishes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_kind", eventKind),
		attribute.String("publisher", publisher),
	))
}

// RecordSubscriberRun records one subscriber invocation.
func (m *otelMetrics) RecordSubscriberRun(ctx context.Context, eventKind, subscriber string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("event_kind", eventKind),
		attribute.String("subscriber", subscriber),
	}

	m.subscriberRuns.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.subscriberLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.subscriberErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNotification records one notification publish.
func (m *otelMetrics) RecordNotification(ctx context.Context, scope, group, level string) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("group", group),
		attribute.String("level", level),
	))
}
