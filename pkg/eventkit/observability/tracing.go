package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the eventkit tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("eventkit")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartPublishSpan starts a span covering one publish call.
	StartPublishSpan(ctx context.Context, service, eventKind string) (context.Context, trace.Span)

	// StartSubscriberSpan starts a span covering one subscriber
	// invocation. It should be a child of the publish span.
	StartSubscriberSpan(ctx context.Context, eventKind, subscriber string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartPublishSpan starts a span covering one publish call.
func (m *otelSpanManager) StartPublishSpan(ctx context.Context, service, eventKind string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventkit.publish",
		trace.WithAttributes(
			attribute.String("service", service),
			attribute.String("event_kind", eventKind),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSubscriberSpan starts a span covering one subscriber invocation.
func (m *otelSpanManager) StartSubscriberSpan(ctx context.Context, eventKind, subscriber string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "eventkit.subscriber."+subscriber,
		trace.WithAttributes(
			attribute.String("event_kind", eventKind),
			attribute.String("subscriber", subscriber),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
