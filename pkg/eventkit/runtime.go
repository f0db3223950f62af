package eventkit

import (
	"context"
	"log/slog"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit/audit"
	"github.com/randalmurphal/eventkit/pkg/eventkit/config"
	"github.com/randalmurphal/eventkit/pkg/eventkit/dispatch"
	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
	"github.com/randalmurphal/eventkit/pkg/eventkit/notify"
	"github.com/randalmurphal/eventkit/pkg/eventkit/observability"
)

// Runtime wires the standard eventkit topology: a multi-worker event
// service sized from configuration, a single-worker event service for
// strictly serialized work, a notification service, and a facade over
// the two event services.
type Runtime struct {
	events     *dispatch.Service
	serialized *dispatch.Service
	notifier   *notify.Service
	facade     *dispatch.Facade
}

// options holds optional Runtime collaborators.
type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	audit   audit.Recorder
}

// Option configures a Runtime.
type Option func(*options)

// WithLogger sets the structured logger shared by all services.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder shared by all services.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSpanManager sets the trace span manager shared by all services.
func WithSpanManager(s observability.SpanManager) Option {
	return func(o *options) {
		o.spans = s
	}
}

// WithAuditRecorder sets the execution audit recorder shared by all
// services.
func WithAuditRecorder(r audit.Recorder) Option {
	return func(o *options) {
		o.audit = r
	}
}

// New builds a Runtime from configuration. The "pool" section sizes the
// multi-worker service (workers, multiplier).
func New(cfg config.Config, opts ...Option) *Runtime {
	o := options{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		audit:   audit.NopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	serviceOpts := []dispatch.Option{
		dispatch.WithLogger(o.logger),
		dispatch.WithMetrics(o.metrics),
		dispatch.WithSpanManager(o.spans),
		dispatch.WithAuditRecorder(o.audit),
	}

	events := dispatch.New("events", config.PoolFromConfig(cfg), serviceOpts...)
	serialized := dispatch.NewSingleWorker("serialized", serviceOpts...)
	notifier := notify.NewService("notifications",
		notify.WithLogger(o.logger),
		notify.WithMetrics(o.metrics),
	)
	facade := dispatch.NewFacade(o.logger, events, serialized)

	return &Runtime{
		events:     events,
		serialized: serialized,
		notifier:   notifier,
		facade:     facade,
	}
}

// Events returns the multi-worker event service.
func (r *Runtime) Events() *dispatch.Service {
	return r.events
}

// Serialized returns the single-worker event service. Events published
// here run strictly one at a time unless marked Unblocked.
func (r *Runtime) Serialized() *dispatch.Service {
	return r.serialized
}

// Notifications returns the notification service.
func (r *Runtime) Notifications() *notify.Service {
	return r.notifier
}

// Facade returns the dispatch facade over both event services.
func (r *Runtime) Facade() *dispatch.Facade {
	return r.facade
}

// Dispatch publishes evt through the facade to every service holding
// subscriptions for its kind.
func (r *Runtime) Dispatch(ctx context.Context, evt event.Event) error {
	return r.facade.Dispatch(ctx, evt)
}

// Notify broadcasts a notification.
func (r *Runtime) Notify(ctx context.Context, n notify.Notification) error {
	return r.notifier.Publish(ctx, n)
}

// IsEventBeingProcessed reports whether any service has a member of the
// chain group in flight.
func (r *Runtime) IsEventBeingProcessed(chainID string) bool {
	return r.facade.IsBeingProcessed(chainID)
}

// Shutdown stops intake on all services and waits for them to drain
// within the shared timeout. It returns true only when everything
// terminated in time.
func (r *Runtime) Shutdown(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	ok := r.facade.ShutdownAll(timeout)

	remaining := time.Until(deadline)
	if remaining < 0 {
		remaining = 0
	}
	if !r.notifier.ShutdownTimeout(remaining) {
		ok = false
	}
	return ok
}
