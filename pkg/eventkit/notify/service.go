package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit/internal/pool"
	"github.com/randalmurphal/eventkit/pkg/eventkit/observability"
)

// ErrServiceClosed indicates a publish or subscribe on a service that
// has been shut down.
var ErrServiceClosed = errors.New("notify: service closed")

// defaultWorkers is the fixed pool size for notification delivery.
// Notifications are cheap broadcasts; a small pool is enough.
const defaultWorkers = 4

const (
	drainPollInterval = 50 * time.Millisecond
	drainLogInterval  = 3 * time.Second
)

// subscription pairs a filter with the handler it guards.
type subscription struct {
	filter Filter
	kind   HandlerKind
}

// Service broadcasts notifications to handlers whose filters match.
type Service struct {
	name string

	mu   sync.RWMutex
	subs []subscription

	workers *pool.Worker
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	closed  atomic.Bool
}

// options holds optional Service collaborators.
type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	workers int
}

// ServiceOption configures a Service.
type ServiceOption func(*options)

// WithLogger sets the structured logger. Nil disables logging.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) ServiceOption {
	return func(o *options) {
		o.metrics = m
	}
}

// WithWorkers overrides the fixed pool size.
func WithWorkers(n int) ServiceOption {
	return func(o *options) {
		o.workers = n
	}
}

// NewService creates a notification service with a small fixed pool.
func NewService(name string, opts ...ServiceOption) *Service {
	o := options{
		metrics: observability.NoopMetrics{},
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		name:    name,
		workers: pool.NewWorker(o.workers),
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Name returns the service name used in logs and metrics.
func (s *Service) Name() string {
	return s.name
}

// Subscribe registers a handler kind guarded by a filter. Registering
// the same handler name with an equal filter twice is a no-op.
func (s *Service) Subscribe(filter Filter, kind HandlerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.subs {
		if existing.kind.Name == kind.Name && existing.filter.Equal(filter) {
			return
		}
	}
	s.subs = append(s.subs, subscription{filter: filter, kind: kind})
}

// Unsubscribe removes the handler kind from every filter it was
// registered under.
func (s *Service) Unsubscribe(kind HandlerKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.subs[:0]
	for _, existing := range s.subs {
		if existing.kind.Name != kind.Name {
			kept = append(kept, existing)
		}
	}
	s.subs = kept
}

// HasSubscriptions reports whether any registered filter matches n.
func (s *Service) HasSubscriptions(n Notification) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sub := range s.subs {
		if sub.filter.Matches(n) {
			return true
		}
	}
	return false
}

// Publish broadcasts n to every handler whose filter matches. Delivery
// is asynchronous on the fixed pool, one fresh handler instance per
// match. The (scope, group, level) metric is incremented exactly once
// per publish regardless of match count.
func (s *Service) Publish(ctx context.Context, n Notification) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %s", ErrServiceClosed, s.name)
	}

	s.metrics.RecordNotification(ctx, n.Scope, n.Group, n.Level.String())

	s.mu.RLock()
	matched := make([]subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		if sub.filter.Matches(n) {
			matched = append(matched, sub)
		}
	}
	s.mu.RUnlock()

	if len(matched) == 0 {
		observability.LogNotificationUnmatched(s.logger, s.name, n.Group, n.Level.String())
		return nil
	}

	for _, sub := range matched {
		sub := sub
		if !s.workers.Submit(func() { s.deliver(n, sub.kind) }) {
			return fmt.Errorf("%w: %s", ErrServiceClosed, s.name)
		}
		observability.LogNotificationMatched(s.logger, s.name, n.Group, n.Level.String(), sub.kind.Name)
	}
	return nil
}

// deliver constructs a fresh handler and hands it the notification.
// Failures and panics are logged, never propagated.
func (s *Service) deliver(n Notification, kind HandlerKind) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()

		if kind.New == nil {
			return fmt.Errorf("handler kind has no factory")
		}
		handler := kind.New()
		if handler == nil {
			return fmt.Errorf("handler factory returned nil")
		}
		return handler.Handle(context.Background(), n)
	}()

	if err != nil {
		observability.LogHandlerFailure(s.logger, s.name, n.Group, kind.Name, err)
	}
}

// Shutdown stops accepting new publishes. Queued and in-flight
// deliveries continue.
func (s *Service) Shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return // Already shut down.
	}
	s.workers.Shutdown()
}

// ShutdownTimeout calls Shutdown and waits for the pool to drain,
// polling with a bounded sleep and logging drain progress every few
// seconds. It returns false when the timeout elapses first.
func (s *Service) ShutdownTimeout(timeout time.Duration) bool {
	s.Shutdown()

	deadline := time.Now().Add(timeout)
	lastLog := time.Now()
	for {
		if s.workers.Terminated() {
			observability.LogShutdownComplete(s.logger, s.name)
			return true
		}
		stats := s.workers.Stats()
		if !time.Now().Before(deadline) {
			observability.LogShutdownTimeout(s.logger, s.name, stats.Queued, stats.Active)
			return false
		}
		if time.Since(lastLog) >= drainLogInterval {
			observability.LogShutdownProgress(s.logger, s.name, stats.Queued, stats.Active)
			lastLog = time.Now()
		}
		time.Sleep(drainPollInterval)
	}
}
