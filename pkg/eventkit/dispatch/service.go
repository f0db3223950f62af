package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit/audit"
	"github.com/randalmurphal/eventkit/pkg/eventkit/config"
	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
	"github.com/randalmurphal/eventkit/pkg/eventkit/internal/pool"
	"github.com/randalmurphal/eventkit/pkg/eventkit/observability"
)

const (
	// drainPollInterval bounds the sleep between termination checks
	// during ShutdownTimeout. Never busy-spin.
	drainPollInterval = 50 * time.Millisecond

	// drainLogInterval spaces the drain progress log lines.
	drainLogInterval = 3 * time.Second
)

// Service is an event service: it owns the dispatch table, the chain
// tracker, and the executors, and exposes publish/subscribe/shutdown.
//
// Construct one Service per executor domain at process startup and pass
// it by reference to whatever publishes or subscribes; tests construct
// isolated instances.
type Service struct {
	name    string
	table   *Table
	tracker *ChainTracker
	workers *pool.Worker
	elastic *pool.Elastic

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	audit   audit.Recorder

	// router receives chain callbacks that name no explicit target.
	// The facade installs itself here, possibly while worker goroutines
	// are reading it; unset, callbacks loop back to this service.
	router atomic.Pointer[event.Publisher]

	closed atomic.Bool
}

// options holds optional Service collaborators.
type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	audit   audit.Recorder
}

// Option configures a Service.
type Option func(*options)

// WithLogger sets the structured logger. Nil disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithSpanManager sets the trace span manager.
func WithSpanManager(s observability.SpanManager) Option {
	return func(o *options) {
		o.spans = s
	}
}

// WithAuditRecorder sets the execution audit recorder.
func WithAuditRecorder(r audit.Recorder) Option {
	return func(o *options) {
		o.audit = r
	}
}

// New creates a Service with a bounded worker pool sized from p
// (explicit worker count, or CPU cores times multiplier, minimum 1) and
// an elastic pool for events marked Unblocked.
func New(name string, p config.Pool, opts ...Option) *Service {
	return newService(name, p.Size(runtime.NumCPU()), opts...)
}

// NewSingleWorker creates the single-worker Service variant. Ordinary
// events run strictly one at a time; events marked Unblocked still run
// on the elastic pool.
func NewSingleWorker(name string, opts ...Option) *Service {
	return newService(name, 1, opts...)
}

func newService(name string, workers int, opts ...Option) *Service {
	o := options{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		audit:   audit.NopRecorder{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		name:    name,
		table:   NewTable(),
		tracker: NewChainTracker(),
		workers: pool.NewWorker(workers),
		elastic: pool.NewElastic(),
		logger:  o.logger,
		metrics: o.metrics,
		spans:   o.spans,
		audit:   o.audit,
	}
}

// Name returns the service name used in logs and metrics.
func (s *Service) Name() string {
	return s.name
}

// Subscribe registers a subscriber kind for an event kind. Registering
// the same subscriber name twice for the same kind is a no-op.
func (s *Service) Subscribe(kind event.Kind, sub event.SubscriberKind) {
	s.table.Subscribe(kind, sub)
}

// Unsubscribe removes the subscriber kind from every event kind it was
// registered under.
func (s *Service) Unsubscribe(sub event.SubscriberKind) {
	s.table.Unsubscribe(sub)
}

// HasSubscriptions reports whether any subscriber is registered for
// evt's kind.
func (s *Service) HasSubscriptions(evt event.Event) bool {
	return s.table.HasSubscriptions(evt)
}

// IsEventBeingProcessed reports whether any member of the chain group
// is currently in flight on this service.
func (s *Service) IsEventBeingProcessed(chainID string) bool {
	return s.tracker.InProcess(chainID)
}

// setRouter installs the default target for chain callbacks without an
// explicit target. The facade calls this when a service is registered,
// which may happen while published events are already in flight.
func (s *Service) setRouter(r event.Publisher) {
	s.router.Store(&r)
}

// Publish delivers evt to every subscriber registered for its kind,
// asynchronously. It never blocks on subscriber execution and never
// surfaces subscriber failures; the only errors are publishing on a
// shut-down service.
//
// Pipeline per subscriber: construct a fresh instance, open an audit
// record, invoke, stamp the record, then walk the event's success or
// failure callbacks. The chain tracker entry is released once the last
// subscriber task for the event finishes.
func (s *Service) Publish(ctx context.Context, evt event.Event) (err error) {
	if s.closed.Load() {
		return fmt.Errorf("%w: %s", ErrServiceClosed, s.name)
	}

	ctx, span := s.spans.StartPublishSpan(ctx, s.name, evt.Kind().String())
	defer func() { s.spans.EndSpanWithError(span, err) }()

	subs := s.table.Subscribers(evt.Kind())
	if len(subs) == 0 {
		observability.LogNoSubscribers(s.logger, s.name, evt.Kind().String())
		return nil
	}

	// Admission is per event, not per subscriber: a singleton collision
	// drops the event for all its subscribers.
	chained, isChained := evt.(event.Chainable)
	if isChained && !s.tracker.TryBegin(chained) {
		observability.LogSingletonCollision(s.logger, s.name, evt.Kind().String(), chained.ChainID())
		return nil
	}

	s.metrics.RecordPublish(ctx, evt.Kind().String(), s.name)

	// The tracker entry is released when the last subscriber task ends.
	remaining := int64(len(subs))
	release := func() {
		if isChained && atomic.AddInt64(&remaining, -1) == 0 {
			s.tracker.End(chained)
		}
	}

	exec := s.executorFor(evt)
	for i, sub := range subs {
		sub := sub
		submitted := exec.Submit(func() {
			s.run(evt, sub, release)
		})
		if !submitted {
			// Shut down mid-publish: unwind tracking for this and all
			// unsubmitted subscribers.
			for j := i; j < len(subs); j++ {
				release()
			}
			return fmt.Errorf("%w: %s", ErrServiceClosed, s.name)
		}
		observability.LogSubscriberInformed(s.logger, s.name, evt.Kind().String(), sub.Name)
	}
	return nil
}

// executorFor routes Unblocked events to the elastic pool.
func (s *Service) executorFor(evt event.Event) pool.Executor {
	if u, ok := evt.(event.Unblocked); ok && u.Unblocked() {
		return s.elastic
	}
	return s.workers
}

// run executes one subscriber task on a worker.
func (s *Service) run(evt event.Event, sub event.SubscriberKind, release func()) {
	defer release()

	ctx := context.Background()
	ctx, span := s.spans.StartSubscriberSpan(ctx, evt.Kind().String(), sub.Name)

	recordID, auditErr := s.audit.Begin(ctx, sub.Name, evt.Kind().String())
	if auditErr != nil {
		observability.LogAuditError(s.logger, s.name, sub.Name, auditErr)
	}

	start := time.Now()
	err := s.invoke(ctx, evt, sub)
	s.metrics.RecordSubscriberRun(ctx, evt.Kind().String(), sub.Name, time.Since(start), err)
	s.spans.EndSpanWithError(span, err)

	if auditErr == nil {
		if completeErr := s.audit.Complete(ctx, recordID, err); completeErr != nil {
			observability.LogAuditError(s.logger, s.name, sub.Name, completeErr)
		}
	}

	if err != nil {
		observability.LogSubscriberFailure(s.logger, s.name, evt.Kind().String(), sub.Name, err)
		s.fanCallbacks(ctx, evt, true)
		return
	}
	s.fanCallbacks(ctx, evt, false)
}

// invoke constructs a fresh subscriber and hands it the event.
// Construction failures and panics are classified as subscriber
// failures; they never reach the publisher.
func (s *Service) invoke(ctx context.Context, evt event.Event, sub event.SubscriberKind) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SubscriberError{
				EventKind:  evt.Kind(),
				Subscriber: sub.Name,
				Err:        fmt.Errorf("panic: %v", r),
			}
		}
	}()

	if sub.New == nil {
		return &SubscriberError{
			EventKind:  evt.Kind(),
			Subscriber: sub.Name,
			Err:        fmt.Errorf("subscriber kind has no factory"),
		}
	}
	instance := sub.New()
	if instance == nil {
		return &SubscriberError{
			EventKind:  evt.Kind(),
			Subscriber: sub.Name,
			Err:        fmt.Errorf("subscriber factory returned nil"),
		}
	}

	if handleErr := instance.Handle(ctx, evt); handleErr != nil {
		return &SubscriberError{
			EventKind:  evt.Kind(),
			Subscriber: sub.Name,
			Err:        handleErr,
		}
	}
	return nil
}

// fanCallbacks walks the event's success or failure callbacks in order,
// publishing each follow-up to its explicit target or to the router.
func (s *Service) fanCallbacks(ctx context.Context, evt event.Event, failed bool) {
	chained, ok := evt.(event.Chainable)
	if !ok {
		return
	}

	callbacks := chained.SuccessCallbacks()
	if failed {
		callbacks = chained.FailureCallbacks()
	}

	for _, cb := range callbacks {
		if cb.Event == nil {
			continue
		}
		target := cb.Target
		if target == nil {
			if r := s.router.Load(); r != nil {
				target = *r
			}
		}
		if target == nil {
			target = s
		}
		if err := target.Publish(ctx, cb.Event); err != nil {
			observability.LogCallbackFailure(s.logger, s.name, evt.Kind().String(), cb.Event.Kind().String(), err)
		}
	}
}

// Shutdown stops accepting new submissions on both executors. Queued
// and in-flight tasks continue to run.
func (s *Service) Shutdown() {
	if !s.closed.CompareAndSwap(false, true) {
		return // Already shut down.
	}
	s.workers.Shutdown()
	s.elastic.Shutdown()
}

// ShutdownTimeout calls Shutdown and waits for both executors to drain,
// polling with a bounded sleep and logging drain progress every few
// seconds. It returns true once everything terminated, or false when
// the timeout elapses first (logged at warn with queue depth and active
// task counts).
func (s *Service) ShutdownTimeout(timeout time.Duration) bool {
	s.Shutdown()

	deadline := time.Now().Add(timeout)
	lastLog := time.Now()
	for {
		if s.workers.Terminated() && s.elastic.Terminated() {
			observability.LogShutdownComplete(s.logger, s.name)
			return true
		}
		if !time.Now().Before(deadline) {
			queued, active := s.drainStats()
			observability.LogShutdownTimeout(s.logger, s.name, queued, active)
			return false
		}
		if time.Since(lastLog) >= drainLogInterval {
			queued, active := s.drainStats()
			observability.LogShutdownProgress(s.logger, s.name, queued, active)
			lastLog = time.Now()
		}
		time.Sleep(drainPollInterval)
	}
}

// drainStats aggregates queue depth and active task counts across both
// executors.
func (s *Service) drainStats() (queued, active int) {
	w := s.workers.Stats()
	e := s.elastic.Stats()
	return w.Queued + e.Queued, w.Active + e.Active
}

// Compile-time interface check.
var _ event.Publisher = (*Service)(nil)
