package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
	"github.com/randalmurphal/eventkit/pkg/eventkit/observability"
)

// Facade fans a single dispatch call out to every registered service
// holding subscriptions for the event's kind, so callers need not know
// which pool handles which event. It holds no dispatch state of its
// own.
//
// Registering a service also installs the facade as that service's
// default route for chain callbacks without an explicit target.
type Facade struct {
	mu       sync.RWMutex
	services []*Service
	logger   *slog.Logger
}

// NewFacade creates a facade over the given services.
func NewFacade(logger *slog.Logger, services ...*Service) *Facade {
	f := &Facade{logger: logger}
	for _, svc := range services {
		f.Register(svc)
	}
	return f
}

// Register adds a service to the facade and installs the facade as the
// service's default callback route.
func (f *Facade) Register(svc *Service) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.services = append(f.services, svc)
	svc.setRouter(f)
}

// Dispatch publishes evt to every registered service with at least one
// subscription for its kind. An event kind may legitimately have
// subscribers on more than one service; all of them receive it. With no
// matching service the call logs at debug and does nothing.
//
// Dispatching with no services registered at all is a misconfiguration
// and returns ErrNoServices.
func (f *Facade) Dispatch(ctx context.Context, evt event.Event) error {
	f.mu.RLock()
	services := make([]*Service, len(f.services))
	copy(services, f.services)
	f.mu.RUnlock()

	if len(services) == 0 {
		return ErrNoServices
	}

	var errs []error
	matched := false
	for _, svc := range services {
		if !svc.HasSubscriptions(evt) {
			continue
		}
		matched = true
		if err := svc.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	if !matched {
		observability.LogNoSubscribers(f.logger, "facade", evt.Kind().String())
	}
	return errors.Join(errs...)
}

// Publish implements event.Publisher so the facade can serve as a chain
// callback target. It is equivalent to Dispatch.
func (f *Facade) Publish(ctx context.Context, evt event.Event) error {
	return f.Dispatch(ctx, evt)
}

// IsBeingProcessed reports whether any registered service has a member
// of the chain group in flight.
func (f *Facade) IsBeingProcessed(chainID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, svc := range f.services {
		if svc.IsEventBeingProcessed(chainID) {
			return true
		}
	}
	return false
}

// ShutdownAll shuts down every registered service and waits for all of
// them to drain within the shared timeout. It returns true only when
// every service terminated in time.
func (f *Facade) ShutdownAll(timeout time.Duration) bool {
	f.mu.RLock()
	services := make([]*Service, len(f.services))
	copy(services, f.services)
	f.mu.RUnlock()

	// Stop intake everywhere before waiting on any drain.
	for _, svc := range services {
		svc.Shutdown()
	}

	deadline := time.Now().Add(timeout)
	ok := true
	for _, svc := range services {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		if !svc.ShutdownTimeout(remaining) {
			ok = false
		}
	}
	return ok
}

// Compile-time interface check.
var _ event.Publisher = (*Facade)(nil)
