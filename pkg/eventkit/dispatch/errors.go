package dispatch

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
)

// ErrServiceClosed indicates a publish or subscribe on a service that
// has been shut down.
var ErrServiceClosed = errors.New("dispatch: service closed")

// ErrNoServices indicates a facade dispatch with no registered
// services. This is a misconfiguration and fails fast at the call site.
var ErrNoServices = errors.New("dispatch: no services registered")

// SubscriberError wraps a failure raised while constructing or invoking
// a subscriber. It never propagates to the publisher; it is routed to
// the event's failure callbacks and logged.
type SubscriberError struct {
	EventKind  event.Kind
	Subscriber string
	Err        error
}

// Error implements the error interface.
func (e *SubscriberError) Error() string {
	return fmt.Sprintf("subscriber %s failed on %s: %v", e.Subscriber, e.EventKind, e.Err)
}

// Unwrap returns the underlying error.
func (e *SubscriberError) Unwrap() error {
	return e.Err
}
