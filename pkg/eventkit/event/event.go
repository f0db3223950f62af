// Package event defines the value types that flow through eventkit:
// events, chain metadata, callbacks, and subscriber factories.
//
// An Event carries identity only; concrete event types add their own
// payload fields. Two independent extension axes exist on top of the
// base capability:
//   - Chainable: the event belongs to a chain group and may carry
//     success/failure callbacks dispatched after its subscribers run.
//   - Unblocked: the event runs on the elastic pool instead of the
//     bounded worker pool, so cheap fire-and-forget work never queues
//     behind slower tasks.
package event

import "context"

// Kind identifies an event kind. Subscriptions are keyed by Kind, so
// two event types with the same Kind are indistinguishable to the
// dispatch table.
type Kind string

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// Event is the minimal capability carried by everything published to an
// event service. Implementations should be immutable once published.
type Event interface {
	// Kind identifies the event for subscription lookup.
	Kind() Kind
}

// Publisher accepts an event for asynchronous delivery. Both the
// dispatch service and the dispatch facade implement it; chain
// callbacks use it to name an explicit target service.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Callback names a follow-up event dispatched after a chained event's
// subscriber completes.
type Callback struct {
	// Event is the follow-up event to publish.
	Event Event

	// Target is the service the follow-up is published to. A nil
	// Target routes the follow-up through the dispatch facade, which
	// picks every service holding subscriptions for the event's kind.
	Target Publisher
}

// Chainable is implemented by events that participate in a chain group.
// The chain ID groups related events; the member ID identifies this
// event within the group for in-flight tracking.
type Chainable interface {
	Event

	// ChainID returns the opaque identifier of the chain group.
	ChainID() string

	// MemberID returns this event's own opaque identifier.
	MemberID() string

	// Singleton reports whether at most one member of this event's
	// chain group may be in flight at a time. When true and another
	// member is already running, new publishes of this event are
	// dropped, not queued.
	Singleton() bool

	// SuccessCallbacks returns the follow-up events dispatched, in
	// order, after a subscriber completes normally.
	SuccessCallbacks() []Callback

	// FailureCallbacks returns the follow-up events dispatched, in
	// order, after a subscriber fails.
	FailureCallbacks() []Callback
}

// Unblocked marks an event to run on the always-available elastic pool
// rather than the bounded worker pool.
type Unblocked interface {
	Event

	// Unblocked reports whether the elastic pool should run this event.
	Unblocked() bool
}
