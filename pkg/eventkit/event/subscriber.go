package event

import "context"

// Subscriber handles a single event. The dispatch pipeline constructs a
// fresh instance for every invocation, so implementations must not rely
// on state carried across calls.
type Subscriber interface {
	Handle(ctx context.Context, evt Event) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(ctx context.Context, evt Event) error

// Handle implements Subscriber.
func (f SubscriberFunc) Handle(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// SubscriberKind is a named zero-argument factory for a subscriber
// type. The name is the identity used for de-duplication, unsubscribe,
// audit records, and logs; New is called once per delivered event.
type SubscriberKind struct {
	Name string
	New  func() Subscriber
}
