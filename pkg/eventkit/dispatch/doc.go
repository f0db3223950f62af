/*
Package dispatch implements the asynchronous publish/subscribe engine at
the heart of eventkit.

A Service owns a dispatch table (event kind to ordered subscriber
factories), a chain tracker (in-flight accounting and singleton
enforcement per chain group), a bounded worker pool, and an elastic pool
for events marked Unblocked. Publish never blocks the caller on
subscriber execution: subscribers run as independent tasks, each on a
fresh instance, and failures are routed to the event's failure callbacks
instead of the publisher.

# Basic Usage

	svc := dispatch.New("events", config.Pool{Workers: 4},
	    dispatch.WithLogger(slog.Default()),
	)

	svc.Subscribe("order.placed", event.SubscriberKind{
	    Name: "invoice-builder",
	    New:  func() event.Subscriber { return &InvoiceBuilder{} },
	})

	err := svc.Publish(ctx, event.NewBase("order.placed"))

# Chained Events

Chainable events carry success and failure callbacks. After a
subscriber completes, each success callback's follow-up event is
published to its explicit target service, or through the dispatch
facade when no target is named:

	evt := event.NewChain("catalog.changed",
	    event.WithSingleton(),
	    event.OnSuccess(event.NewBase("catalog.reindex"), nil),
	)

With WithSingleton set, publishing a second member of the same chain
group while one is in flight drops the second silently (logged at info).

# Shutdown

Shutdown stops intake; queued and in-flight tasks drain.
ShutdownTimeout additionally waits for the drain, logging progress, and
reports whether everything terminated in time.
*/
package dispatch
