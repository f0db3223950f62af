/*
Package eventkit provides an asynchronous, process-internal event and
notification dispatch engine for decoupling request-handling code from
background work.

# Overview

eventkit is a Go library for publish/subscribe dispatch with distinct
semantics for ordering, singleton (mutually exclusive) execution, event
chaining with success/failure callbacks, and graceful shutdown with
drain semantics. Subscribers run on worker pools, one fresh instance
per invocation, and failures never cross the publish boundary.

The library is organized as:
  - event: event, chain, and subscriber value types
  - dispatch: services, the chain tracker, and the dispatch facade
  - notify: filtered notification broadcast
  - audit, config, observability: the injectable collaborators

# Basic Usage

Build a Runtime from configuration, subscribe, and dispatch:

	cfg, err := config.FromFile("eventkit.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	rt := eventkit.New(cfg, eventkit.WithLogger(slog.Default()))
	defer rt.Shutdown(30 * time.Second)

	rt.Events().Subscribe("order.placed", event.SubscriberKind{
	    Name: "invoice-builder",
	    New:  func() event.Subscriber { return &InvoiceBuilder{} },
	})

	if err := rt.Dispatch(ctx, event.NewBase("order.placed")); err != nil {
	    log.Fatal(err)
	}

The Runtime is an explicit composition root: construct one at process
startup and pass it by reference to whatever publishes or subscribes.
Tests construct isolated Runtimes (or individual services) instead of
resetting global state.
*/
package eventkit
