package event_test

import (
	"context"
	"testing"

	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
)

func TestBaseKind(t *testing.T) {
	evt := event.NewBase("order.placed")
	if evt.Kind() != "order.placed" {
		t.Errorf("expected kind order.placed, got %s", evt.Kind())
	}
}

func TestNewChainIdentity(t *testing.T) {
	a := event.NewChain("a")
	b := event.NewChain("a")

	if a.ChainID() == "" || a.MemberID() == "" {
		t.Fatal("expected generated chain and member ids")
	}
	if a.ChainID() == b.ChainID() {
		t.Error("expected distinct chain ids for independent chains")
	}
	if a.MemberID() == b.MemberID() {
		t.Error("expected distinct member ids")
	}
}

func TestWithChainID(t *testing.T) {
	first := event.NewChain("a")
	second := event.NewChain("b", event.WithChainID(first.ChainID()))

	if second.ChainID() != first.ChainID() {
		t.Errorf("expected shared chain id %s, got %s", first.ChainID(), second.ChainID())
	}
	if second.MemberID() == first.MemberID() {
		t.Error("expected a fresh member id even within a shared chain")
	}
}

func TestSingletonFlag(t *testing.T) {
	plain := event.NewChain("a")
	if plain.Singleton() {
		t.Error("expected singleton to default to false")
	}

	single := event.NewChain("a", event.WithSingleton())
	if !single.Singleton() {
		t.Error("expected singleton flag to be set")
	}
}

func TestCallbackOrder(t *testing.T) {
	first := event.NewBase("follow.one")
	second := event.NewBase("follow.two")
	failure := event.NewBase("follow.fail")

	evt := event.NewChain("a",
		event.OnSuccess(first, nil),
		event.OnSuccess(second, nil),
		event.OnFailure(failure, nil),
	)

	success := evt.SuccessCallbacks()
	if len(success) != 2 {
		t.Fatalf("expected 2 success callbacks, got %d", len(success))
	}
	if success[0].Event.Kind() != "follow.one" || success[1].Event.Kind() != "follow.two" {
		t.Error("expected success callbacks in registration order")
	}

	failures := evt.FailureCallbacks()
	if len(failures) != 1 || failures[0].Event.Kind() != "follow.fail" {
		t.Error("expected a single failure callback")
	}
}

func TestCallbacksAreCopied(t *testing.T) {
	evt := event.NewChain("a", event.OnSuccess(event.NewBase("next"), nil))

	callbacks := evt.SuccessCallbacks()
	callbacks[0] = event.Callback{}

	if evt.SuccessCallbacks()[0].Event == nil {
		t.Error("mutating the returned slice must not affect the event")
	}
}

func TestSubscriberFunc(t *testing.T) {
	called := false
	sub := event.SubscriberFunc(func(ctx context.Context, evt event.Event) error {
		called = true
		return nil
	})

	if err := sub.Handle(context.Background(), event.NewBase("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected the adapted function to be called")
	}
}
