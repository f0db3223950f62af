package dispatch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/randalmurphal/eventkit/pkg/eventkit/config"
	"github.com/randalmurphal/eventkit/pkg/eventkit/dispatch"
	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
)

func TestDispatchFansOutToAllMatchingServices(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	second := dispatch.New("second", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil, first, second)
	defer facade.ShutdownAll(time.Second)

	var firstRuns, secondRuns atomic.Int32
	first.Subscribe("a", countingKind("s1", &firstRuns))
	second.Subscribe("a", countingKind("s2", &secondRuns))

	if err := facade.Dispatch(context.Background(), event.NewBase("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitFor(t, func() bool { return firstRuns.Load() == 1 && secondRuns.Load() == 1 },
		"expected exactly one invocation on each service")
	time.Sleep(50 * time.Millisecond)
	if firstRuns.Load() != 1 || secondRuns.Load() != 1 {
		t.Errorf("expected one invocation each, got %d and %d", firstRuns.Load(), secondRuns.Load())
	}
}

func TestDispatchSkipsServicesWithoutSubscriptions(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	second := dispatch.New("second", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil, first, second)
	defer facade.ShutdownAll(time.Second)

	var secondRuns atomic.Int32
	second.Subscribe("a", countingKind("s2", &secondRuns))

	facade.Dispatch(context.Background(), event.NewBase("a"))

	waitFor(t, func() bool { return secondRuns.Load() == 1 }, "expected invocation on the subscribed service")
}

func TestDispatchNoMatchIsSilent(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil, first)
	defer facade.ShutdownAll(time.Second)

	if err := facade.Dispatch(context.Background(), event.NewBase("unknown")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatchWithoutServicesFailsFast(t *testing.T) {
	facade := dispatch.NewFacade(nil)

	err := facade.Dispatch(context.Background(), event.NewBase("a"))
	if !errors.Is(err, dispatch.ErrNoServices) {
		t.Errorf("expected ErrNoServices, got %v", err)
	}
}

func TestIsBeingProcessedAcrossServices(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	second := dispatch.New("second", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil, first, second)
	defer facade.ShutdownAll(time.Second)

	gate := make(chan struct{})
	second.Subscribe("a", event.SubscriberKind{
		Name: "slow",
		New: func() event.Subscriber {
			return event.SubscriberFunc(func(ctx context.Context, evt event.Event) error {
				<-gate
				return nil
			})
		},
	})

	evt := event.NewChain("a")
	facade.Dispatch(context.Background(), evt)

	if !facade.IsBeingProcessed(evt.ChainID()) {
		t.Error("expected chain in process on one of the services")
	}

	close(gate)
	waitFor(t, func() bool { return !facade.IsBeingProcessed(evt.ChainID()) },
		"expected chain released everywhere")
}

func TestCallbackWithoutTargetRoutesThroughFacade(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	second := dispatch.New("second", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil, first, second)
	defer facade.ShutdownAll(time.Second)

	var primaryRuns, followUps atomic.Int32
	first.Subscribe("a", countingKind("worker", &primaryRuns))
	// The follow-up kind only has subscribers on the second service; the
	// facade must find it there.
	second.Subscribe("follow", countingKind("downstream", &followUps))

	evt := event.NewChain("a", event.OnSuccess(event.NewBase("follow"), nil))
	facade.Dispatch(context.Background(), evt)

	waitFor(t, func() bool { return followUps.Load() == 1 },
		"expected follow-up routed through the facade to the second service")
}

func TestRegisterRoutesCallbacksOnLiveService(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	second := dispatch.New("second", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil)
	defer facade.ShutdownAll(time.Second)

	gate := make(chan struct{})
	var started atomic.Int32
	first.Subscribe("a", event.SubscriberKind{
		Name: "slow",
		New: func() event.Subscriber {
			return event.SubscriberFunc(func(ctx context.Context, evt event.Event) error {
				started.Add(1)
				<-gate
				return nil
			})
		},
	})

	var followUps atomic.Int32
	second.Subscribe("follow", countingKind("downstream", &followUps))

	evt := event.NewChain("a", event.OnSuccess(event.NewBase("follow"), nil))
	first.Publish(context.Background(), evt)
	waitFor(t, func() bool { return started.Load() == 1 }, "expected subscriber to start")

	// Registering while the event is in flight must be safe and must
	// take effect for callbacks fired after it.
	facade.Register(first)
	facade.Register(second)

	close(gate)
	waitFor(t, func() bool { return followUps.Load() == 1 },
		"expected follow-up routed through the facade registered mid-flight")
}

func TestShutdownAllDrains(t *testing.T) {
	first := dispatch.New("first", config.Pool{Workers: 1})
	second := dispatch.New("second", config.Pool{Workers: 1})
	facade := dispatch.NewFacade(nil, first, second)

	var runs atomic.Int32
	first.Subscribe("a", countingKind("s1", &runs))
	for i := 0; i < 10; i++ {
		first.Publish(context.Background(), event.NewBase("a"))
	}

	if !facade.ShutdownAll(5 * time.Second) {
		t.Fatal("expected all services to drain in time")
	}
	if got := runs.Load(); got != 10 {
		t.Errorf("expected all queued tasks to run, got %d", got)
	}
}
