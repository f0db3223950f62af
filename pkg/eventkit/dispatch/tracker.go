package dispatch

import (
	"sync"

	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
)

// ChainTracker tracks which members of each chain group are currently
// in flight. It enforces the singleton rule: a singleton event is
// dropped when any member of its chain group is already running.
//
// A chain group is present in the tracker if and only if its in-flight
// set is non-empty; the entry is removed when the last member ends.
type ChainTracker struct {
	mu       sync.Mutex
	inFlight map[string]map[string]struct{} // chain id -> member ids
}

// NewChainTracker creates an empty tracker.
func NewChainTracker() *ChainTracker {
	return &ChainTracker{
		inFlight: make(map[string]map[string]struct{}),
	}
}

// TryBegin records evt's member id under its chain group and returns
// true. If evt is a singleton and another member of its group is
// already in flight, nothing is recorded and TryBegin returns false:
// the caller must skip dispatch entirely.
func (t *ChainTracker) TryBegin(evt event.Chainable) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	members := t.inFlight[evt.ChainID()]
	if evt.Singleton() && len(members) > 0 {
		return false
	}
	if members == nil {
		members = make(map[string]struct{})
		t.inFlight[evt.ChainID()] = members
	}
	members[evt.MemberID()] = struct{}{}
	return true
}

// End removes evt's member id from its chain group. The group entry is
// deleted when its set becomes empty.
func (t *ChainTracker) End(evt event.Chainable) {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.inFlight[evt.ChainID()]
	if !ok {
		return
	}
	delete(members, evt.MemberID())
	if len(members) == 0 {
		delete(t.inFlight, evt.ChainID())
	}
}

// InProcess reports whether any member of the chain group is in flight.
func (t *ChainTracker) InProcess(chainID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.inFlight[chainID]
	return ok && len(members) > 0
}
