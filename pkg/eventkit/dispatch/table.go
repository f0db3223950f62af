package dispatch

import (
	"sync"

	"github.com/randalmurphal/eventkit/pkg/eventkit/event"
)

// Table maps event kinds to the ordered list of subscriber kinds
// registered for them. Lists are insertion-ordered and de-duplicated by
// subscriber name. Readers never observe a partially updated list:
// lookups copy under a read lock.
type Table struct {
	mu   sync.RWMutex
	subs map[event.Kind][]event.SubscriberKind
}

// NewTable creates an empty dispatch table.
func NewTable() *Table {
	return &Table{
		subs: make(map[event.Kind][]event.SubscriberKind),
	}
}

// Subscribe appends sub to the list for kind. Registering the same
// subscriber name twice for the same kind is a no-op.
func (t *Table) Subscribe(kind event.Kind, sub event.SubscriberKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, existing := range t.subs[kind] {
		if existing.Name == sub.Name {
			return
		}
	}
	t.subs[kind] = append(t.subs[kind], sub)
}

// Unsubscribe removes the subscriber name from every kind's list.
// Absent names are ignored.
func (t *Table) Unsubscribe(sub event.SubscriberKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for kind, list := range t.subs {
		kept := list[:0]
		for _, existing := range list {
			if existing.Name != sub.Name {
				kept = append(kept, existing)
			}
		}
		t.subs[kind] = kept
	}
}

// HasSubscriptions reports whether at least one subscriber is
// registered for evt's kind. A present-but-empty list counts as having
// no subscriptions.
func (t *Table) HasSubscriptions(evt event.Event) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs[evt.Kind()]) > 0
}

// Subscribers returns a copy of the subscriber list for kind, in
// registration order.
func (t *Table) Subscribers(kind event.Kind) []event.SubscriberKind {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := t.subs[kind]
	if len(list) == 0 {
		return nil
	}
	out := make([]event.SubscriberKind, len(list))
	copy(out, list)
	return out
}
