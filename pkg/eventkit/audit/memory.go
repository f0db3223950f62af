package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryRecorder keeps the execution trail in memory.
// It is suitable for tests and single-process tooling.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int64
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Begin implements Recorder.
func (r *MemoryRecorder) Begin(_ context.Context, subscriber, eventKind string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.entries = append(r.entries, Entry{
		ID:         r.nextID,
		Subscriber: subscriber,
		EventKind:  eventKind,
		StartedAt:  time.Now().UTC(),
	})
	return r.nextID, nil
}

// Complete implements Recorder.
func (r *MemoryRecorder) Complete(_ context.Context, id int64, runErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].CompletedAt = time.Now().UTC()
			r.entries[i].Completed = true
			if runErr != nil {
				r.entries[i].Error = runErr.Error()
			}
			return nil
		}
	}
	return ErrNotFound
}

// Entries returns a copy of all recorded entries in insertion order.
func (r *MemoryRecorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Compile-time interface check.
var _ Recorder = (*MemoryRecorder)(nil)
