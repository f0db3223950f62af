// Package audit records subscriber executions as an append-only trail.
//
// The dispatch pipeline opens a record before invoking a subscriber and
// stamps it on completion. Recorders are injectable hooks: recorder
// errors are logged by the pipeline and never interrupt dispatch.
package audit

import (
	"context"
	"time"
)

// Entry is one recorded subscriber execution.
type Entry struct {
	ID          int64
	Subscriber  string
	EventKind   string
	StartedAt   time.Time
	CompletedAt time.Time
	Completed   bool
	Error       string
}

// Recorder records subscriber execution start and completion.
type Recorder interface {
	// Begin opens a record for a subscriber invocation and returns its id.
	Begin(ctx context.Context, subscriber, eventKind string) (int64, error)

	// Complete stamps the record with its completion time and, when the
	// invocation failed, the error.
	Complete(ctx context.Context, id int64, runErr error) error
}

// NopRecorder is a Recorder that records nothing.
type NopRecorder struct{}

// Begin does nothing.
func (NopRecorder) Begin(_ context.Context, _, _ string) (int64, error) {
	return 0, nil
}

// Complete does nothing.
func (NopRecorder) Complete(_ context.Context, _ int64, _ error) error {
	return nil
}

// Compile-time interface check.
var _ Recorder = NopRecorder{}
