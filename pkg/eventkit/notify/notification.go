// Package notify implements the coarser-grained notification side of
// eventkit: user-facing alerts broadcast to handlers selected by
// scope/group/level filters rather than by event kind. Notifications
// are fire-and-forget; there is no chaining, no singleton enforcement,
// and no callback routing.
package notify

import (
	"context"
	"time"
)

// Level is the severity of a notification, used only for filter
// matching, never for escalation.
type Level int

// Severity levels, ordered.
const (
	LevelError Level = iota
	LevelWarning
	LevelInformational
	LevelDebug
	LevelQuiet
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInformational:
		return "INFORMATIONAL"
	case LevelDebug:
		return "DEBUG"
	case LevelQuiet:
		return "QUIET"
	default:
		return "UNKNOWN"
	}
}

// Notification is a user-facing alert. It is immutable once published.
type Notification struct {
	// Scope is the coarse origin, e.g. "SYSTEM".
	Scope string

	// Group categorizes the notification, e.g. "GENERAL".
	Group string

	// Level is the severity.
	Level Level

	// Title is a short human-readable summary.
	Title string

	// Content is the free-text body.
	Content string

	// Time is when the notification was created.
	Time time.Time

	// Subject is an arbitrary payload describing what the notification
	// is about.
	Subject any
}

// Option configures a Notification at construction time.
type Option func(*Notification)

// WithSubject attaches an arbitrary subject payload.
func WithSubject(subject any) Option {
	return func(n *Notification) {
		n.Subject = subject
	}
}

// WithTime overrides the creation timestamp (default: time.Now()).
func WithTime(t time.Time) Option {
	return func(n *Notification) {
		n.Time = t
	}
}

// New creates a Notification with the current timestamp.
func New(scope, group string, level Level, title, content string, opts ...Option) Notification {
	n := Notification{
		Scope:   scope,
		Group:   group,
		Level:   level,
		Title:   title,
		Content: content,
		Time:    time.Now(),
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// Handler processes a single notification. The service constructs a
// fresh instance for every delivery, so implementations must not rely
// on state carried across calls.
type Handler interface {
	Handle(ctx context.Context, n Notification) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, n Notification) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// HandlerKind is a named zero-argument factory for a handler type.
type HandlerKind struct {
	Name string
	New  func() Handler
}
