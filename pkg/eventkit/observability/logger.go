// Package observability provides the logging, metrics, and tracing
// collaborators for eventkit: structured logging via slog (Go stdlib),
// metrics and tracing via OpenTelemetry.
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// LogSubscriberInformed logs a task submission for one subscriber.
func LogSubscriberInformed(logger *slog.Logger, service, eventKind, subscriber string) {
	if logger == nil {
		return
	}
	logger.Debug("subscriber informed",
		slog.String("service", service),
		slog.String("event_kind", eventKind),
		slog.String("subscriber", subscriber),
	)
}

// LogNoSubscribers logs a publish that found no subscribers.
func LogNoSubscribers(logger *slog.Logger, service, eventKind string) {
	if logger == nil {
		return
	}
	logger.Debug("no subscribers for event",
		slog.String("service", service),
		slog.String("event_kind", eventKind),
	)
}

// LogSingletonCollision logs a publish dropped because another member
// of the event's chain group is already in flight.
func LogSingletonCollision(logger *slog.Logger, service, eventKind, chainID string) {
	if logger == nil {
		return
	}
	logger.Info("singleton event dropped, chain already in process",
		slog.String("service", service),
		slog.String("event_kind", eventKind),
		slog.String("chain_id", chainID),
	)
}

// LogSubscriberFailure logs a subscriber construction or invocation
// failure.
func LogSubscriberFailure(logger *slog.Logger, service, eventKind, subscriber string, err error) {
	if logger == nil {
		return
	}
	logger.Error("subscriber failed",
		slog.String("service", service),
		slog.String("event_kind", eventKind),
		slog.String("subscriber", subscriber),
		slog.String("error", err.Error()),
	)
}

// LogCallbackFailure logs a chain callback whose follow-up publish
// returned an error.
func LogCallbackFailure(logger *slog.Logger, service, eventKind, nextKind string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("chain callback publish failed",
		slog.String("service", service),
		slog.String("event_kind", eventKind),
		slog.String("next_kind", nextKind),
		slog.String("error", err.Error()),
	)
}

// LogShutdownProgress logs drain progress while waiting for executors
// to terminate.
func LogShutdownProgress(logger *slog.Logger, service string, queued, active int) {
	if logger == nil {
		return
	}
	logger.Info("shutdown draining",
		slog.String("service", service),
		slog.Int("queued", queued),
		slog.Int("active", active),
	)
}

// LogShutdownTimeout logs a shutdown that did not drain in time.
func LogShutdownTimeout(logger *slog.Logger, service string, queued, active int) {
	if logger == nil {
		return
	}
	logger.Warn("shutdown timed out before drain completed",
		slog.String("service", service),
		slog.Int("queued", queued),
		slog.Int("active", active),
	)
}

// LogShutdownComplete logs a fully drained shutdown.
func LogShutdownComplete(logger *slog.Logger, service string) {
	if logger == nil {
		return
	}
	logger.Info("shutdown complete",
		slog.String("service", service),
	)
}

// LogNotificationMatched logs a notification delivered to a handler.
func LogNotificationMatched(logger *slog.Logger, service, group, level, handler string) {
	if logger == nil {
		return
	}
	logger.Debug("notification matched",
		slog.String("service", service),
		slog.String("group", group),
		slog.String("level", level),
		slog.String("handler", handler),
	)
}

// LogNotificationUnmatched logs a notification that matched no
// subscription filter.
func LogNotificationUnmatched(logger *slog.Logger, service, group, level string) {
	if logger == nil {
		return
	}
	logger.Debug("notification matched no subscriptions",
		slog.String("service", service),
		slog.String("group", group),
		slog.String("level", level),
	)
}

// LogHandlerFailure logs a notification handler construction or
// invocation failure.
func LogHandlerFailure(logger *slog.Logger, service, group, handler string, err error) {
	if logger == nil {
		return
	}
	logger.Error("notification handler failed",
		slog.String("service", service),
		slog.String("group", group),
		slog.String("handler", handler),
		slog.String("error", err.Error()),
	)
}

// LogAuditError logs a failure in the audit recorder. Audit errors
// never interrupt dispatch.
func LogAuditError(logger *slog.Logger, service, subscriber string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("audit record failed",
		slog.String("service", service),
		slog.String("subscriber", subscriber),
		slog.String("error", err.Error()),
	)
}
