package core

import (
	"context"
	"log/slog"
	"time"
)

// Severity grades a user-facing notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// CancelFunc withdraws a notification before its duration elapses.
// Calling it after expiry is safe and does nothing.
type CancelFunc func()

// Notifier is the outward-facing toast surface. The core only produces
// notifications; presenting them (and their undo affordances) is the UI's job.
type Notifier interface {
	Notify(message string, severity Severity, duration time.Duration) CancelFunc
}

// LogNotifier is the default Notifier: it writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(message string, severity Severity, duration time.Duration) CancelFunc {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if severity == SeverityError {
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, message, "severity", string(severity), "duration", duration)
	return func() {}
}
