package worker

import (
	"context"
	"log/slog"
)

// Notification is a rendered staff notification ready for delivery
type Notification struct {
	Subject string
	Body    string
}

// NotificationSender delivers rendered notifications. Actual delivery
// (email, chat) lives outside this service; the default implementation
// writes to the log.
type NotificationSender interface {
	Send(ctx context.Context, n *Notification) error
}

// logSender records notifications in the structured log
type logSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that logs notifications instead of
// delivering them.
func NewLogSender(logger *slog.Logger) NotificationSender {
	return &logSender{logger: logger}
}

// Send logs the notification
func (s *logSender) Send(ctx context.Context, n *Notification) error {
	s.logger.Info("staff notification",
		slog.String("subject", n.Subject),
		slog.String("body", n.Body),
	)
	return nil
}
