// Package notify implements the ContactNotifier port.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContactNotifier = (*LogNotifier)(nil)

// ErrNoRecipient is returned when the notifier has no recipient configured.
var ErrNoRecipient = errors.New("no contact recipient configured")

// LogNotifier hands contact messages to the operator log instead of an
// outbound mail service.
type LogNotifier struct {
	recipient string
	logger    *slog.Logger
}

// NewLogNotifier creates a LogNotifier addressed to recipient.
func NewLogNotifier(recipient string, logger *slog.Logger) *LogNotifier {
	return &LogNotifier{recipient: recipient, logger: logger}
}

// Notify logs the message for the configured recipient. It fails with
// ErrNoRecipient when none is configured so the message stays undelivered.
func (n *LogNotifier) Notify(ctx context.Context, msg model.ContactMessage) error {
	if n.recipient == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "contact message",
		"to", n.recipient,
		"id", msg.ID,
		"from", msg.Email,
		"length", len(msg.Message),
	)
	return nil
}
