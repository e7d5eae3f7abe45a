package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

// MaxContactMessageLength bounds the message body in runes.
const MaxContactMessageLength = 5000

var (
	// ErrInvalidContact wraps every validation failure of a contact submission.
	ErrInvalidContact = errors.New("invalid contact submission")

	// ErrDeliveryFailed is returned when a message was stored but the
	// notifier could not forward it.
	ErrDeliveryFailed = errors.New("contact message delivery failed")
)

// ContactService validates, stores, and forwards contact form submissions.
type ContactService struct {
	store    driven.ContactStore
	notifier driven.ContactNotifier
	now      func() time.Time
	logger   *slog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(store driven.ContactStore, notifier driven.ContactNotifier, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the service clock. Intended for tests.
func (s *ContactService) WithClock(now func() time.Time) *ContactService {
	s.now = now
	return s
}

// ValidateContact normalizes and checks a submission, returning the trimmed
// email and message.
func ValidateContact(email, message string) (string, string, error) {
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if email == "" {
		return "", "", fmt.Errorf("%w: email is required", ErrInvalidContact)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "", fmt.Errorf("%w: email %q is not a valid address", ErrInvalidContact, email)
	}
	if message == "" {
		return "", "", fmt.Errorf("%w: message is required", ErrInvalidContact)
	}
	if utf8.RuneCountInString(message) > MaxContactMessageLength {
		return "", "", fmt.Errorf("%w: message exceeds %d characters", ErrInvalidContact, MaxContactMessageLength)
	}

	return email, message, nil
}

// Submit stores the submission and forwards it to the notifier. The stored
// message is returned even when delivery fails, together with
// ErrDeliveryFailed; it stays undelivered in the store.
func (s *ContactService) Submit(ctx context.Context, email, message string) (model.ContactMessage, error) {
	email, message, err := ValidateContact(email, message)
	if err != nil {
		return model.ContactMessage{}, err
	}

	saved, err := s.store.Save(ctx, model.ContactMessage{
		Email:     email,
		Message:   message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("saving contact message: %w", err)
	}

	if err := s.notifier.Notify(ctx, saved); err != nil {
		s.logger.Error("contact notification failed", "id", saved.ID, "error", err)
		return saved, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	deliveredAt := s.now().UTC()
	if err := s.store.MarkDelivered(ctx, saved.ID, deliveredAt); err != nil {
		// Delivery already happened; the flag is bookkeeping only.
		s.logger.Warn("marking contact message delivered failed", "id", saved.ID, "error", err)
		return saved, nil
	}

	saved.Delivered = true
	saved.DeliveredAt = deliveredAt
	s.logger.Info("contact message delivered", "id", saved.ID)

	return saved, nil
}

// Recent lists the most recent stored messages, newest first.
func (s *ContactService) Recent(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	messages, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	return messages, nil
}

// Get returns one stored message. A missing id yields an error wrapping
// driven.ErrContactNotFound.
func (s *ContactService) Get(ctx context.Context, id int64) (model.ContactMessage, error) {
	msg, err := s.store.Get(ctx, id)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("getting contact message: %w", err)
	}
	return *msg, nil
}

// Redeliver forwards a stored message that the notifier previously rejected.
// Messages already delivered are returned unchanged without notifying again.
func (s *ContactService) Redeliver(ctx context.Context, id int64) (model.ContactMessage, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return model.ContactMessage{}, err
	}
	if msg.Delivered {
		return msg, nil
	}

	if err := s.notifier.Notify(ctx, msg); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	deliveredAt := s.now().UTC()
	if err := s.store.MarkDelivered(ctx, msg.ID, deliveredAt); err != nil {
		return msg, fmt.Errorf("marking contact message delivered: %w", err)
	}

	msg.Delivered = true
	msg.DeliveredAt = deliveredAt
	s.logger.Info("contact message redelivered", "id", msg.ID)

	return msg, nil
}
