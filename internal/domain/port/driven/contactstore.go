package driven

import (
	"context"
	"errors"
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

// ErrContactNotFound indicates the requested contact message does not exist.
var ErrContactNotFound = errors.New("contact message not found")

// ContactStore defines the driven port for contact message persistence.
type ContactStore interface {
	// Save persists a new message and returns it with ID and CreatedAt assigned.
	Save(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error)
	// MarkDelivered records that the notifier accepted the message.
	// Returns ErrContactNotFound if no message has the given id.
	MarkDelivered(ctx context.Context, id int64, at time.Time) error
	// Get returns a single message. Returns ErrContactNotFound if absent.
	Get(ctx context.Context, id int64) (*model.ContactMessage, error)
	// ListRecent returns up to limit messages, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.ContactMessage, error)
}

// ContactNotifier hands a stored contact message to the outbound delivery
// service (email). Delivery itself happens outside this system.
type ContactNotifier interface {
	Notify(ctx context.Context, msg model.ContactMessage) error
}
