package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/devfolio/internal/domain/model"
	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContactStore = (*ContactRepo)(nil)

// timeLayout is the storage format of every timestamp column. It is fixed
// width so that text ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ContactRepo is the SQLite implementation of the ContactStore port interface.
type ContactRepo struct {
	db *DB
}

// NewContactRepo creates a new ContactRepo backed by the given DB.
func NewContactRepo(db *DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Save inserts a new contact message and returns it with its assigned ID.
// A zero CreatedAt is replaced by the current time.
func (r *ContactRepo) Save(ctx context.Context, msg model.ContactMessage) (model.ContactMessage, error) {
	const query = `INSERT INTO contact_messages (email, message, delivered, created_at) VALUES (?, ?, 0, ?)`

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	createdAt = createdAt.UTC()

	result, err := r.db.Writer.ExecContext(ctx, query, msg.Email, msg.Message, createdAt.Format(timeLayout))
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("save contact message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("get contact message id: %w", err)
	}

	return model.ContactMessage{
		ID:        id,
		Email:     msg.Email,
		Message:   msg.Message,
		CreatedAt: createdAt,
	}, nil
}

// MarkDelivered flags a message as delivered at the given time. Returns
// driven.ErrContactNotFound if no message has the ID.
func (r *ContactRepo) MarkDelivered(ctx context.Context, id int64, at time.Time) error {
	const query = `UPDATE contact_messages SET delivered = 1, delivered_at = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, at.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("mark contact message %d delivered: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("contact message %d: %w", id, driven.ErrContactNotFound)
	}

	return nil
}

// Get returns one message by ID, or driven.ErrContactNotFound.
func (r *ContactRepo) Get(ctx context.Context, id int64) (*model.ContactMessage, error) {
	const query = `SELECT id, email, message, delivered, created_at, delivered_at
		FROM contact_messages WHERE id = ?`

	msg, err := scanContact(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("contact message %d: %w", id, driven.ErrContactNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact message %d: %w", id, err)
	}

	return &msg, nil
}

// ListRecent returns up to limit messages, newest first.
func (r *ContactRepo) ListRecent(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	const query = `SELECT id, email, message, delivered, created_at, delivered_at
		FROM contact_messages ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []model.ContactMessage{}
	for rows.Next() {
		msg, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}

	return messages, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (model.ContactMessage, error) {
	var (
		msg         model.ContactMessage
		delivered   int
		createdAt   string
		deliveredAt sql.NullString
	)

	if err := row.Scan(&msg.ID, &msg.Email, &msg.Message, &delivered, &createdAt, &deliveredAt); err != nil {
		return model.ContactMessage{}, err
	}

	var err error
	msg.Delivered = delivered == 1
	msg.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("parse created_at: %w", err)
	}

	if deliveredAt.Valid {
		msg.DeliveredAt, err = parseTime(deliveredAt.String)
		if err != nil {
			return model.ContactMessage{}, fmt.Errorf("parse delivered_at: %w", err)
		}
	}

	return msg, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
