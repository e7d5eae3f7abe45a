package model

import "time"

// ContactMessage is a message submitted through the contact form.
// Delivered is false until the notifier has accepted the message.
type ContactMessage struct {
	ID          int64
	Email       string
	Message     string
	Delivered   bool
	CreatedAt   time.Time
	DeliveredAt time.Time
}
