package domain

import (
	"fmt"
	"time"
)

// DefaultMessageSubject is used when a contact message arrives without a subject
const DefaultMessageSubject = "General Inquiry"

// MessageStatus represents the processing state of a contact message
type MessageStatus string

const (
	MessageStatusNew      MessageStatus = "new"
	MessageStatusRead     MessageStatus = "read"
	MessageStatusArchived MessageStatus = "archived"
)

// Message is an inquiry submitted through the contact form
type Message struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
	Status  MessageStatus

	IPAddress string
	UserAgent string

	CreatedAt time.Time
}

// DisplayID returns the customer facing reference, e.g. MSG-000042
func (m *Message) DisplayID() string {
	return fmt.Sprintf("MSG-%06d", m.ID)
}
