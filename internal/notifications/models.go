package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind labels which booking lifecycle event a notification announces.
type Kind string

const (
	KindPending      Kind = "PENDING"
	KindConfirmation Kind = "CONFIRMATION"
	KindCancelled    Kind = "CANCELLED"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindPending, KindConfirmation, KindCancelled:
		return true
	}
	return false
}

type Status string

const (
	StatusPending Status = "PENDING"
	StatusQueued  Status = "QUEUED"
	StatusSending Status = "SENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// BookingNotification is the message that travels through Kafka from the
// booking service to the email workers.
type BookingNotification struct {
	ID   uuid.UUID `json:"id"`
	Kind Kind      `json:"kind"`

	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`

	BookingID  uuid.UUID `json:"booking_id"`
	TourName   string    `json:"tour_name"`
	Date       string    `json:"date"`
	TotalPrice float64   `json:"total_price"`
	GuestLine  string    `json:"guest_line,omitempty"`

	Status     Status  `json:"status"`
	RetryCount int     `json:"retry_count"`
	MaxRetries int     `json:"max_retries"`
	LastError  *string `json:"last_error,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

func NewBookingNotification(kind Kind) *BookingNotification {
	now := time.Now()
	return &BookingNotification{
		ID:         uuid.New(),
		Kind:       kind,
		Status:     StatusPending,
		MaxRetries: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// PartitionKey routes every message for one booking to the same partition so
// its lifecycle events stay ordered.
func (n *BookingNotification) PartitionKey() string {
	return n.BookingID.String()
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *BookingNotification) MarkSent() {
	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *BookingNotification) MarkFailed(err error) {
	n.Status = StatusFailed
	n.UpdatedAt = time.Now()
	errStr := err.Error()
	n.LastError = &errStr
}

// Subject builds the email subject for the notification's kind.
func (n *BookingNotification) Subject() string {
	switch n.Kind {
	case KindPending:
		return "We received your booking for " + n.TourName
	case KindConfirmation:
		return "Your booking for " + n.TourName + " is confirmed"
	case KindCancelled:
		return "Your booking for " + n.TourName + " has been cancelled"
	default:
		return "Update on your booking"
	}
}
