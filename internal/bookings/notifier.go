package bookings

import "context"

// NotificationKind labels the lifecycle event a notification announces.
type NotificationKind string

const (
	NotificationPending      NotificationKind = "PENDING"
	NotificationConfirmation NotificationKind = "CONFIRMATION"
	NotificationCancelled    NotificationKind = "CANCELLED"
)

// Notifier delivers booking lifecycle notifications. Delivery is best
// effort: failures are logged by the caller and never affect the booking.
type Notifier interface {
	Notify(ctx context.Context, kind NotificationKind, booking *Booking) error
}
