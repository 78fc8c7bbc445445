package notifications

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"charterly/internal/bookings"
	"charterly/pkg/logger"
)

// Service turns booking lifecycle events into Kafka messages. It satisfies
// the booking module's Notifier contract. With no producer configured it
// degrades to log-only, which keeps local development working without a
// broker.
type Service struct {
	producer Producer
	log      *logger.Logger
}

func NewService(producer Producer, log *logger.Logger) *Service {
	return &Service{producer: producer, log: log}
}

func (s *Service) Notify(ctx context.Context, kind bookings.NotificationKind, booking *bookings.Booking) error {
	notification := buildFromBooking(kind, booking)

	if s.producer == nil {
		s.log.Info("Notification (log only, no broker configured)",
			"kind", notification.Kind,
			"booking_id", notification.BookingID.String(),
			"recipient", notification.RecipientEmail,
		)
		return nil
	}

	return s.producer.Publish(ctx, notification)
}

func buildFromBooking(kind bookings.NotificationKind, booking *bookings.Booking) *BookingNotification {
	notification := NewBookingNotification(mapKind(kind))
	notification.RecipientEmail = booking.CustomerEmail
	notification.RecipientName = booking.CustomerName
	notification.BookingID = booking.ID
	notification.TourName = booking.TourName
	notification.Date = booking.Date.Format("2006-01-02")
	notification.TotalPrice = booking.TotalPrice
	notification.GuestLine = guestLine(booking)
	return notification
}

func mapKind(kind bookings.NotificationKind) Kind {
	switch kind {
	case bookings.NotificationConfirmation:
		return KindConfirmation
	case bookings.NotificationCancelled:
		return KindCancelled
	default:
		return KindPending
	}
}

func guestLine(booking *bookings.Booking) string {
	if booking.Quantity > 0 {
		return fmt.Sprintf("Units: %d", booking.Quantity)
	}
	if len(booking.GuestCounts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(booking.GuestCounts))
	for name, count := range booking.GuestCounts {
		parts = append(parts, fmt.Sprintf("%s: %d", name, count))
	}
	sort.Strings(parts)
	return "Party: " + strings.Join(parts, ", ")
}
