package bookings

import (
	"context"
	"time"

	"charterly/internal/discounts"
	"charterly/internal/tours"
	"charterly/pkg/logger"

	"github.com/google/uuid"
)

// SessionView is what the workflow endpoints return: the session plus a
// fresh quote for its current selections.
type SessionView struct {
	Session *Session `json:"session"`
	Quote   Quote    `json:"quote"`
	// DiscountReason explains a rejected code; empty otherwise.
	DiscountReason string `json:"discount_reason,omitempty"`
}

type Service interface {
	// Workflow
	StartSession(ctx context.Context, tourID uuid.UUID) (*SessionView, error)
	GetSession(ctx context.Context, id string) (*SessionView, error)
	UpdateSelections(ctx context.Context, id string, req UpdateSelectionsRequest) (*SessionView, error)
	UpdateDetails(ctx context.Context, id string, req UpdateDetailsRequest) (*SessionView, error)
	Advance(ctx context.Context, id string) (*SessionView, error)
	Back(ctx context.Context, id string) (*SessionView, error)
	Submit(ctx context.Context, id string, userID *uuid.UUID) (*Booking, error)
	AbandonSession(ctx context.Context, id string) error

	// Reads
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)

	// Admin lifecycle
	UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*Booking, error)
}

type service struct {
	repo      Repository
	sessions  SessionStore
	tours     tours.Service
	discounts discounts.Service
	notifier  Notifier
	policy    TravelDiscountPolicy
	log       *logger.Logger
}

func NewService(
	repo Repository,
	sessions SessionStore,
	tourService tours.Service,
	discountService discounts.Service,
	notifier Notifier,
	policy TravelDiscountPolicy,
	log *logger.Logger,
) Service {
	return &service{
		repo:      repo,
		sessions:  sessions,
		tours:     tourService,
		discounts: discountService,
		notifier:  notifier,
		policy:    policy,
		log:       log,
	}
}

func (s *service) StartSession(ctx context.Context, tourID uuid.UUID) (*SessionView, error) {
	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !tour.Status.IsBookable() {
		return nil, ErrTourNotBookable
	}

	session := NewSession(uuid.NewString(), tour)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) GetSession(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) UpdateSelections(ctx context.Context, id string, req UpdateSelectionsRequest) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SwitchTourID != nil && *req.SwitchTourID != session.TourID {
		if err := s.switchTour(ctx, session, *req.SwitchTourID); err != nil {
			return nil, err
		}
	}

	if req.Date != nil {
		session.Date = *req.Date
	}
	for name, count := range req.GuestCounts {
		session.SetGuestCount(name, count)
	}
	if req.Quantity != nil {
		session.SetQuantity(*req.Quantity)
	}
	if req.ToggleAddon != nil {
		session.ToggleAddon(*req.ToggleAddon)
	}
	if req.Travel != nil {
		session.Travel = TravelType(*req.Travel)
	}
	if req.Deck != nil {
		session.Deck = *req.Deck
	}
	if req.VehicleIndex != nil {
		session.VehicleIndex = *req.VehicleIndex
		if session.VehicleIndex >= len(session.Features.TransferVehicles) {
			session.VehicleIndex = -1
		}
	}

	discountReason := ""
	if req.DiscountCode != nil {
		discountReason = s.applyDiscount(ctx, session, *req.DiscountCode)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	view := s.view(session)
	view.DiscountReason = discountReason
	return view, nil
}

// switchTour re-snapshots the session onto a linked tour, resetting every
// selection to the new tour's defaults.
func (s *service) switchTour(ctx context.Context, session *Session, tourID string) error {
	parsed, err := uuid.Parse(tourID)
	if err != nil {
		return NewValidationError("switch_tour_id", "invalid tour id")
	}
	tour, err := s.tours.GetTourByID(ctx, parsed)
	if err != nil {
		return err
	}
	if !tour.Status.IsBookable() {
		return ErrTourNotBookable
	}
	session.SetTour(tour)
	return nil
}

// applyDiscount validates a code against the pre-discount subtotal. A code
// that does not apply clears any previous discount and returns the reason;
// an empty code just clears.
func (s *service) applyDiscount(ctx context.Context, session *Session, code string) string {
	session.Discount = nil
	session.DiscountID = ""
	if code == "" {
		return ""
	}

	quote := session.Quote(s.policy)
	result, err := s.discounts.Validate(ctx, discounts.ValidateRequest{
		Code:     code,
		TourID:   session.TourID,
		Subtotal: quote.Subtotal,
	})
	if err != nil {
		s.log.ErrorWithContext(ctx, "Discount validation failed", err, nil)
		return "could not validate code, try again"
	}
	if !result.Valid {
		return result.Reason
	}

	session.Discount = &AppliedDiscount{
		Code:       result.Discount.Code,
		Percentage: result.Discount.Type == discounts.DiscountTypePercentage,
		Value:      result.Discount.Value,
	}
	session.DiscountID = result.Discount.ID.String()
	return ""
}

func (s *service) UpdateDetails(ctx context.Context, id string, req UpdateDetailsRequest) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Name = req.Name
	session.Email = req.Email
	session.Phone = req.Phone
	session.SpecialRequests = req.SpecialRequests

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) Advance(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.Advance(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

func (s *service) Back(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session.Back()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// Submit runs the confirmation protocol: resolve identity, assemble the
// record, persist pending, then notify. The notification is fired on its
// own goroutine and its failure is only ever logged. A persistence failure
// leaves the session on the confirm step with the in-flight flag cleared so
// the customer can retry.
func (s *service) Submit(ctx context.Context, id string, userID *uuid.UUID) (*Booking, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step != StepConfirm {
		return nil, NewValidationError("step", "booking is not ready to submit")
	}
	if session.Submitting {
		return nil, ErrSubmissionInFlight
	}

	session.Submitting = true
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	booking, err := s.assemble(session, userID)
	if err == nil {
		err = s.repo.Create(ctx, booking)
	}
	if err != nil {
		session.Submitting = false
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			s.log.ErrorWithContext(ctx, "Failed to release submission flag", saveErr, nil)
		}
		if _, ok := err.(*ValidationError); ok {
			return nil, err
		}
		return nil, NewPersistenceError(err)
	}

	if session.DiscountID != "" {
		if discountID, parseErr := uuid.Parse(session.DiscountID); parseErr == nil {
			if useErr := s.discounts.RecordUse(ctx, discountID); useErr != nil {
				s.log.ErrorWithContext(ctx, "Failed to record discount use", useErr, nil)
			}
		}
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to delete booking session", err, nil)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.TourID.String(), booking.TotalPrice)
	s.dispatchNotification(NotificationPending, booking)

	return booking, nil
}

func (s *service) assemble(session *Session, userID *uuid.UUID) (*Booking, error) {
	date, err := time.Parse("2006-01-02", session.Date)
	if err != nil {
		return nil, NewValidationError("date", "date must be YYYY-MM-DD")
	}

	quote := session.Quote(s.policy)

	tourID, err := uuid.Parse(session.TourID)
	if err != nil {
		return nil, NewValidationError("tour_id", "invalid tour id")
	}

	booking := &Booking{
		ID:              uuid.New(),
		TourID:          tourID,
		TourName:        session.TourName,
		Date:            date,
		GuestCounts:     GuestCounts{},
		CustomerName:    session.Name,
		CustomerEmail:   session.Email,
		CustomerPhone:   session.Phone,
		SpecialRequests: buildSpecialRequests(session, quote),
		TotalPrice:      quote.Total,
		Status:          StatusPending,
		BookingType:     BookingTypePerPerson,
		UserID:          userID,
	}

	if quote.IsFullCharter {
		booking.BookingType = BookingTypeFullYacht
	}
	if session.Features.BookingMode == tours.BookingModeQuantity {
		booking.Quantity = session.Quantity
	} else {
		for name, count := range session.GuestCounts {
			if count > 0 {
				booking.GuestCounts[name] = count
			}
		}
	}
	if session.DiscountID != "" {
		if discountID, parseErr := uuid.Parse(session.DiscountID); parseErr == nil {
			booking.DiscountID = &discountID
		}
	}

	return booking, nil
}

// dispatchNotification fires and forgets. The booking's fate never depends
// on delivery.
func (s *service) dispatchNotification(kind NotificationKind, booking *Booking) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, kind, booking); err != nil {
			s.log.LogNotificationFailure(ctx, booking.ID.String(), string(kind), err)
		}
	}()
}

func (s *service) AbandonSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListBookings(ctx context.Context, query BookingListQuery) (*PaginatedBookings, error) {
	bookings, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	return paginate(bookings, total, query), nil
}

func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	bookings, total, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return paginate(bookings, total, query), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target Status) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}

	from := booking.Status
	booking.Status = target
	s.log.LogBookingStatusChanged(ctx, booking.ID.String(), from.String(), target.String())

	switch target {
	case StatusConfirmed:
		s.dispatchNotification(NotificationConfirmation, booking)
	case StatusCancelled:
		s.dispatchNotification(NotificationCancelled, booking)
	}

	return booking, nil
}

func (s *service) view(session *Session) *SessionView {
	return &SessionView{
		Session: session,
		Quote:   session.Quote(s.policy),
	}
}

func paginate(bookings []Booking, total int64, query BookingListQuery) *PaginatedBookings {
	return &PaginatedBookings{
		Bookings:   bookings,
		Total:      total,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalPages: CalculateTotalPages(total, query.PageSize),
	}
}
