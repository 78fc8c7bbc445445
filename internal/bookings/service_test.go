package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"charterly/internal/discounts"
	"charterly/internal/tours"
	"charterly/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*Session)}
}

func (m *memorySessionStore) Create(ctx context.Context, session *Session) error {
	return m.Save(ctx, session)
}

func (m *memorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *memorySessionStore) Save(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type fakeBookingRepo struct {
	mu        sync.Mutex
	createErr error
	created   []*Booking
	byID      map[uuid.UUID]*Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[uuid.UUID]*Booking)}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, booking)
	r.byID[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.byID[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.byID[id]
	if !ok {
		return ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (r *fakeBookingRepo) CountByTour(ctx context.Context, tourID uuid.UUID, status Status) (int64, error) {
	return 0, nil
}

type fakeTourService struct {
	tours.Service
	tour *tours.TourResponse
}

func (f *fakeTourService) GetTourByID(ctx context.Context, id uuid.UUID) (*tours.TourResponse, error) {
	if f.tour == nil || f.tour.ID != id {
		return nil, tours.ErrTourNotFound
	}
	return f.tour, nil
}

type fakeDiscountService struct {
	discounts.Service
	result   *discounts.ValidateResponse
	recorded []uuid.UUID
	mu       sync.Mutex
}

func (f *fakeDiscountService) Validate(ctx context.Context, req discounts.ValidateRequest) (*discounts.ValidateResponse, error) {
	if f.result == nil {
		return &discounts.ValidateResponse{Valid: false, Reason: discounts.ReasonNotFound}, nil
	}
	return f.result, nil
}

func (f *fakeDiscountService) RecordUse(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, id)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	sent  []NotificationKind
	done  chan struct{}
	fails bool
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 8)}
}

func (n *recordingNotifier) Notify(ctx context.Context, kind NotificationKind, booking *Booking) error {
	n.mu.Lock()
	n.sent = append(n.sent, kind)
	n.mu.Unlock()
	n.done <- struct{}{}
	if n.fails {
		return errors.New("broker unavailable")
	}
	return nil
}

// ---- helpers ----

type serviceFixture struct {
	service   Service
	repo      *fakeBookingRepo
	store     *memorySessionStore
	discounts *fakeDiscountService
	notifier  *recordingNotifier
	tour      *tours.TourResponse
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	tour := testTour("Sunset Cruise", perPersonFeatures())
	fixture := &serviceFixture{
		repo:      newFakeBookingRepo(),
		store:     newMemorySessionStore(),
		discounts: &fakeDiscountService{},
		notifier:  newRecordingNotifier(),
		tour:      tour,
	}
	fixture.service = NewService(
		fixture.repo,
		fixture.store,
		&fakeTourService{tour: tour},
		fixture.discounts,
		fixture.notifier,
		TravelDiscountSelfAndPersonal,
		logger.New(),
	)
	return fixture
}

func (f *serviceFixture) readySession(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	view, err := f.service.StartSession(ctx, f.tour.ID)
	require.NoError(t, err)
	id := view.Session.ID

	_, err = f.service.UpdateSelections(ctx, id, UpdateSelectionsRequest{Date: strPtr("2026-10-01")})
	require.NoError(t, err)
	_, err = f.service.Advance(ctx, id)
	require.NoError(t, err)

	_, err = f.service.UpdateDetails(ctx, id, UpdateDetailsRequest{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Phone: "+4512345678",
	})
	require.NoError(t, err)
	_, err = f.service.Advance(ctx, id)
	require.NoError(t, err)

	return id
}

func strPtr(s string) *string { return &s }

// ---- tests ----

func TestSubmitCreatesPendingBookingAndNotifies(t *testing.T) {
	fixture := newServiceFixture(t)
	id := fixture.readySession(t)

	booking, err := fixture.service.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, fixture.tour.ID, booking.TourID)
	assert.Nil(t, booking.UserID)
	assert.Equal(t, 1, booking.GuestCounts["adult"])

	<-fixture.notifier.done
	fixture.notifier.mu.Lock()
	defer fixture.notifier.mu.Unlock()
	assert.Equal(t, []NotificationKind{NotificationPending}, fixture.notifier.sent)

	// Session is gone after a successful submit
	_, err = fixture.service.GetSession(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitStampsAuthenticatedOwner(t *testing.T) {
	fixture := newServiceFixture(t)
	id := fixture.readySession(t)
	userID := uuid.New()

	booking, err := fixture.service.Submit(context.Background(), id, &userID)
	require.NoError(t, err)
	require.NotNil(t, booking.UserID)
	assert.Equal(t, userID, *booking.UserID)
}

func TestSubmitFailureLeavesSessionOnConfirmStep(t *testing.T) {
	fixture := newServiceFixture(t)
	id := fixture.readySession(t)
	fixture.repo.createErr = errors.New("ERROR: permission denied for table bookings")

	_, err := fixture.service.Submit(context.Background(), id, nil)
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.True(t, persistErr.PermissionDenied)
	assert.Equal(t, "Unable to create booking. Please try again or contact support.", persistErr.UserMessage())

	// The session survives on the confirm step with the in-flight flag
	// cleared, so the customer can retry.
	view, err := fixture.service.GetSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, view.Session.Step)
	assert.False(t, view.Session.Submitting)

	// And the retry succeeds once the store recovers
	fixture.repo.createErr = nil
	_, err = fixture.service.Submit(context.Background(), id, nil)
	assert.NoError(t, err)
}

func TestSubmitBeforeConfirmStepRejected(t *testing.T) {
	fixture := newServiceFixture(t)

	view, err := fixture.service.StartSession(context.Background(), fixture.tour.ID)
	require.NoError(t, err)

	_, err = fixture.service.Submit(context.Background(), view.Session.ID, nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "step", validationErr.Field)
}

func TestSubmitWhileSubmissionInFlightRejected(t *testing.T) {
	fixture := newServiceFixture(t)
	id := fixture.readySession(t)

	// A submission is already outstanding for this session.
	fixture.store.mu.Lock()
	fixture.store.sessions[id].Submitting = true
	fixture.store.mu.Unlock()

	_, err := fixture.service.Submit(context.Background(), id, nil)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Empty(t, fixture.repo.created, "a rejected duplicate submit must not create a booking")

	// Once the outstanding attempt releases the flag, submit goes through.
	fixture.store.mu.Lock()
	fixture.store.sessions[id].Submitting = false
	fixture.store.mu.Unlock()

	_, err = fixture.service.Submit(context.Background(), id, nil)
	assert.NoError(t, err)
}

func TestNotificationFailureDoesNotAffectBooking(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.notifier.fails = true
	id := fixture.readySession(t)

	booking, err := fixture.service.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	<-fixture.notifier.done

	stored, err := fixture.service.GetBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestSubmitRecordsDiscountUse(t *testing.T) {
	fixture := newServiceFixture(t)
	discountID := uuid.New()
	fixture.discounts.result = &discounts.ValidateResponse{
		Valid: true,
		Discount: &discounts.Discount{
			ID:    discountID,
			Code:  "TEN",
			Type:  discounts.DiscountTypePercentage,
			Value: 10,
		},
		Amount: 10,
	}

	ctx := context.Background()
	view, err := fixture.service.StartSession(ctx, fixture.tour.ID)
	require.NoError(t, err)
	id := view.Session.ID

	updated, err := fixture.service.UpdateSelections(ctx, id, UpdateSelectionsRequest{
		Date:         strPtr("2026-10-01"),
		DiscountCode: strPtr("TEN"),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.DiscountReason)
	assert.Equal(t, 10.0, updated.Quote.DiscountAmount)

	_, err = fixture.service.Advance(ctx, id)
	require.NoError(t, err)
	_, err = fixture.service.UpdateDetails(ctx, id, UpdateDetailsRequest{
		Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+4512345678",
	})
	require.NoError(t, err)
	_, err = fixture.service.Advance(ctx, id)
	require.NoError(t, err)

	booking, err := fixture.service.Submit(ctx, id, nil)
	require.NoError(t, err)
	require.NotNil(t, booking.DiscountID)
	assert.Equal(t, discountID, *booking.DiscountID)

	fixture.discounts.mu.Lock()
	defer fixture.discounts.mu.Unlock()
	assert.Equal(t, []uuid.UUID{discountID}, fixture.discounts.recorded)
}

func TestRejectedDiscountReturnsReason(t *testing.T) {
	fixture := newServiceFixture(t)

	ctx := context.Background()
	view, err := fixture.service.StartSession(ctx, fixture.tour.ID)
	require.NoError(t, err)

	updated, err := fixture.service.UpdateSelections(ctx, view.Session.ID, UpdateSelectionsRequest{
		DiscountCode: strPtr("NOPE"),
	})
	require.NoError(t, err)
	assert.Equal(t, discounts.ReasonNotFound, updated.DiscountReason)
	assert.Nil(t, updated.Session.Discount)
	assert.Equal(t, 0.0, updated.Quote.DiscountAmount)
}

func TestStatusTransitionsAndNotifications(t *testing.T) {
	fixture := newServiceFixture(t)
	id := fixture.readySession(t)

	booking, err := fixture.service.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	<-fixture.notifier.done

	confirmed, err := fixture.service.UpdateStatus(context.Background(), booking.ID, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)
	<-fixture.notifier.done

	// Confirmed bookings cannot go back to pending
	_, err = fixture.service.UpdateStatus(context.Background(), booking.ID, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, err := fixture.service.UpdateStatus(context.Background(), booking.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	<-fixture.notifier.done

	fixture.notifier.mu.Lock()
	defer fixture.notifier.mu.Unlock()
	assert.Equal(t, []NotificationKind{
		NotificationPending,
		NotificationConfirmation,
		NotificationCancelled,
	}, fixture.notifier.sent)
}

func TestSpecialRequestsCarriesMachineTags(t *testing.T) {
	fixture := newServiceFixture(t)

	ctx := context.Background()
	view, err := fixture.service.StartSession(ctx, fixture.tour.ID)
	require.NoError(t, err)
	id := view.Session.ID

	two := 2
	zero := 0
	_, err = fixture.service.UpdateSelections(ctx, id, UpdateSelectionsRequest{
		Date:         strPtr("2026-10-01"),
		GuestCounts:  map[string]int{"adult": two},
		ToggleAddon:  intPtr(1),
		Travel:       strPtr("self"),
		Deck:         strPtr("Upper deck"),
		VehicleIndex: &zero,
	})
	require.NoError(t, err)

	_, err = fixture.service.Advance(ctx, id)
	require.NoError(t, err)
	_, err = fixture.service.UpdateDetails(ctx, id, UpdateDetailsRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "+4512345678",
		SpecialRequests: "window seat please",
	})
	require.NoError(t, err)
	_, err = fixture.service.Advance(ctx, id)
	require.NoError(t, err)

	booking, err := fixture.service.Submit(ctx, id, nil)
	require.NoError(t, err)

	assert.Contains(t, booking.SpecialRequests, "[Guests adult: 2]")
	assert.Contains(t, booking.SpecialRequests, "[Addons: Snorkeling gear]")
	assert.Contains(t, booking.SpecialRequests, "[Travel: self]")
	assert.Contains(t, booking.SpecialRequests, "[Transfer: Minivan]")
	assert.Contains(t, booking.SpecialRequests, "[Deck: Upper deck +50.00]")
	assert.Contains(t, booking.SpecialRequests, "window seat please")
	assert.True(t, len(booking.SpecialRequests) > 0)
}

func intPtr(i int) *int { return &i }
