package bookings

import (
	"testing"

	"charterly/internal/tours"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTour(name string, features tours.BookingFeatures) *tours.TourResponse {
	return &tours.TourResponse{
		ID:        uuid.New(),
		Name:      name,
		BasePrice: 100,
		Status:    tours.StatusActive,
		Features:  features,
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(uuid.NewString(), testTour("Sunset Cruise", perPersonFeatures()))
}

func TestAdvanceWithoutDateStaysOnSelect(t *testing.T) {
	session := newTestSession(t)

	err := session.Advance()
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "date", validationErr.Field)
	assert.Equal(t, StepSelect, session.Step)
}

func TestAdvanceWithInvalidEmailStaysOnDetails(t *testing.T) {
	session := newTestSession(t)
	session.Date = "2026-10-01"
	require.NoError(t, session.Advance())
	require.Equal(t, StepDetails, session.Step)

	session.Name = "Ada Lovelace"
	session.Email = "abc"
	session.Phone = "12345678"

	err := session.Advance()
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "email", validationErr.Field)
	assert.Equal(t, StepDetails, session.Step)
}

func TestAdvanceRejectsShortPhone(t *testing.T) {
	session := newTestSession(t)
	session.Date = "2026-10-01"
	require.NoError(t, session.Advance())

	session.Name = "Ada Lovelace"
	session.Email = "ada@example.com"
	session.Phone = "1234567"

	err := session.Advance()
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "phone", validationErr.Field)
}

func TestFullWorkflowReachesConfirm(t *testing.T) {
	session := newTestSession(t)
	session.Date = "2026-10-01"
	require.NoError(t, session.Advance())

	session.Name = "Ada Lovelace"
	session.Email = "ada@example.com"
	session.Phone = "+4512345678"
	require.NoError(t, session.Advance())
	assert.Equal(t, StepConfirm, session.Step)
}

func TestBackIsAlwaysPermitted(t *testing.T) {
	session := newTestSession(t)
	session.Date = "2026-10-01"
	require.NoError(t, session.Advance())

	session.Back()
	assert.Equal(t, StepSelect, session.Step)

	// Backing off the first step is a no-op
	session.Back()
	assert.Equal(t, StepSelect, session.Step)
}

func TestSwitchTourResetsSelections(t *testing.T) {
	session := newTestSession(t)
	session.SetGuestCount("adult", 4)
	session.ToggleAddon(1)
	session.Travel = TravelTypeSelf
	session.Deck = "Upper deck"
	session.VehicleIndex = 0

	other := tours.BookingFeatures{
		BookingMode: tours.BookingModeGuests,
		GuestCategories: []tours.GuestCategory{
			{Name: "adult", Min: 2, Max: 8},
			{Name: "child", Min: 0, Max: 8},
		},
	}
	session.SetTour(testTour("Island Hopper", other))

	assert.Equal(t, 2, session.GuestCounts["adult"], "count resets to the category min")
	assert.Equal(t, 0, session.GuestCounts["child"])
	assert.Empty(t, session.SelectedAddons)
	assert.Equal(t, TravelTypeNone, session.Travel)
	assert.Equal(t, "", session.Deck)
	assert.Equal(t, -1, session.VehicleIndex)
	assert.Nil(t, session.Discount)
}

func TestResetBumpsFirstCategoryWithZeroMin(t *testing.T) {
	features := tours.BookingFeatures{
		BookingMode: tours.BookingModeGuests,
		GuestCategories: []tours.GuestCategory{
			{Name: "adult", Min: 0, Max: 10},
			{Name: "child", Min: 0, Max: 10},
		},
	}
	session := NewSession(uuid.NewString(), testTour("Day Trip", features))

	assert.Equal(t, 1, session.GuestCounts["adult"], "party must never start empty")
	assert.Equal(t, 0, session.GuestCounts["child"])
}

func TestResetQuantityToConfiguredMin(t *testing.T) {
	features := tours.BookingFeatures{
		BookingMode:    tours.BookingModeQuantity,
		QuantityConfig: tours.QuantityConfig{Min: 3, Max: 20},
	}
	session := NewSession(uuid.NewString(), testTour("Jet Ski", features))
	assert.Equal(t, 3, session.Quantity)
}

func TestToggleAddonIsSetOperation(t *testing.T) {
	session := newTestSession(t)

	session.ToggleAddon(1)
	assert.True(t, session.SelectedAddons[1])

	session.ToggleAddon(1)
	assert.False(t, session.SelectedAddons[1])

	// Unknown ids are ignored entirely
	session.ToggleAddon(99)
	assert.Empty(t, session.SelectedAddons)
}

func TestGuestCountClampedToRange(t *testing.T) {
	session := newTestSession(t)

	session.SetGuestCount("adult", 50)
	assert.Equal(t, 10, session.GuestCounts["adult"])

	session.SetGuestCount("adult", 0)
	assert.Equal(t, 1, session.GuestCounts["adult"])

	session.SetGuestCount("ghost", 3)
	_, exists := session.GuestCounts["ghost"]
	assert.False(t, exists)
}
