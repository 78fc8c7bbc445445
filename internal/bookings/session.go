package bookings

import (
	"regexp"
	"strings"
	"time"

	"charterly/internal/tours"
)

// Step is one stage of the linear booking workflow.
type Step int

const (
	StepSelect  Step = 1
	StepDetails Step = 2
	StepConfirm Step = 3
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Session is an in-progress booking, stored in Redis between requests.
// Selections live under the snapshot of the tour's features taken when the
// tour was chosen, so an admin edit mid-booking cannot shift prices under
// the customer.
type Session struct {
	ID     string `json:"id"`
	Step   Step   `json:"step"`
	TourID string `json:"tour_id"`

	TourName      string                `json:"tour_name"`
	BasePrice     float64               `json:"base_price"`
	OverridePrice *float64              `json:"override_price,omitempty"`
	Features      tours.BookingFeatures `json:"features"`

	Date           string         `json:"date"` // YYYY-MM-DD
	GuestCounts    map[string]int `json:"guest_counts"`
	Quantity       int            `json:"quantity"`
	SelectedAddons map[int]bool   `json:"selected_addons"`
	Travel         TravelType     `json:"travel"`
	Deck           string         `json:"deck"`
	VehicleIndex   int            `json:"vehicle_index"`

	Discount   *AppliedDiscount `json:"discount,omitempty"`
	DiscountID string           `json:"discount_id,omitempty"`

	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"special_requests"`

	// Submitting prevents a second submit while one is outstanding.
	Submitting bool `json:"submitting"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSession starts a workflow at the select step for the given tour.
func NewSession(id string, tour *tours.TourResponse) *Session {
	s := &Session{
		ID:           id,
		Step:         StepSelect,
		VehicleIndex: -1,
		CreatedAt:    time.Now().UTC(),
	}
	s.SetTour(tour)
	return s
}

// SetTour snapshots the tour and resets every selection to the defaults its
// features imply. Called at session start and again whenever the customer
// switches to a linked tour, because selections made against one tour's
// features are meaningless against another's.
func (s *Session) SetTour(tour *tours.TourResponse) {
	s.TourID = tour.ID.String()
	s.TourName = tour.Name
	s.BasePrice = tour.BasePrice
	s.OverridePrice = tour.CharterPrice
	s.Features = tour.Features
	s.ResetSelections()
}

// ResetSelections restores defaults: each guest category at its min, with
// the first category bumped to 1 if its min is 0 so the party is never
// empty; quantity at its min; no addons, travel, deck, vehicle or discount.
func (s *Session) ResetSelections() {
	s.GuestCounts = make(map[string]int, len(s.Features.GuestCategories))
	for i, cat := range s.Features.GuestCategories {
		count := cat.Min
		if i == 0 && count == 0 {
			count = 1
		}
		s.GuestCounts[cat.Name] = count
	}
	s.Quantity = s.Features.QuantityConfig.Min
	s.SelectedAddons = make(map[int]bool)
	s.Travel = TravelTypeNone
	s.Deck = ""
	s.VehicleIndex = -1
	s.Discount = nil
	s.DiscountID = ""
}

// ToggleAddon flips an addon in or out of the selected set. Unknown ids are
// ignored.
func (s *Session) ToggleAddon(id int) {
	if s.Features.AddonByID(id) == nil {
		return
	}
	if s.SelectedAddons[id] {
		delete(s.SelectedAddons, id)
	} else {
		s.SelectedAddons[id] = true
	}
}

// SetGuestCount clamps a category count into its [min, max] range. Unknown
// category names are ignored.
func (s *Session) SetGuestCount(name string, count int) {
	for _, cat := range s.Features.GuestCategories {
		if cat.Name != name {
			continue
		}
		if count < cat.Min {
			count = cat.Min
		}
		if count > cat.Max {
			count = cat.Max
		}
		s.GuestCounts[name] = count
		return
	}
}

// SetQuantity clamps the unit count into the configured range.
func (s *Session) SetQuantity(q int) {
	cfg := s.Features.QuantityConfig
	if q < cfg.Min {
		q = cfg.Min
	}
	if q > cfg.Max {
		q = cfg.Max
	}
	s.Quantity = q
}

// Advance moves the workflow forward one step, gated by validation.
// A failed guard leaves the step unchanged.
func (s *Session) Advance() error {
	switch s.Step {
	case StepSelect:
		if err := s.validateSelect(); err != nil {
			return err
		}
		s.Step = StepDetails
	case StepDetails:
		if err := s.validateDetails(); err != nil {
			return err
		}
		s.Step = StepConfirm
	}
	return nil
}

// Back moves one step toward the start; always permitted.
func (s *Session) Back() {
	if s.Step > StepSelect {
		s.Step--
	}
}

func (s *Session) validateSelect() error {
	if strings.TrimSpace(s.Date) == "" {
		return NewValidationError("date", "date required")
	}
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return NewValidationError("date", "date must be YYYY-MM-DD")
	}
	return nil
}

func (s *Session) validateDetails() error {
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "name required")
	}
	if !emailPattern.MatchString(s.Email) {
		return NewValidationError("email", "valid email required")
	}
	if len(strings.TrimSpace(s.Phone)) < 8 {
		return NewValidationError("phone", "phone must be at least 8 characters")
	}
	return nil
}

// Quote prices the current selections under the given policy.
func (s *Session) Quote(policy TravelDiscountPolicy) Quote {
	return ComputeQuote(PriceInput{
		Features:      s.Features,
		BasePrice:     s.BasePrice,
		OverridePrice: s.OverridePrice,
		GuestCounts:   s.GuestCounts,
		Quantity:      s.Quantity,
		SelectedAddon: s.SelectedAddons,
		Travel:        s.Travel,
		Deck:          s.Deck,
		VehicleIndex:  s.VehicleIndex,
		Discount:      s.Discount,
		Policy:        policy,
	})
}

// IsFullCharter mirrors the pricing rule: a positive override price books
// the whole yacht at a flat rate.
func (s *Session) IsFullCharter() bool {
	return s.OverridePrice != nil && *s.OverridePrice > 0
}
