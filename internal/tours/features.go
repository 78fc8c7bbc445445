package tours

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// BookingMode selects which pricing strategy drives the booking dialog.
// Exactly one of GuestCategories / QuantityConfig is active at a time.
type BookingMode string

const (
	BookingModeGuests   BookingMode = "guests"
	BookingModeQuantity BookingMode = "quantity"
)

func (m BookingMode) IsValid() bool {
	return m == BookingModeGuests || m == BookingModeQuantity
}

// GuestCategory is one priced party segment (e.g. adults, children).
// A zero UnitPrice means "inherit the tour's base price", not free.
type GuestCategory struct {
	Name      string  `json:"name"`
	Label     string  `json:"label"`
	UnitPrice float64 `json:"unit_price"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
}

// QuantityConfig drives flat per-unit pricing when mode is "quantity".
// The zero-price sentinel applies here as well.
type QuantityConfig struct {
	Header    string  `json:"header"`
	Label     string  `json:"label"`
	Subtitle  string  `json:"subtitle"`
	UnitPrice float64 `json:"unit_price"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
}

// Addon is an optional extra with an additive price. IDs are assigned from a
// monotonic counter and never reused after deletion, so a selected-addon set
// keyed by ID stays unambiguous.
type Addon struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	Description string  `json:"description"`
}

// TransferVehicle is one arranged-transfer option with a flat price.
type TransferVehicle struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type InfoIcon string

const (
	InfoIconCheck InfoIcon = "check"
	InfoIconCross InfoIcon = "cross"
	InfoIconInfo  InfoIcon = "info"
	InfoIconDot   InfoIcon = "dot"
)

func (i InfoIcon) IsValid() bool {
	switch i {
	case InfoIconCheck, InfoIconCross, InfoIconInfo, InfoIconDot:
		return true
	}
	return false
}

// InfoItem is one entry of an informational list. Persisted documents may
// contain legacy bare strings; both forms decode to the same value.
type InfoItem struct {
	Text string   `json:"text"`
	Icon InfoIcon `json:"icon"`
}

// UnmarshalJSON accepts either `"bring sunscreen"` or
// `{"text":"bring sunscreen","icon":"check"}`.
func (it *InfoItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		it.Text = s
		it.Icon = InfoIconCheck
		return nil
	}

	type infoItem InfoItem
	var obj infoItem
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if !InfoIcon(obj.Icon).IsValid() {
		obj.Icon = InfoIconCheck
	}
	*it = InfoItem(obj)
	return nil
}

// BookingFeatures is the configuration document an operator edits and the
// booking workflow consumes verbatim. Stored as a single jsonb column on the
// tour row.
type BookingFeatures struct {
	BookingMode     BookingMode     `json:"booking_mode"`
	GuestCategories []GuestCategory `json:"guest_categories"`
	QuantityConfig  QuantityConfig  `json:"quantity_config"`

	Addons      []Addon `json:"addons"`
	NextAddonID int     `json:"next_addon_id"`

	LinkedTourIDs []string `json:"linked_tour_ids"`

	TransferAvailable bool              `json:"transfer_available"`
	TransferVehicles  []TransferVehicle `json:"transfer_vehicles"`
	TransferLabel     string            `json:"transfer_label"`

	TravelOptionsEnabled bool    `json:"travel_options_enabled"`
	SelfTravelDiscount   float64 `json:"self_travel_discount"`

	HasUpperDeck       bool     `json:"has_upper_deck"`
	UpperDeckSurcharge float64  `json:"upper_deck_surcharge"`
	DeckOptions        []string `json:"deck_options"`

	UrgencyEnabled bool   `json:"urgency_enabled"`
	UrgencyText    string `json:"urgency_text"`

	// Display-only text fields, no pricing effect.
	AvailabilityInfo    string `json:"availability_info"`
	MinimumDurationInfo string `json:"minimum_duration_info"`
	HotelPickupInfo     string `json:"hotel_pickup_info"`
	CancellationNote    string `json:"cancellation_note"`

	CancellationInfo []InfoItem `json:"cancellation_info"`
	WhatToBring      []InfoItem `json:"what_to_bring"`
	GoodToKnow       []InfoItem `json:"good_to_know"`
}

// Value implements driver.Valuer for jsonb storage
func (f BookingFeatures) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for jsonb retrieval
func (f *BookingFeatures) Scan(value interface{}) error {
	if value == nil {
		*f = DefaultFeatures()
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, f)
}

// GormDataType tells GORM how to handle this type
func (BookingFeatures) GormDataType() string {
	return "jsonb"
}

// DefaultFeatures returns the canonical default configuration document. The
// editor's reset operation overwrites the whole document with this value.
func DefaultFeatures() BookingFeatures {
	return BookingFeatures{
		BookingMode: BookingModeGuests,
		GuestCategories: []GuestCategory{
			{Name: "adult", Label: "Adults", UnitPrice: 0, Min: 1, Max: 10},
			{Name: "child", Label: "Children (4-12)", UnitPrice: 0, Min: 0, Max: 10},
		},
		QuantityConfig: QuantityConfig{
			Header:    "How many?",
			Label:     "Tickets",
			UnitPrice: 0,
			Min:       1,
			Max:       20,
		},
		Addons:        []Addon{},
		NextAddonID:   1,
		LinkedTourIDs: []string{},

		TransferAvailable: false,
		TransferVehicles:  []TransferVehicle{},
		TransferLabel:     "Hotel transfer",

		TravelOptionsEnabled: false,
		SelfTravelDiscount:   0,

		HasUpperDeck:       false,
		UpperDeckSurcharge: 0,
		DeckOptions:        []string{"Main deck", "Upper deck"},

		CancellationInfo: []InfoItem{},
		WhatToBring:      []InfoItem{},
		GoodToKnow:       []InfoItem{},
	}
}

// Normalize repairs a document read from storage or submitted by the editor
// so the rest of the system never has to re-check it: a valid mode, at least
// one guest category, a two-entry deck pair, unique addon ids with a counter
// ahead of them, and no negative prices or bounds. Validation happens here,
// at the boundary, not defensively at every read site.
func (f *BookingFeatures) Normalize() {
	if !f.BookingMode.IsValid() {
		f.BookingMode = BookingModeGuests
	}

	if len(f.GuestCategories) == 0 {
		f.GuestCategories = DefaultFeatures().GuestCategories
	}
	for i := range f.GuestCategories {
		c := &f.GuestCategories[i]
		if c.UnitPrice < 0 {
			c.UnitPrice = 0
		}
		if c.Min < 0 {
			c.Min = 0
		}
		if c.Max < c.Min {
			c.Max = c.Min
		}
	}

	if f.QuantityConfig.UnitPrice < 0 {
		f.QuantityConfig.UnitPrice = 0
	}
	if f.QuantityConfig.Min < 0 {
		f.QuantityConfig.Min = 0
	}
	if f.QuantityConfig.Max < f.QuantityConfig.Min {
		f.QuantityConfig.Max = f.QuantityConfig.Min
	}

	// Addon ids must be unique; the counter must stay ahead of every id so
	// a deleted id is never handed out again.
	seen := make(map[int]bool, len(f.Addons))
	maxID := 0
	kept := f.Addons[:0]
	for _, a := range f.Addons {
		if a.ID <= 0 || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		if a.UnitPrice < 0 {
			a.UnitPrice = 0
		}
		if a.ID > maxID {
			maxID = a.ID
		}
		kept = append(kept, a)
	}
	f.Addons = kept
	if f.NextAddonID <= maxID {
		f.NextAddonID = maxID + 1
	}
	if f.NextAddonID < 1 {
		f.NextAddonID = 1
	}

	for i := range f.TransferVehicles {
		if f.TransferVehicles[i].Price < 0 {
			f.TransferVehicles[i].Price = 0
		}
	}

	if f.SelfTravelDiscount < 0 {
		f.SelfTravelDiscount = 0
	}
	if f.UpperDeckSurcharge < 0 {
		f.UpperDeckSurcharge = 0
	}

	defaults := DefaultFeatures().DeckOptions
	switch len(f.DeckOptions) {
	case 0:
		f.DeckOptions = defaults
	case 1:
		f.DeckOptions = append(f.DeckOptions, defaults[1])
	default:
		f.DeckOptions = f.DeckOptions[:2]
	}

	f.CancellationInfo = normalizeInfoList(f.CancellationInfo)
	f.WhatToBring = normalizeInfoList(f.WhatToBring)
	f.GoodToKnow = normalizeInfoList(f.GoodToKnow)
}

func normalizeInfoList(items []InfoItem) []InfoItem {
	if items == nil {
		return []InfoItem{}
	}
	for i := range items {
		if !items[i].Icon.IsValid() {
			items[i].Icon = InfoIconCheck
		}
	}
	return items
}

// UpperDeckName returns the deck option whose selection triggers the
// per-guest surcharge (the second entry of the pair).
func (f *BookingFeatures) UpperDeckName() string {
	if len(f.DeckOptions) < 2 {
		return ""
	}
	return f.DeckOptions[1]
}

// AddonByID returns the addon with the given id, or nil.
func (f *BookingFeatures) AddonByID(id int) *Addon {
	for i := range f.Addons {
		if f.Addons[i].ID == id {
			return &f.Addons[i]
		}
	}
	return nil
}
