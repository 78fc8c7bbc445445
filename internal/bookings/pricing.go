package bookings

import (
	"charterly/internal/tours"
)

// TravelType is how the party reaches the departure point.
type TravelType string

const (
	TravelTypeNone     TravelType = ""
	TravelTypeSelf     TravelType = "self"
	TravelTypePersonal TravelType = "personal"
	TravelTypeTransfer TravelType = "transfer"
)

// TravelDiscountPolicy decides which travel types earn the self-travel
// discount.
//
// TODO(pricing): product has not confirmed whether "personal" (private
// transfer) should earn the discount alongside "self". The legacy behavior
// grants it to both, so that stays the default until a decision lands.
type TravelDiscountPolicy string

const (
	TravelDiscountSelfOnly        TravelDiscountPolicy = "self"
	TravelDiscountSelfAndPersonal TravelDiscountPolicy = "self_and_personal"
)

func (p TravelDiscountPolicy) grants(t TravelType) bool {
	switch p {
	case TravelDiscountSelfOnly:
		return t == TravelTypeSelf
	default:
		return t == TravelTypeSelf || t == TravelTypePersonal
	}
}

// AppliedDiscount is the already-validated discount handed to the pricing
// engine. Validation (expiry, usage, applicability) happens elsewhere.
type AppliedDiscount struct {
	Code       string  `json:"code"`
	Percentage bool    `json:"percentage"`
	Value      float64 `json:"value"`
}

// PriceInput is everything the engine needs for one quote. It is assembled
// from the tour document and the session's current selections.
type PriceInput struct {
	Features      tours.BookingFeatures
	BasePrice     float64
	OverridePrice *float64

	GuestCounts   map[string]int
	Quantity      int
	SelectedAddon map[int]bool
	Travel        TravelType
	Deck          string
	VehicleIndex  int // -1 when no vehicle selected

	Discount *AppliedDiscount
	Policy   TravelDiscountPolicy
}

// Quote is the full price breakdown for one set of selections.
type Quote struct {
	IsFullCharter      bool    `json:"is_full_charter"`
	BasePrice          float64 `json:"base_price"`
	AddonsTotal        float64 `json:"addons_total"`
	TransferCost       float64 `json:"transfer_cost"`
	DeckSurcharge      float64 `json:"deck_surcharge"`
	SelfTravelDiscount float64 `json:"self_travel_discount"`
	Subtotal           float64 `json:"subtotal"`
	DiscountAmount     float64 `json:"discount_amount"`
	Total              float64 `json:"total"`
	TotalGuests        int     `json:"total_guests"`
}

// ComputeQuote prices one set of selections. Pure function: identical input
// always yields an identical quote.
func ComputeQuote(in PriceInput) Quote {
	f := in.Features
	quote := Quote{}

	quote.IsFullCharter = in.OverridePrice != nil && *in.OverridePrice > 0

	quote.TotalGuests = totalGuests(f, in)

	if quote.IsFullCharter {
		quote.BasePrice = *in.OverridePrice
	} else if f.BookingMode == tours.BookingModeGuests {
		for _, cat := range f.GuestCategories {
			count := in.GuestCounts[cat.Name]
			if count <= 0 {
				continue
			}
			unit := cat.UnitPrice
			if unit == 0 {
				unit = in.BasePrice
			}
			quote.BasePrice += float64(count) * unit
		}
	} else {
		unit := f.QuantityConfig.UnitPrice
		if unit == 0 {
			unit = in.BasePrice
		}
		quote.BasePrice = float64(in.Quantity) * unit
	}

	for _, addon := range f.Addons {
		if in.SelectedAddon[addon.ID] {
			quote.AddonsTotal += addon.UnitPrice
		}
	}

	if in.VehicleIndex >= 0 && in.VehicleIndex < len(f.TransferVehicles) {
		quote.TransferCost = f.TransferVehicles[in.VehicleIndex].Price
	}

	if f.HasUpperDeck && in.Deck != "" && in.Deck == f.UpperDeckName() {
		quote.DeckSurcharge = f.UpperDeckSurcharge * float64(quote.TotalGuests)
	}

	if f.SelfTravelDiscount > 0 && in.Policy.grants(in.Travel) {
		quote.SelfTravelDiscount = f.SelfTravelDiscount * float64(quote.TotalGuests)
	}

	quote.Subtotal = quote.BasePrice + quote.TransferCost + quote.DeckSurcharge - quote.SelfTravelDiscount + quote.AddonsTotal
	if quote.Subtotal < 0 {
		quote.Subtotal = 0
	}

	if in.Discount != nil {
		if in.Discount.Percentage {
			quote.DiscountAmount = quote.Subtotal * in.Discount.Value / 100
		} else {
			quote.DiscountAmount = in.Discount.Value
			if quote.DiscountAmount > quote.Subtotal {
				quote.DiscountAmount = quote.Subtotal
			}
		}
	}

	quote.Total = quote.Subtotal - quote.DiscountAmount
	return quote
}

func totalGuests(f tours.BookingFeatures, in PriceInput) int {
	if f.BookingMode == tours.BookingModeQuantity {
		return in.Quantity
	}
	total := 0
	for _, cat := range f.GuestCategories {
		if count := in.GuestCounts[cat.Name]; count > 0 {
			total += count
		}
	}
	return total
}
