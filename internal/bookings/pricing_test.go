package bookings

import (
	"testing"

	"charterly/internal/tours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perPersonFeatures() tours.BookingFeatures {
	return tours.BookingFeatures{
		BookingMode: tours.BookingModeGuests,
		GuestCategories: []tours.GuestCategory{
			{Name: "adult", Label: "Adults", UnitPrice: 0, Min: 1, Max: 10},
			{Name: "child", Label: "Children", UnitPrice: 50, Min: 0, Max: 10},
		},
		Addons: []tours.Addon{
			{ID: 1, Name: "Snorkeling gear", UnitPrice: 30},
			{ID: 2, Name: "Lunch", UnitPrice: 150},
		},
		NextAddonID: 3,
		TransferVehicles: []tours.TransferVehicle{
			{Name: "Minivan", Price: 40},
		},
		TravelOptionsEnabled: true,
		SelfTravelDiscount:   10,
		HasUpperDeck:         true,
		UpperDeckSurcharge:   25,
		DeckOptions:          []string{"Main deck", "Upper deck"},
	}
}

func TestQuoteDeterminism(t *testing.T) {
	in := PriceInput{
		Features:      perPersonFeatures(),
		BasePrice:     100,
		GuestCounts:   map[string]int{"adult": 2, "child": 1},
		SelectedAddon: map[int]bool{1: true},
		Travel:        TravelTypeSelf,
		Deck:          "Upper deck",
		VehicleIndex:  0,
		Policy:        TravelDiscountSelfAndPersonal,
	}

	first := ComputeQuote(in)
	second := ComputeQuote(in)
	assert.Equal(t, first, second)
}

func TestZeroUnitPriceInheritsBasePrice(t *testing.T) {
	in := PriceInput{
		Features:     perPersonFeatures(),
		BasePrice:    100,
		GuestCounts:  map[string]int{"adult": 3},
		VehicleIndex: -1,
	}

	quote := ComputeQuote(in)
	assert.Equal(t, 300.0, quote.BasePrice)

	quantity := tours.BookingFeatures{
		BookingMode:    tours.BookingModeQuantity,
		QuantityConfig: tours.QuantityConfig{UnitPrice: 0, Min: 1, Max: 20},
	}
	quote = ComputeQuote(PriceInput{
		Features:     quantity,
		BasePrice:    100,
		Quantity:     4,
		VehicleIndex: -1,
	})
	assert.Equal(t, 400.0, quote.BasePrice)
}

func TestFullCharterOverrideIgnoresGuestPricing(t *testing.T) {
	override := 2000.0
	in := PriceInput{
		Features:      perPersonFeatures(),
		BasePrice:     100,
		OverridePrice: &override,
		GuestCounts:   map[string]int{"adult": 6, "child": 4},
		SelectedAddon: map[int]bool{2: true},
		VehicleIndex:  -1,
	}

	quote := ComputeQuote(in)
	require.True(t, quote.IsFullCharter)
	assert.Equal(t, 2000.0, quote.BasePrice)
	assert.Equal(t, 2150.0, quote.Subtotal)
}

func TestZeroOverrideIsNotFullCharter(t *testing.T) {
	override := 0.0
	quote := ComputeQuote(PriceInput{
		Features:      perPersonFeatures(),
		BasePrice:     100,
		OverridePrice: &override,
		GuestCounts:   map[string]int{"adult": 1},
		VehicleIndex:  -1,
	})
	assert.False(t, quote.IsFullCharter)
	assert.Equal(t, 100.0, quote.BasePrice)
}

func TestSubtotalClampedAtZero(t *testing.T) {
	features := tours.BookingFeatures{
		BookingMode: tours.BookingModeGuests,
		GuestCategories: []tours.GuestCategory{
			{Name: "adult", UnitPrice: 10, Min: 1, Max: 10},
		},
		TravelOptionsEnabled: true,
		SelfTravelDiscount:   20,
	}

	quote := ComputeQuote(PriceInput{
		Features:     features,
		BasePrice:    10,
		GuestCounts:  map[string]int{"adult": 5},
		Travel:       TravelTypeSelf,
		VehicleIndex: -1,
		Policy:       TravelDiscountSelfOnly,
	})
	// 5 x 10 base against 5 x 20 self-travel deduction
	assert.Equal(t, 0.0, quote.Subtotal)
	assert.Equal(t, 0.0, quote.Total)
}

func TestFixedDiscountNeverGoesNegative(t *testing.T) {
	quote := ComputeQuote(PriceInput{
		Features:     perPersonFeatures(),
		BasePrice:    100,
		GuestCounts:  map[string]int{"adult": 2},
		VehicleIndex: -1,
		Discount:     &AppliedDiscount{Code: "BIG", Percentage: false, Value: 500},
	})
	assert.Equal(t, 200.0, quote.Subtotal)
	assert.Equal(t, 200.0, quote.DiscountAmount)
	assert.Equal(t, 0.0, quote.Total)
}

func TestPercentageDiscountComputedOnSubtotal(t *testing.T) {
	quote := ComputeQuote(PriceInput{
		Features:      perPersonFeatures(),
		BasePrice:     100,
		GuestCounts:   map[string]int{"adult": 2, "child": 1},
		SelectedAddon: map[int]bool{1: true},
		VehicleIndex:  -1,
		Discount:      &AppliedDiscount{Code: "TEN", Percentage: true, Value: 10},
	})
	// (2 x 100) + (1 x 50) + 30 = 280
	assert.Equal(t, 280.0, quote.Subtotal)
	assert.Equal(t, 28.0, quote.DiscountAmount)
	assert.Equal(t, 252.0, quote.Total)
}

func TestDeckSurchargeAndSelfTravelScaleWithParty(t *testing.T) {
	quote := ComputeQuote(PriceInput{
		Features:     perPersonFeatures(),
		BasePrice:    100,
		GuestCounts:  map[string]int{"adult": 3},
		Travel:       TravelTypeSelf,
		Deck:         "Upper deck",
		VehicleIndex: 0,
		Policy:       TravelDiscountSelfOnly,
	})
	assert.Equal(t, 3, quote.TotalGuests)
	assert.Equal(t, 75.0, quote.DeckSurcharge)
	assert.Equal(t, 30.0, quote.SelfTravelDiscount)
	assert.Equal(t, 40.0, quote.TransferCost)
	// 300 + 40 + 75 - 30
	assert.Equal(t, 385.0, quote.Subtotal)
}

func TestPersonalTravelPolicy(t *testing.T) {
	base := PriceInput{
		Features:     perPersonFeatures(),
		BasePrice:    100,
		GuestCounts:  map[string]int{"adult": 2},
		Travel:       TravelTypePersonal,
		VehicleIndex: -1,
	}

	base.Policy = TravelDiscountSelfAndPersonal
	assert.Equal(t, 20.0, ComputeQuote(base).SelfTravelDiscount)

	base.Policy = TravelDiscountSelfOnly
	assert.Equal(t, 0.0, ComputeQuote(base).SelfTravelDiscount)
}

func TestEndToEndScenario(t *testing.T) {
	features := tours.BookingFeatures{
		BookingMode: tours.BookingModeGuests,
		GuestCategories: []tours.GuestCategory{
			{Name: "adult", UnitPrice: 0, Min: 1, Max: 10},
			{Name: "child", UnitPrice: 0, Min: 0, Max: 10},
		},
		Addons:      []tours.Addon{{ID: 1, Name: "Snorkeling gear", UnitPrice: 30}},
		NextAddonID: 2,
	}
	in := PriceInput{
		Features:      features,
		BasePrice:     110,
		GuestCounts:   map[string]int{"adult": 2, "child": 1},
		SelectedAddon: map[int]bool{1: true},
		VehicleIndex:  -1,
	}

	// 3 guests inheriting the 110 base plus a 30 addon
	quote := ComputeQuote(in)
	assert.Equal(t, 360.0, quote.Subtotal)
	assert.Equal(t, 360.0, quote.Total)

	in.Discount = &AppliedDiscount{Code: "TEN", Percentage: true, Value: 10}
	quote = ComputeQuote(in)
	assert.Equal(t, 36.0, quote.DiscountAmount)
	assert.Equal(t, 324.0, quote.Total)
}
