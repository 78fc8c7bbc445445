package tours

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRepairsDocument(t *testing.T) {
	f := BookingFeatures{
		BookingMode: BookingMode("banquet"),
		GuestCategories: []GuestCategory{
			{Name: "adult", Label: "Adults", UnitPrice: -10, Min: -1, Max: 0},
		},
		Addons: []Addon{
			{ID: 3, Name: "Drinks", UnitPrice: 10},
			{ID: 3, Name: "Duplicate", UnitPrice: 5},
			{ID: 0, Name: "Unassigned", UnitPrice: 5},
		},
		NextAddonID:        1,
		SelfTravelDiscount: -4,
		UpperDeckSurcharge: -1,
		DeckOptions:        []string{"Lower"},
	}
	f.Normalize()

	assert.Equal(t, BookingModeGuests, f.BookingMode)

	require.Len(t, f.GuestCategories, 1)
	assert.Equal(t, 0.0, f.GuestCategories[0].UnitPrice)
	assert.Equal(t, 0, f.GuestCategories[0].Min)
	assert.Equal(t, 0, f.GuestCategories[0].Max)

	// Duplicate and zero ids are dropped; the counter moves past the max.
	require.Len(t, f.Addons, 1)
	assert.Equal(t, 3, f.Addons[0].ID)
	assert.Equal(t, 4, f.NextAddonID)

	assert.Equal(t, 0.0, f.SelfTravelDiscount)
	assert.Equal(t, 0.0, f.UpperDeckSurcharge)
	assert.Equal(t, []string{"Lower", "Upper deck"}, f.DeckOptions)
}

func TestNormalizeFillsEmptyCategories(t *testing.T) {
	f := BookingFeatures{BookingMode: BookingModeGuests}
	f.Normalize()

	require.NotEmpty(t, f.GuestCategories)
	assert.Equal(t, "adult", f.GuestCategories[0].Name)
	assert.Equal(t, []string{"Main deck", "Upper deck"}, f.DeckOptions)
	assert.Equal(t, 1, f.NextAddonID)
}

func TestInfoItemUnmarshalBareString(t *testing.T) {
	var item InfoItem
	require.NoError(t, json.Unmarshal([]byte(`"bring sunscreen"`), &item))
	assert.Equal(t, "bring sunscreen", item.Text)
	assert.Equal(t, InfoIconCheck, item.Icon)

	var obj InfoItem
	require.NoError(t, json.Unmarshal([]byte(`{"text":"no refunds","icon":"cross"}`), &obj))
	assert.Equal(t, "no refunds", obj.Text)
	assert.Equal(t, InfoIconCross, obj.Icon)

	// Unknown icons fall back to the default.
	var bad InfoItem
	require.NoError(t, json.Unmarshal([]byte(`{"text":"x","icon":"sparkle"}`), &bad))
	assert.Equal(t, InfoIconCheck, bad.Icon)
}

func TestFeaturesJSONRoundTrip(t *testing.T) {
	f := DefaultFeatures()
	f.GuestCategories[0].UnitPrice = 0 // zero means inherit the base price
	f.GuestCategories[1].UnitPrice = 45
	f.AddAddon("Snorkeling gear", 15, "Mask and fins")
	f.HasUpperDeck = true
	f.UpperDeckSurcharge = 20

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var decoded BookingFeatures
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, f, decoded)
	assert.Equal(t, 0.0, decoded.GuestCategories[0].UnitPrice)
	assert.Equal(t, 2, decoded.NextAddonID)
}

func TestScanNilUsesDefaults(t *testing.T) {
	var f BookingFeatures
	require.NoError(t, f.Scan(nil))
	assert.Equal(t, DefaultFeatures(), f)
}
