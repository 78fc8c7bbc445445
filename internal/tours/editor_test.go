package tours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddonIDsNeverReused(t *testing.T) {
	f := DefaultFeatures()

	first := f.AddAddon("Snorkeling gear", 15, "")
	second := f.AddAddon("Lunch box", 12, "")
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	require.NoError(t, f.RemoveAddon(1))
	third := f.AddAddon("Photo package", 35, "")
	assert.Equal(t, 3, third.ID, "a removed id must not be handed out again")
	assert.Equal(t, 4, f.NextAddonID)
}

func TestUpdateAddonKeepsID(t *testing.T) {
	f := DefaultFeatures()
	f.AddAddon("Drinks", 10, "")

	require.NoError(t, f.UpdateAddon(0, "Drinks package", 18, "Unlimited soft drinks"))
	assert.Equal(t, 1, f.Addons[0].ID)
	assert.Equal(t, "Drinks package", f.Addons[0].Name)
	assert.Equal(t, 18.0, f.Addons[0].UnitPrice)

	assert.Error(t, f.UpdateAddon(5, "x", 1, ""))
}

func TestRemoveLastGuestCategoryRefused(t *testing.T) {
	f := DefaultFeatures()
	require.Len(t, f.GuestCategories, 2)

	require.NoError(t, f.RemoveGuestCategory(1))
	err := f.RemoveGuestCategory(0)
	assert.ErrorIs(t, err, ErrLastGuestCategory)
	assert.Len(t, f.GuestCategories, 1)
}

func TestGuestCategoryIndexBounds(t *testing.T) {
	f := DefaultFeatures()
	assert.Error(t, f.UpdateGuestCategory(-1, GuestCategory{}))
	assert.Error(t, f.UpdateGuestCategory(2, GuestCategory{}))
	assert.Error(t, f.RemoveGuestCategory(7))
}

func TestInfoListOperations(t *testing.T) {
	f := DefaultFeatures()

	require.NoError(t, f.AddInfoItem(InfoListWhatToBring, InfoItem{Text: "Towel"}))
	require.Len(t, f.WhatToBring, 1)
	assert.Equal(t, InfoIconCheck, f.WhatToBring[0].Icon)

	require.NoError(t, f.UpdateInfoItem(InfoListWhatToBring, 0, InfoItem{Text: "Towel and swimwear", Icon: InfoIconInfo}))
	assert.Equal(t, InfoIconInfo, f.WhatToBring[0].Icon)

	require.NoError(t, f.RemoveInfoItem(InfoListWhatToBring, 0))
	assert.Empty(t, f.WhatToBring)

	assert.Error(t, f.AddInfoItem(InfoList("highlights"), InfoItem{Text: "x"}))
	assert.Error(t, f.RemoveInfoItem(InfoListGoodToKnow, 0))
}

func TestTransferVehicleOperations(t *testing.T) {
	f := DefaultFeatures()

	f.AddTransferVehicle()
	require.Len(t, f.TransferVehicles, 1)

	require.NoError(t, f.UpdateTransferVehicle(0, TransferVehicle{Name: "Shared minivan", Price: 12}))
	assert.Equal(t, 12.0, f.TransferVehicles[0].Price)

	require.NoError(t, f.RemoveTransferVehicle(0))
	assert.Empty(t, f.TransferVehicles)
	assert.Error(t, f.RemoveTransferVehicle(0))
}

func TestResetRestoresDefaults(t *testing.T) {
	f := DefaultFeatures()
	f.AddAddon("Drinks", 10, "")
	f.HasUpperDeck = true
	f.UpperDeckSurcharge = 25
	require.NoError(t, f.SetDeckOption(1, "Sun deck"))

	f.Reset()
	assert.Equal(t, DefaultFeatures(), f)
	assert.Equal(t, 1, f.NextAddonID)
}
