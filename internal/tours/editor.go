package tours

import (
	"errors"
	"fmt"
)

// Editor operations over the BookingFeatures document. These are the only
// mutations the admin feature editor performs: append a templated entry, edit
// an entry by index, remove an entry by index, reset the whole document.
// None of them touch storage; the owning tour save persists the result.

var ErrLastGuestCategory = errors.New("at least one guest category is required")

func indexError(what string, i, n int) error {
	return fmt.Errorf("%s index %d out of range (have %d)", what, i, n)
}

// AddGuestCategory appends a blank category template.
func (f *BookingFeatures) AddGuestCategory() {
	f.GuestCategories = append(f.GuestCategories, GuestCategory{
		Name:  fmt.Sprintf("category-%d", len(f.GuestCategories)+1),
		Label: "New category",
		Min:   0,
		Max:   10,
	})
}

// UpdateGuestCategory replaces the category at index i.
func (f *BookingFeatures) UpdateGuestCategory(i int, c GuestCategory) error {
	if i < 0 || i >= len(f.GuestCategories) {
		return indexError("guest category", i, len(f.GuestCategories))
	}
	f.GuestCategories[i] = c
	return nil
}

// RemoveGuestCategory removes the category at index i. The last remaining
// category cannot be removed.
func (f *BookingFeatures) RemoveGuestCategory(i int) error {
	if i < 0 || i >= len(f.GuestCategories) {
		return indexError("guest category", i, len(f.GuestCategories))
	}
	if len(f.GuestCategories) == 1 {
		return ErrLastGuestCategory
	}
	f.GuestCategories = append(f.GuestCategories[:i], f.GuestCategories[i+1:]...)
	return nil
}

// AddAddon appends a new addon, assigning the next id from the monotonic
// counter. Deleted ids are never reused.
func (f *BookingFeatures) AddAddon(name string, price float64, description string) Addon {
	addon := Addon{
		ID:          f.NextAddonID,
		Name:        name,
		UnitPrice:   price,
		Description: description,
	}
	f.NextAddonID++
	f.Addons = append(f.Addons, addon)
	return addon
}

// UpdateAddon edits the addon at index i, keeping its id.
func (f *BookingFeatures) UpdateAddon(i int, name string, price float64, description string) error {
	if i < 0 || i >= len(f.Addons) {
		return indexError("addon", i, len(f.Addons))
	}
	f.Addons[i].Name = name
	f.Addons[i].UnitPrice = price
	f.Addons[i].Description = description
	return nil
}

// RemoveAddon removes the addon at index i.
func (f *BookingFeatures) RemoveAddon(i int) error {
	if i < 0 || i >= len(f.Addons) {
		return indexError("addon", i, len(f.Addons))
	}
	f.Addons = append(f.Addons[:i], f.Addons[i+1:]...)
	return nil
}

// AddTransferVehicle appends a blank vehicle template.
func (f *BookingFeatures) AddTransferVehicle() {
	f.TransferVehicles = append(f.TransferVehicles, TransferVehicle{Name: "New vehicle"})
}

// UpdateTransferVehicle replaces the vehicle at index i.
func (f *BookingFeatures) UpdateTransferVehicle(i int, v TransferVehicle) error {
	if i < 0 || i >= len(f.TransferVehicles) {
		return indexError("transfer vehicle", i, len(f.TransferVehicles))
	}
	f.TransferVehicles[i] = v
	return nil
}

// RemoveTransferVehicle removes the vehicle at index i.
func (f *BookingFeatures) RemoveTransferVehicle(i int) error {
	if i < 0 || i >= len(f.TransferVehicles) {
		return indexError("transfer vehicle", i, len(f.TransferVehicles))
	}
	f.TransferVehicles = append(f.TransferVehicles[:i], f.TransferVehicles[i+1:]...)
	return nil
}

// SetDeckOption renames one of the two deck options.
func (f *BookingFeatures) SetDeckOption(i int, name string) error {
	if i < 0 || i >= len(f.DeckOptions) {
		return indexError("deck option", i, len(f.DeckOptions))
	}
	f.DeckOptions[i] = name
	return nil
}

// InfoList identifies one of the three informational lists.
type InfoList string

const (
	InfoListCancellation InfoList = "cancellation_info"
	InfoListWhatToBring  InfoList = "what_to_bring"
	InfoListGoodToKnow   InfoList = "good_to_know"
)

func (f *BookingFeatures) infoList(list InfoList) (*[]InfoItem, error) {
	switch list {
	case InfoListCancellation:
		return &f.CancellationInfo, nil
	case InfoListWhatToBring:
		return &f.WhatToBring, nil
	case InfoListGoodToKnow:
		return &f.GoodToKnow, nil
	default:
		return nil, fmt.Errorf("unknown info list %q", list)
	}
}

// AddInfoItem appends an entry to the named informational list.
func (f *BookingFeatures) AddInfoItem(list InfoList, item InfoItem) error {
	items, err := f.infoList(list)
	if err != nil {
		return err
	}
	if !item.Icon.IsValid() {
		item.Icon = InfoIconCheck
	}
	*items = append(*items, item)
	return nil
}

// UpdateInfoItem edits the entry at index i of the named list.
func (f *BookingFeatures) UpdateInfoItem(list InfoList, i int, item InfoItem) error {
	items, err := f.infoList(list)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*items) {
		return indexError(string(list), i, len(*items))
	}
	if !item.Icon.IsValid() {
		item.Icon = InfoIconCheck
	}
	(*items)[i] = item
	return nil
}

// RemoveInfoItem removes the entry at index i of the named list.
func (f *BookingFeatures) RemoveInfoItem(list InfoList, i int) error {
	items, err := f.infoList(list)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(*items) {
		return indexError(string(list), i, len(*items))
	}
	*items = append((*items)[:i], (*items)[i+1:]...)
	return nil
}

// Reset overwrites the whole document with the canonical defaults.
func (f *BookingFeatures) Reset() {
	*f = DefaultFeatures()
}
