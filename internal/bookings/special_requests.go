package bookings

import (
	"fmt"
	"sort"
	"strings"

	"charterly/internal/tours"
)

// buildSpecialRequests concatenates bracketed machine-readable tags with the
// customer's free text. Empty segments are dropped; the result reads like
// "[Full yacht charter] [Addons: Snorkeling] customer note".
func buildSpecialRequests(s *Session, quote Quote) string {
	var segments []string

	if quote.IsFullCharter {
		segments = append(segments, "[Full yacht charter]")
	}

	if breakdown := partyBreakdown(s); breakdown != "" {
		segments = append(segments, breakdown)
	}

	if addons := selectedAddonNames(s); len(addons) > 0 {
		segments = append(segments, fmt.Sprintf("[Addons: %s]", strings.Join(addons, ", ")))
	}

	if s.Travel != TravelTypeNone {
		segments = append(segments, fmt.Sprintf("[Travel: %s]", s.Travel))
	}

	if s.VehicleIndex >= 0 && s.VehicleIndex < len(s.Features.TransferVehicles) {
		vehicle := s.Features.TransferVehicles[s.VehicleIndex]
		segments = append(segments, fmt.Sprintf("[Transfer: %s]", vehicle.Name))
	}

	if s.Deck != "" {
		if quote.DeckSurcharge > 0 {
			segments = append(segments, fmt.Sprintf("[Deck: %s +%.2f]", s.Deck, quote.DeckSurcharge))
		} else {
			segments = append(segments, fmt.Sprintf("[Deck: %s]", s.Deck))
		}
	}

	if quote.SelfTravelDiscount > 0 {
		segments = append(segments, fmt.Sprintf("[Self-travel discount -%.2f]", quote.SelfTravelDiscount))
	}

	if note := strings.TrimSpace(s.SpecialRequests); note != "" {
		segments = append(segments, note)
	}

	return strings.Join(segments, " ")
}

func partyBreakdown(s *Session) string {
	if s.Features.BookingMode == tours.BookingModeQuantity {
		if s.Quantity <= 0 {
			return ""
		}
		label := s.Features.QuantityConfig.Label
		if label == "" {
			label = "units"
		}
		return fmt.Sprintf("[%d %s]", s.Quantity, label)
	}

	parts := make([]string, 0, len(s.GuestCounts))
	for name, count := range s.GuestCounts {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", name, count))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	sort.Strings(parts)
	return fmt.Sprintf("[Guests %s]", strings.Join(parts, ", "))
}

func selectedAddonNames(s *Session) []string {
	var names []string
	for _, addon := range s.Features.Addons {
		if s.SelectedAddons[addon.ID] {
			names = append(names, addon.Name)
		}
	}
	return names
}
