package main

import (
	"fmt"
	"log"
	"time"

	"charterly/internal/discounts"
	"charterly/internal/shared/config"
	"charterly/internal/shared/database"
	"charterly/internal/tours"
	"charterly/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Charterly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order
func (s *Seeder) CleanDatabase() error {
	tables := []string{"bookings", "discounts", "tours", "users"}
	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	admin, err := s.seedUsers()
	if err != nil {
		return err
	}
	tourIDs, err := s.seedTours(admin.ID)
	if err != nil {
		return err
	}
	return s.seedDiscounts(tourIDs)
}

func (s *Seeder) seedUsers() (*users.User, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	customerHash, err := bcrypt.GenerateFromPassword([]byte("customer123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &users.User{
		ID:        uuid.New(),
		FirstName: "Marina",
		LastName:  "Admin",
		Email:     "admin@charterly.io",
		Password:  string(adminHash),
		Role:      users.RoleAdmin,
	}
	customer := &users.User{
		ID:        uuid.New(),
		FirstName: "Nikos",
		LastName:  "Papadopoulos",
		Email:     "nikos@example.com",
		Password:  string(customerHash),
		Role:      users.RoleUser,
	}

	if err := s.db.GetPostgreSQL().Create([]*users.User{admin, customer}).Error; err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	fmt.Println("  seeded 2 users (admin@charterly.io / admin123!)")
	return admin, nil
}

func (s *Seeder) seedTours(adminID uuid.UUID) ([]uuid.UUID, error) {
	db := s.db.GetPostgreSQL()

	sunset := s.buildSunsetCruise(adminID)
	charter := s.buildPrivateCharter(adminID)
	jetski := s.buildJetSkiSafari(adminID)

	// Link the day tours to each other so the booking dialog can offer a
	// switch between them.
	sunset.Features.LinkedTourIDs = []string{jetski.ID.String()}
	jetski.Features.LinkedTourIDs = []string{sunset.ID.String()}

	allTours := []*tours.Tour{sunset, charter, jetski}
	for _, tour := range allTours {
		if err := db.Create(tour).Error; err != nil {
			return nil, fmt.Errorf("failed to seed tour %s: %w", tour.Name, err)
		}
	}

	fmt.Printf("  seeded %d tours\n", len(allTours))
	ids := make([]uuid.UUID, len(allTours))
	for i, tour := range allTours {
		ids[i] = tour.ID
	}
	return ids, nil
}

func (s *Seeder) buildSunsetCruise(adminID uuid.UUID) *tours.Tour {
	features := tours.DefaultFeatures()
	features.GuestCategories = []tours.GuestCategory{
		{Name: "adult", Label: "Adults", UnitPrice: 0, Min: 1, Max: 12},
		{Name: "child", Label: "Children (4-12)", UnitPrice: 45, Min: 0, Max: 8},
		{Name: "infant", Label: "Infants (0-3)", UnitPrice: 0, Min: 0, Max: 4},
	}
	features.Addons = []tours.Addon{
		{ID: 1, Name: "Snorkeling gear", UnitPrice: 15, Description: "Mask, fins and snorkel"},
		{ID: 2, Name: "Seafood dinner", UnitPrice: 55, Description: "Three-course dinner on board"},
		{ID: 3, Name: "Photo package", UnitPrice: 35, Description: "Professional photos of your trip"},
	}
	features.NextAddonID = 4
	features.TransferAvailable = true
	features.TransferVehicles = []tours.TransferVehicle{
		{Name: "Shared minivan", Price: 12},
		{Name: "Private car", Price: 45},
	}
	features.TravelOptionsEnabled = true
	features.SelfTravelDiscount = 5
	features.HasUpperDeck = true
	features.UpperDeckSurcharge = 20
	features.UrgencyEnabled = true
	features.UrgencyText = "Only a few spots left this week"
	features.CancellationInfo = []tours.InfoItem{
		{Text: "Free cancellation up to 48 hours before departure", Icon: tours.InfoIconCheck},
		{Text: "No refund within 24 hours of departure", Icon: tours.InfoIconCross},
	}
	features.WhatToBring = []tours.InfoItem{
		{Text: "Swimwear and towel", Icon: tours.InfoIconCheck},
		{Text: "Sunscreen", Icon: tours.InfoIconCheck},
	}
	features.GoodToKnow = []tours.InfoItem{
		{Text: "Departure may shift with weather conditions", Icon: tours.InfoIconInfo},
	}
	features.Normalize()

	return &tours.Tour{
		ID:          uuid.New(),
		Name:        "Santorini Sunset Cruise",
		Description: "A five hour catamaran cruise along the caldera with swim stops and dinner at sunset.",
		BasePrice:   90,
		Capacity:    24,
		Status:      tours.StatusActive,
		Features:    features,
		CreatedBy:   adminID,
		UpdatedBy:   &adminID,
	}
}

func (s *Seeder) buildPrivateCharter(adminID uuid.UUID) *tours.Tour {
	charterPrice := 2400.0

	features := tours.DefaultFeatures()
	features.Addons = []tours.Addon{
		{ID: 1, Name: "Champagne package", UnitPrice: 120, Description: "Two bottles chilled on arrival"},
		{ID: 2, Name: "Private chef", UnitPrice: 350, Description: "Full day on-board dining"},
	}
	features.NextAddonID = 3
	features.TransferAvailable = true
	features.TransferVehicles = []tours.TransferVehicle{
		{Name: "Luxury van", Price: 80},
	}
	features.GoodToKnow = []tours.InfoItem{
		{Text: "Up to 10 guests included in the charter price", Icon: tours.InfoIconInfo},
	}
	features.Normalize()

	return &tours.Tour{
		ID:           uuid.New(),
		Name:         "Full-Day Private Yacht Charter",
		Description:  "The whole yacht, your own itinerary. Crew, fuel and standard refreshments included.",
		BasePrice:    240,
		CharterPrice: &charterPrice,
		Capacity:     10,
		Status:       tours.StatusActive,
		Features:     features,
		CreatedBy:    adminID,
		UpdatedBy:    &adminID,
	}
}

func (s *Seeder) buildJetSkiSafari(adminID uuid.UUID) *tours.Tour {
	features := tours.DefaultFeatures()
	features.BookingMode = tours.BookingModeQuantity
	features.QuantityConfig = tours.QuantityConfig{
		Header:    "How many jet skis?",
		Label:     "jet skis",
		Subtitle:  "Two riders per jet ski",
		UnitPrice: 0,
		Min:       1,
		Max:       6,
	}
	features.Addons = []tours.Addon{
		{ID: 1, Name: "Action camera rental", UnitPrice: 25, Description: "Waterproof camera with mount"},
	}
	features.NextAddonID = 2
	features.Normalize()

	return &tours.Tour{
		ID:          uuid.New(),
		Name:        "Jet Ski Safari",
		Description: "A guided two hour ride along the coast. Price per jet ski, licence required for drivers.",
		BasePrice:   140,
		Capacity:    12,
		Status:      tours.StatusActive,
		Features:    features,
		CreatedBy:   adminID,
		UpdatedBy:   &adminID,
	}
}

func (s *Seeder) seedDiscounts(tourIDs []uuid.UUID) error {
	expiry := time.Now().AddDate(0, 3, 0)

	summer := &discounts.Discount{
		ID:     uuid.New(),
		Code:   "SUMMER10",
		Type:   discounts.DiscountTypePercentage,
		Value:  10,
		Active: true,
	}
	early := &discounts.Discount{
		ID:             uuid.New(),
		Code:           "EARLYBIRD",
		Type:           discounts.DiscountTypeFixed,
		Value:          25,
		MinOrderAmount: 150,
		MaxUses:        100,
		ExpiresAt:      &expiry,
		Active:         true,
	}
	// Applies only to the first seeded tour
	cruiseOnly := &discounts.Discount{
		ID:                uuid.New(),
		Code:              "CRUISE15",
		Type:              discounts.DiscountTypePercentage,
		Value:             15,
		ApplicableTourIDs: discounts.TourIDList{tourIDs[0].String()},
		Active:            true,
	}

	err := s.db.GetPostgreSQL().Transaction(func(tx *gorm.DB) error {
		for _, d := range []*discounts.Discount{summer, early, cruiseOnly} {
			if err := tx.Create(d).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed discounts: %w", err)
	}

	fmt.Println("  seeded 3 discount codes (SUMMER10, EARLYBIRD, CRUISE15)")
	return nil
}
