package database

import (
	"charterly/internal/bookings"
	"charterly/internal/discounts"
	"charterly/internal/tours"
	"charterly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&tours.Tour{},
		&bookings.Booking{},
		&discounts.Discount{},
	)
}
