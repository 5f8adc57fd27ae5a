package database

import (
	"smartlodge/internal/bookings"
	"smartlodge/internal/hotels"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&hotels.Hotel{},
		&hotels.Room{},
		&bookings.Booking{},
	)
}
