package bookings

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(booking *Booking) error
	GetByRef(ref string) (*Booking, error)
	GetBySessionID(sessionID string) (*Booking, error)
	GetByUserID(userID string, limit int) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(booking *Booking) error {
	return r.db.Create(booking).Error
}

func (r *repository) GetByRef(ref string) (*Booking, error) {
	var booking Booking
	err := r.db.Where("booking_ref = ?", ref).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBySessionID(sessionID string) (*Booking, error) {
	var booking Booking
	err := r.db.Where("session_id = ?", sessionID).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByUserID(userID string, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = 20
	}

	var bookings []Booking
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}
