package hotels

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(hotel *Hotel) error
	GetByID(id uuid.UUID) (*Hotel, error)
	GetAll(query HotelListQuery) ([]Hotel, int64, error)
	CountHotels() (int64, error)
	CreateRooms(rooms []Room) error
	CountRooms(hotelID uuid.UUID) (int, error)
	CountBookedRooms(hotelID uuid.UUID, checkIn, checkOut time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(hotel *Hotel) error {
	return r.db.Create(hotel).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Hotel, error) {
	var hotel Hotel
	err := r.db.Where("id = ?", id).First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) GetAll(query HotelListQuery) ([]Hotel, int64, error) {
	var hotels []Hotel
	var totalCount int64

	db := r.db.Model(&Hotel{})

	// Apply filters
	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Location != "" {
		db = db.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(query.Location)+"%")
	}

	if query.MinRating > 0 {
		db = db.Where("rating >= ?", query.MinRating)
	}

	if query.MaxPrice > 0 {
		db = db.Where("price_per_night <= ?", query.MaxPrice)
	}

	// Count total records
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("rating DESC, name ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&hotels).Error

	return hotels, totalCount, err
}

func (r *repository) CountHotels() (int64, error) {
	var count int64
	err := r.db.Model(&Hotel{}).Count(&count).Error
	return count, err
}

func (r *repository) CreateRooms(rooms []Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return r.db.Create(&rooms).Error
}

func (r *repository) CountRooms(hotelID uuid.UUID) (int, error) {
	var count int64
	err := r.db.Model(&Room{}).Where("hotel_id = ?", hotelID).Count(&count).Error
	return int(count), err
}

// CountBookedRooms sums the rooms held by confirmed bookings that overlap
// the requested stay. The bookings table is addressed by name to keep the
// catalog independent of the bookings package.
func (r *repository) CountBookedRooms(hotelID uuid.UUID, checkIn, checkOut time.Time) (int, error) {
	type sumResult struct {
		Total int `json:"total"`
	}

	var result sumResult
	err := r.db.Table("bookings").
		Select("COALESCE(SUM(rooms), 0) as total").
		Where("hotel_id = ? AND check_in < ? AND check_out > ?", hotelID, checkOut, checkIn).
		Scan(&result).Error
	if err != nil {
		return 0, err
	}

	return result.Total, nil
}
