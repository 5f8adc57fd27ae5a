package hotels

import (
	"time"

	"github.com/google/uuid"
)

type Hotel struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	Location      string    `json:"location" gorm:"not null;size:255"`
	Description   string    `json:"description" gorm:"type:text"`
	PricePerNight float64   `json:"price_per_night" gorm:"not null;check:price_per_night >= 0"`
	Rating        float64   `json:"rating" gorm:"default:0;check:rating >= 0 AND rating <= 5"`
	Amenities     []string  `json:"amenities" gorm:"serializer:json"`
	ImageURL      string    `json:"image_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Room is a physical room belonging to a hotel. The catalog-backed
// inventory counts these against overlapping bookings.
type Room struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	HotelID  uuid.UUID `json:"hotel_id" gorm:"type:uuid;not null;index"`
	Number   string    `json:"number" gorm:"not null;size:20"`
	Capacity int       `json:"capacity" gorm:"not null;default:2;check:capacity > 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type HotelResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location"`
	Description   string    `json:"description"`
	PricePerNight float64   `json:"price_per_night"`
	Rating        float64   `json:"rating"`
	Amenities     []string  `json:"amenities"`
	ImageURL      string    `json:"image_url"`
	RoomCount     int       `json:"room_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HotelListQuery struct {
	Page      int     `form:"page" binding:"omitempty,min=1"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string  `form:"search"`
	Location  string  `form:"location"`
	MinRating float64 `form:"min_rating" binding:"omitempty,min=0,max=5"`
	MaxPrice  float64 `form:"max_price" binding:"omitempty,min=0"`
}

type PaginatedHotels struct {
	Hotels     []HotelResponse `json:"hotels"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Helper method to convert Hotel to HotelResponse
// Note: RoomCount is populated separately by the service layer
func (h *Hotel) ToResponse() HotelResponse {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return HotelResponse{
		ID:            h.ID.String(),
		Name:          h.Name,
		Location:      h.Location,
		Description:   h.Description,
		PricePerNight: h.PricePerNight,
		Rating:        h.Rating,
		Amenities:     amenities,
		ImageURL:      h.ImageURL,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Hotel) TableName() string {
	return "hotels"
}

func (Room) TableName() string {
	return "rooms"
}
