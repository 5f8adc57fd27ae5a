package bookings

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatusConfirmed is the only status a persisted booking carries;
// failed charges never produce a row.
const PaymentStatusConfirmed = "confirmed"

// Booking is the immutable confirmation record. It snapshots the hotel
// and the normalized draft at charge time, so later catalog edits never
// rewrite history.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BookingRef string    `json:"booking_ref" gorm:"uniqueIndex;not null;size:20"`
	SessionID  string    `json:"session_id" gorm:"not null;size:64;index"`
	UserID     string    `json:"user_id,omitempty" gorm:"size:64;index"`

	// Hotel snapshot
	HotelID       uuid.UUID `json:"hotel_id" gorm:"type:uuid;not null;index"`
	HotelName     string    `json:"hotel_name" gorm:"not null;size:255"`
	HotelLocation string    `json:"hotel_location" gorm:"size:255"`

	// Stay snapshot
	CheckIn  time.Time `json:"check_in" gorm:"type:date;not null"`
	CheckOut time.Time `json:"check_out" gorm:"type:date;not null"`
	Nights   int       `json:"nights" gorm:"not null;check:nights > 0"`
	Adults   int       `json:"adults" gorm:"not null"`
	Children int       `json:"children" gorm:"not null;default:0"`
	Rooms    int       `json:"rooms" gorm:"not null;check:rooms > 0"`

	// Guest contact
	GuestFirstName  string `json:"guest_first_name" gorm:"not null;size:100"`
	GuestLastName   string `json:"guest_last_name" gorm:"not null;size:100"`
	GuestEmail      string `json:"guest_email" gorm:"not null;size:255"`
	GuestPhone      string `json:"guest_phone" gorm:"not null;size:20"`
	SpecialRequests string `json:"special_requests" gorm:"type:text"`

	// Payment
	PaymentMethod string  `json:"payment_method" gorm:"not null;size:30"`
	TransactionID string  `json:"transaction_id" gorm:"not null;size:64"`
	Subtotal      float64 `json:"subtotal" gorm:"not null"`
	Tax           float64 `json:"tax" gorm:"not null"`
	TotalAmount   float64 `json:"total_amount" gorm:"not null"`
	Currency      string  `json:"currency" gorm:"not null;size:3"`
	PaymentStatus string  `json:"payment_status" gorm:"not null;size:20;default:'confirmed'"`

	BookingDate time.Time `json:"booking_date" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}
