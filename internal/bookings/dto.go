package bookings

import (
	"time"

	"smartlodge/internal/checkout"
)

// PaymentRequest runs the charge for a checkout session. Card fields are
// accepted for shape only; the simulated gateway never stores them. They
// are mandatory for card payments and ignored for paypal.
type PaymentRequest struct {
	Method     string `json:"method" binding:"required,oneof=card paypal"`
	CardNumber string `json:"card_number" binding:"omitempty,min=12,max=19" validate:"required_if=Method card"`
	CardHolder string `json:"card_holder" binding:"omitempty,max=100" validate:"required_if=Method card"`
	CardExpiry string `json:"card_expiry" binding:"omitempty,len=5" validate:"required_if=Method card"`
	CardCVV    string `json:"card_cvv" binding:"omitempty,min=3,max=4" validate:"required_if=Method card"`
}

// ConfirmationResponse is the immutable confirmation surface: mirrored to
// the session store for the success screen and retrievable by reference.
type ConfirmationResponse struct {
	BookingRef    string              `json:"booking_ref"`
	SessionID     string              `json:"session_id"`
	HotelID       string              `json:"hotel_id"`
	HotelName     string              `json:"hotel_name"`
	HotelLocation string              `json:"hotel_location"`
	CheckIn       string              `json:"check_in"`
	CheckOut      string              `json:"check_out"`
	Nights        int                 `json:"nights"`
	Guests        checkout.GuestCount `json:"guests"`
	Rooms         int                 `json:"rooms"`
	GuestName     string              `json:"guest_name"`
	GuestEmail    string              `json:"guest_email"`
	PaymentMethod string              `json:"payment_method"`
	Subtotal      float64             `json:"subtotal"`
	Tax           float64             `json:"tax"`
	TotalAmount   float64             `json:"total_amount"`
	Currency      string              `json:"currency"`
	PaymentStatus string              `json:"payment_status"`
	BookingDate   time.Time           `json:"booking_date"`
}
