package notifications

import "time"

// NotificationTypeBookingConfirmed is the only event this service emits.
const NotificationTypeBookingConfirmed = "booking-confirmed"

// BookingConfirmedNotification is the Kafka payload produced when a
// checkout session confirms.
type BookingConfirmedNotification struct {
	BookingRef     string    `json:"booking_ref"`
	SessionID      string    `json:"session_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`
	HotelName      string    `json:"hotel_name"`
	HotelLocation  string    `json:"hotel_location"`
	CheckIn        string    `json:"check_in"`
	CheckOut       string    `json:"check_out"`
	Nights         int       `json:"nights"`
	Rooms          int       `json:"rooms"`
	TotalAmount    float64   `json:"total_amount"`
	Currency       string    `json:"currency"`
	BookingDate    time.Time `json:"booking_date"`
}
