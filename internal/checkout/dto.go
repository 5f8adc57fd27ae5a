package checkout

import (
	"time"
)

// AuthRequest finishes the auth step. Mode "login" expects a valid bearer
// token on the request; mode "guest" continues without one.
type AuthRequest struct {
	Mode string `json:"mode" binding:"required,oneof=login guest"`
}

// UpdateDraftRequest mutates the stay selection. Absent fields are left
// untouched; an empty date string clears that date.
type UpdateDraftRequest struct {
	CheckIn  *string     `json:"check_in" binding:"omitempty,datetime=2006-01-02"`
	CheckOut *string     `json:"check_out" binding:"omitempty,datetime=2006-01-02"`
	Guests   *GuestCount `json:"guests"`
	Rooms    *int        `json:"rooms" binding:"omitempty,min=1,max=10"`
}

type GuestInfoRequest struct {
	FirstName       string `json:"first_name" binding:"required,min=1,max=100"`
	LastName        string `json:"last_name" binding:"required,min=1,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required,min=7,max=20"`
	SpecialRequests string `json:"special_requests" binding:"max=1000"`
}

// AvailabilityStatus is the live evaluation state: checking while the
// latest draft change has no applied result yet.
type AvailabilityStatus struct {
	Checking bool                `json:"checking"`
	Result   *AvailabilityResult `json:"result,omitempty"`
}

// AvailabilityResult mirrors availability.Result for the API payload.
type AvailabilityResult struct {
	Outcome            string    `json:"outcome"`
	AvailableRoomCount int       `json:"available_room_count"`
	EvaluatedAt        time.Time `json:"evaluated_at"`
}

type SessionResponse struct {
	ID            string             `json:"id"`
	HotelID       string             `json:"hotel_id"`
	HotelName     string             `json:"hotel_name"`
	HotelLocation string             `json:"hotel_location"`
	NightlyRate   float64            `json:"nightly_rate"`
	Step          int                `json:"step"`
	StepName      string             `json:"step_name"`
	Authenticated bool               `json:"authenticated"`
	Draft         BookingDraft       `json:"draft"`
	Availability  AvailabilityStatus `json:"availability"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
