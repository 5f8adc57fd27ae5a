package checkout

import (
	"encoding/json"
	"strings"
	"time"

	"smartlodge/internal/availability"
)

// Step is the checkout wizard position. Values are stable API numbers.
type Step int

const (
	StepAuth Step = iota + 1
	StepSummary
	StepPayment
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepAuth:
		return "auth"
	case StepSummary:
		return "summary"
	case StepPayment:
		return "payment"
	case StepConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

func (s Step) Valid() bool {
	return s >= StepAuth && s <= StepConfirmed
}

// GuestCount is the party composition. Older clients sent a bare integer
// for the whole party; both wire shapes are accepted, and the object form
// is always produced.
type GuestCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func (g *GuestCount) UnmarshalJSON(data []byte) error {
	// Legacy shape: a plain integer counting the whole party as adults
	var legacy int
	if err := json.Unmarshal(data, &legacy); err == nil {
		g.Adults = legacy
		g.Children = 0
		return nil
	}

	type alias GuestCount
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*g = GuestCount(a)
	return nil
}

func (g GuestCount) Total() int {
	return g.Adults + g.Children
}

// Normalize clamps negative components to zero.
func (g *GuestCount) Normalize() {
	if g.Adults < 0 {
		g.Adults = 0
	}
	if g.Children < 0 {
		g.Children = 0
	}
}

// GuestInfo is the contact block gating the Summary step.
type GuestInfo struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	SpecialRequests string `json:"special_requests"`
}

// Complete reports whether all required contact fields are filled.
func (g GuestInfo) Complete() bool {
	return strings.TrimSpace(g.FirstName) != "" &&
		strings.TrimSpace(g.LastName) != "" &&
		strings.TrimSpace(g.Email) != "" &&
		strings.TrimSpace(g.Phone) != ""
}

// BookingDraft is the mutable stay selection. The derived pricing fields
// are recomputed on every mutation before the draft is persisted, never
// read back stale.
type BookingDraft struct {
	CheckIn  string     `json:"check_in"`
	CheckOut string     `json:"check_out"`
	Guests   GuestCount `json:"guests"`
	Rooms    int        `json:"rooms"`

	// Derived
	Nights     int     `json:"nights"`
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	TotalPrice float64 `json:"total_price"`

	GuestInfo GuestInfo `json:"guest_info"`
}

// CheckoutSession is the server-held checkout state, one per visitor per
// hotel entry. Stored as JSON in Redis under checkout:{id}.
type CheckoutSession struct {
	ID string `json:"id"`

	// Hotel snapshot taken at session open
	HotelID       string  `json:"hotel_id"`
	HotelName     string  `json:"hotel_name"`
	HotelLocation string  `json:"hotel_location"`
	NightlyRate   float64 `json:"nightly_rate"`

	Step          Step   `json:"step"`
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`

	Draft BookingDraft `json:"draft"`

	// Latest applied availability evaluation, nil before the first one
	Availability *availability.Result `json:"availability,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityQuery builds the evaluator input for the current draft.
func (s *CheckoutSession) AvailabilityQuery() availability.Query {
	return availability.Query{
		HotelID:  s.HotelID,
		CheckIn:  s.Draft.CheckIn,
		CheckOut: s.Draft.CheckOut,
		Guests:   s.Draft.Guests.Total(),
		Rooms:    s.Draft.Rooms,
	}
}
