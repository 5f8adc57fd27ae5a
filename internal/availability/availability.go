package availability

import (
	"context"
	"time"
)

// DateLayout is the date-only wire format used across the checkout flow.
const DateLayout = "2006-01-02"

// Outcome classifies a stay request. The string values are part of the
// API payload and are consumed directly by clients.
type Outcome string

const (
	OutcomeAvailable    Outcome = "available"
	OutcomeUnavailable  Outcome = "unavailable"
	OutcomePastDate     Outcome = "pastDate"
	OutcomeInvalidRange Outcome = "invalidRange"
	OutcomeTooLong      Outcome = "tooLong"
	OutcomeError        Outcome = "error"
)

// Bookable reports whether an outcome permits payment.
func (o Outcome) Bookable() bool {
	return o == OutcomeAvailable
}

// Query is a stay request to classify. Guests is the total party size.
type Query struct {
	HotelID  string `json:"hotel_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Rooms    int    `json:"rooms"`
}

// Complete reports whether the query carries both dates, a party and a
// room count. Incomplete queries are never evaluated.
func (q Query) Complete() bool {
	return q.CheckIn != "" && q.CheckOut != "" && q.Guests > 0 && q.Rooms > 0
}

// Result is a completed evaluation. AvailableRoomCount is meaningful only
// for the available and unavailable outcomes.
type Result struct {
	Outcome            Outcome   `json:"outcome"`
	AvailableRoomCount int       `json:"available_room_count"`
	Sequence           uint64    `json:"sequence"`
	EvaluatedAt        time.Time `json:"evaluated_at"`
}

// Evaluator classifies stay requests against an inventory source.
type Evaluator struct {
	inventory     Inventory
	maxStayNights int

	// now is swappable for deterministic date boundaries in tests
	now func() time.Time
}

func NewEvaluator(inventory Inventory, maxStayNights int) *Evaluator {
	return &Evaluator{
		inventory:     inventory,
		maxStayNights: maxStayNights,
		now:           time.Now,
	}
}

// Evaluate runs the classification. It returns nil when the query is
// incomplete; inventory failures are reported as the error outcome, not
// as a Go error, so callers always get a presentable state.
//
// Date checks run in a fixed order and the first match wins: past
// check-in, inverted or empty range, stay over the maximum, and only
// then the inventory query.
func (e *Evaluator) Evaluate(ctx context.Context, q Query) *Result {
	if !q.Complete() {
		return nil
	}

	result := &Result{EvaluatedAt: e.now()}

	checkIn, errIn := time.Parse(DateLayout, q.CheckIn)
	checkOut, errOut := time.Parse(DateLayout, q.CheckOut)
	if errIn != nil || errOut != nil {
		result.Outcome = OutcomeInvalidRange
		return result
	}

	// Parsed dates are UTC midnights; compare against a UTC today
	today := truncateToDay(e.now().UTC())

	if checkIn.Before(today) {
		result.Outcome = OutcomePastDate
		return result
	}

	if !checkOut.After(checkIn) {
		result.Outcome = OutcomeInvalidRange
		return result
	}

	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights > e.maxStayNights {
		result.Outcome = OutcomeTooLong
		return result
	}

	hasCapacity, count, err := e.inventory.CountAvailableRooms(ctx, q.HotelID, checkIn, checkOut)
	if err != nil {
		result.Outcome = OutcomeError
		return result
	}

	result.AvailableRoomCount = count
	if hasCapacity && count >= q.Rooms {
		result.Outcome = OutcomeAvailable
	} else {
		result.Outcome = OutcomeUnavailable
	}

	return result
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
