package checkout

import (
	"math"
	"time"

	"smartlodge/internal/availability"
)

// TaxRate is the flat tax applied to every booking subtotal.
const TaxRate = 0.12

// Nights returns the whole nights between two date-only strings, zero for
// missing, malformed or non-positive ranges.
func Nights(checkIn, checkOut string) int {
	if checkIn == "" || checkOut == "" {
		return 0
	}

	in, errIn := time.Parse(availability.DateLayout, checkIn)
	out, errOut := time.Parse(availability.DateLayout, checkOut)
	if errIn != nil || errOut != nil {
		return 0
	}

	nights := int(math.Ceil(out.Sub(in).Hours() / 24))
	if nights < 0 {
		return 0
	}
	return nights
}

// Reprice recomputes the derived pricing fields from the current dates,
// room count and the hotel's nightly rate. Idempotent: repricing an
// unchanged draft never alters the result.
func (d *BookingDraft) Reprice(nightlyRate float64) {
	rooms := d.Rooms
	if rooms <= 0 {
		rooms = 1
	}

	d.Nights = Nights(d.CheckIn, d.CheckOut)
	d.Subtotal = float64(d.Nights) * nightlyRate * float64(rooms)
	d.Tax = d.Subtotal * TaxRate
	d.TotalPrice = d.Subtotal + d.Tax
}
