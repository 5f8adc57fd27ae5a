package availability

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Inventory answers how many rooms a hotel can offer for a stay.
// hasCapacity is false when the property cannot take bookings at all for
// the window, regardless of the count.
type Inventory interface {
	CountAvailableRooms(ctx context.Context, hotelID string, checkIn, checkOut time.Time) (hasCapacity bool, roomCount int, err error)
}

// SimulatedInventory is the stand-in for the future inventory API: an
// artificial delay, then an 80% chance of capacity with 5-15 rooms on
// offer. The catalog-backed implementation lives with the hotel catalog.
type SimulatedInventory struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedInventory(delay time.Duration) *SimulatedInventory {
	return &SimulatedInventory{
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimulatedInventory) CountAvailableRooms(ctx context.Context, hotelID string, checkIn, checkOut time.Time) (bool, int, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return false, 0, ctx.Err()
		}
	}

	s.mu.Lock()
	hasCapacity := s.rng.Float64() < 0.8
	roomCount := 5 + s.rng.Intn(11)
	s.mu.Unlock()

	return hasCapacity, roomCount, nil
}
