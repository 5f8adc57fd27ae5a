package hotels

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogInventory answers availability queries from the rooms table:
// rooms owned by the hotel minus rooms held by overlapping bookings. It
// satisfies the availability.Inventory port.
type CatalogInventory struct {
	repo Repository
}

func NewCatalogInventory(repo Repository) *CatalogInventory {
	return &CatalogInventory{repo: repo}
}

func (inv *CatalogInventory) CountAvailableRooms(ctx context.Context, hotelID string, checkIn, checkOut time.Time) (bool, int, error) {
	id, err := uuid.Parse(hotelID)
	if err != nil {
		return false, 0, fmt.Errorf("invalid hotel id: %w", err)
	}

	total, err := inv.repo.CountRooms(id)
	if err != nil {
		return false, 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	booked, err := inv.repo.CountBookedRooms(id, checkIn, checkOut)
	if err != nil {
		return false, 0, fmt.Errorf("failed to count booked rooms: %w", err)
	}

	free := total - booked
	if free < 0 {
		free = 0
	}

	return total > 0, free, nil
}
