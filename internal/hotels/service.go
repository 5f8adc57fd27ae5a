package hotels

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"smartlodge/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a hotel id does not resolve. Checkout entry
// turns it into a 404 with a redirect hint back to the listing.
var ErrNotFound = errors.New("hotel not found")

const (
	cacheKeyHotelDetail = "smartlodge:hotels:detail:"
	cacheKeyHotelList   = "smartlodge:hotels:list:"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	GetHotelByID(ctx context.Context, id uuid.UUID) (*HotelResponse, error)
	GetAllHotels(ctx context.Context, query HotelListQuery) (*PaginatedHotels, error)

	// Resolve looks up a hotel by its raw path parameter. ErrNotFound for
	// malformed or unknown ids.
	Resolve(ctx context.Context, rawID string) (*Hotel, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
}

func NewService(repo Repository, cacheTTL time.Duration) Service {
	return &service{
		repo:     repo,
		cacheTTL: cacheTTL,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetHotelByID(ctx context.Context, id uuid.UUID) (*HotelResponse, error) {
	cacheKey := cacheKeyHotelDetail + id.String()

	// Try the cache first
	if s.cacheService != nil {
		var cached HotelResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	hotel, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hotel: %w", err)
	}

	response := hotel.ToResponse()
	s.populateRoomCount(&response, hotel.ID)

	if s.cacheService != nil {
		// Failed cache writes must not fail the read
		_ = s.cacheService.Set(ctx, cacheKey, response, s.cacheTTL)
	}

	return &response, nil
}

func (s *service) GetAllHotels(ctx context.Context, query HotelListQuery) (*PaginatedHotels, error) {
	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	cacheKey := buildListCacheKey(query)

	if s.cacheService != nil {
		var cached PaginatedHotels
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	hotels, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get hotels: %w", err)
	}

	hotelResponses := make([]HotelResponse, len(hotels))
	for i, hotel := range hotels {
		response := hotel.ToResponse()
		s.populateRoomCount(&response, hotel.ID)
		hotelResponses[i] = response
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	result := &PaginatedHotels{
		Hotels:     hotelResponses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, result, s.cacheTTL)
	}

	return result, nil
}

func (s *service) Resolve(ctx context.Context, rawID string) (*Hotel, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrNotFound
	}

	hotel, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve hotel: %w", err)
	}

	return hotel, nil
}

// populateRoomCount fills the room count without failing the request when
// the count is unavailable.
func (s *service) populateRoomCount(response *HotelResponse, hotelID uuid.UUID) {
	count, err := s.repo.CountRooms(hotelID)
	if err != nil {
		return
	}
	response.RoomCount = count
}

// buildListCacheKey derives a fixed-length key from the filter set. The
// search and location strings are user supplied, so they are hashed
// rather than embedded in the Redis key.
func buildListCacheKey(query HotelListQuery) string {
	raw := fmt.Sprintf("page:%d:limit:%d:search:%s:location:%s:rating:%.1f:price:%.0f",
		query.Page, query.Limit, query.Search, query.Location,
		query.MinRating, query.MaxPrice)
	sum := sha256.Sum256([]byte(raw))
	return cacheKeyHotelList + hex.EncodeToString(sum[:])
}
