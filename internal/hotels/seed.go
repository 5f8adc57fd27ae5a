package hotels

import (
	"fmt"
)

type seedHotel struct {
	hotel Hotel
	rooms int
}

// Seed inserts a small starter catalog when the hotels table is empty.
// Development convenience only; production catalogs are managed elsewhere.
func Seed(repo Repository) error {
	count, err := repo.CountHotels()
	if err != nil {
		return fmt.Errorf("failed to check hotel count: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []seedHotel{
		{
			hotel: Hotel{
				Name:          "Grand Hotel Palace",
				Location:      "New York City, NY",
				Description:   "Luxury hotel in the heart of Manhattan with stunning city views.",
				PricePerNight: 299,
				Rating:        4.8,
				Amenities:     []string{"WiFi", "Pool", "Spa", "Restaurant", "Gym"},
				ImageURL:      "https://images.unsplash.com/photo-1566073771259-6a8506099945",
			},
			rooms: 14,
		},
		{
			hotel: Hotel{
				Name:          "Ocean View Resort",
				Location:      "Miami Beach, FL",
				Description:   "Beachfront resort with crystal clear ocean views and white sand beaches.",
				PricePerNight: 199,
				Rating:        4.6,
				Amenities:     []string{"WiFi", "Beach Access", "Pool", "Restaurant", "Bar"},
				ImageURL:      "https://images.unsplash.com/photo-1571003123894-1f0594d2b5d9",
			},
			rooms: 12,
		},
		{
			hotel: Hotel{
				Name:          "Mountain Lodge Retreat",
				Location:      "Aspen, CO",
				Description:   "Cozy mountain lodge with direct ski access and breathtaking alpine views.",
				PricePerNight: 349,
				Rating:        4.7,
				Amenities:     []string{"WiFi", "Ski Access", "Fireplace", "Restaurant", "Spa"},
				ImageURL:      "https://images.unsplash.com/photo-1520250497591-112f2f40a3f4",
			},
			rooms: 8,
		},
		{
			hotel: Hotel{
				Name:          "City Central Hotel",
				Location:      "Chicago, IL",
				Description:   "Modern hotel in downtown Chicago, perfect for business and leisure travelers.",
				PricePerNight: 159,
				Rating:        4.4,
				Amenities:     []string{"WiFi", "Business Center", "Restaurant", "Gym", "Parking"},
				ImageURL:      "https://images.unsplash.com/photo-1551882547-ff40c63fe5fa",
			},
			rooms: 15,
		},
		{
			hotel: Hotel{
				Name:          "Desert Oasis Resort",
				Location:      "Phoenix, AZ",
				Description:   "Luxury desert resort with championship golf course and world-class spa.",
				PricePerNight: 229,
				Rating:        4.5,
				Amenities:     []string{"WiFi", "Pool", "Spa", "Golf Course", "Restaurant"},
				ImageURL:      "https://images.unsplash.com/photo-1602002418082-a4443e081dd1",
			},
			rooms: 10,
		},
		{
			hotel: Hotel{
				Name:          "Historic Inn & Suites",
				Location:      "Boston, MA",
				Description:   "Charming historic hotel in downtown Boston with elegant Victorian architecture.",
				PricePerNight: 189,
				Rating:        4.3,
				Amenities:     []string{"WiFi", "Historic Architecture", "Restaurant", "Bar", "Concierge"},
				ImageURL:      "https://images.unsplash.com/photo-1542314831-068cd1dbfeeb",
			},
			rooms: 9,
		},
		{
			hotel: Hotel{
				Name:          "Tropical Paradise Resort",
				Location:      "Honolulu, HI",
				Description:   "Luxurious beachfront resort in Hawaii with pristine beaches and world-class amenities.",
				PricePerNight: 389,
				Rating:        4.9,
				Amenities:     []string{"WiFi", "Private Beach", "Pool", "Spa", "Water Sports", "Restaurant"},
				ImageURL:      "https://images.unsplash.com/photo-1520637836862-4d197d17c52a",
			},
			rooms: 16,
		},
		{
			hotel: Hotel{
				Name:          "Metropolitan Boutique Hotel",
				Location:      "San Francisco, CA",
				Description:   "Stylish boutique hotel in the heart of San Francisco with contemporary design and city views.",
				PricePerNight: 279,
				Rating:        4.6,
				Amenities:     []string{"WiFi", "Rooftop Bar", "Art Gallery", "Restaurant", "Valet Parking", "Concierge"},
				ImageURL:      "https://images.unsplash.com/photo-1590490360182-c33d57733427",
			},
			rooms: 11,
		},
	}

	for i := range seeds {
		if err := repo.Create(&seeds[i].hotel); err != nil {
			return fmt.Errorf("failed to seed hotel %q: %w", seeds[i].hotel.Name, err)
		}

		rooms := make([]Room, seeds[i].rooms)
		for n := range rooms {
			rooms[n] = Room{
				HotelID:  seeds[i].hotel.ID,
				Number:   fmt.Sprintf("%d%02d", (n/10)+1, (n%10)+1),
				Capacity: 2,
			}
		}
		if err := repo.CreateRooms(rooms); err != nil {
			return fmt.Errorf("failed to seed rooms for %q: %w", seeds[i].hotel.Name, err)
		}
	}

	return nil
}
