package store

import (
	"time"

	"github.com/dcode-github/property_marketplace/models"
)

// Fixture returns the demo catalogue of six active Lagos listings, newest
// first. Each call returns fresh copies.
func Fixture() []models.Property {
	base := time.Date(2023, 11, 15, 10, 30, 0, 0, time.UTC)
	day := 24 * time.Hour

	props := []models.Property{
		{
			ID:           "1",
			Title:        "Luxury 3 Bedroom Apartment",
			Description:  "Beautiful luxury apartment with modern finishes and amenities.",
			Location:     "Lekki Phase 1, Lagos",
			Address:      "12 Admiralty Way, Lekki Phase 1",
			Price:        75000000,
			ListingType:  models.ListingSale,
			PropertyType: models.PropertyApartment,
			Bedrooms:     3,
			Bathrooms:    3,
			Area:         180,
			Features:     []string{"Swimming Pool", "24/7 Security", "Constant Power Supply", "Gym"},
			ImageURL:     "https://images.unsplash.com/photo-1512917774080-9991f1c4c750",
			Coordinates:  &models.Coordinates{Lat: 6.4351, Lng: 3.4500},
		},
		{
			ID:           "2",
			Title:        "Modern 2 Bedroom Flat",
			Description:  "Spacious 2 bedroom flat in a serene environment.",
			Location:     "Ikeja GRA, Lagos",
			Address:      "5 Isaac John Street, Ikeja GRA",
			Price:        45000000,
			ListingType:  models.ListingSale,
			PropertyType: models.PropertyApartment,
			Bedrooms:     2,
			Bathrooms:    2,
			Area:         120,
			ImageURL:     "https://images.unsplash.com/photo-1600585154340-be6161a56a0c",
			Coordinates:  &models.Coordinates{Lat: 6.5788, Lng: 3.3494},
		},
		{
			ID:           "3",
			Title:        "Spacious 4 Bedroom Duplex",
			Description:  "Luxurious 4 bedroom duplex with swimming pool and garden.",
			Location:     "Banana Island, Lagos",
			Address:      "3 Ocean Parade, Banana Island",
			Price:        250000000,
			ListingType:  models.ListingSale,
			PropertyType: models.PropertyHouse,
			Bedrooms:     4,
			Bathrooms:    5,
			Area:         350,
			ImageURL:     "https://images.unsplash.com/photo-1600607687939-ce8a6c25118c",
			Coordinates:  &models.Coordinates{Lat: 6.4698, Lng: 3.4457},
		},
		{
			ID:           "4",
			Title:        "3 Bedroom Apartment for Rent",
			Description:  "Fully furnished 3 bedroom apartment available for rent.",
			Location:     "Victoria Island, Lagos",
			Address:      "20 Ajose Adeogun Street, Victoria Island",
			Price:        5000000,
			ListingType:  models.ListingRent,
			PropertyType: models.PropertyApartment,
			Bedrooms:     3,
			Bathrooms:    3,
			Area:         150,
			ImageURL:     "https://images.unsplash.com/photo-1493809842364-78817add7ffb",
			Coordinates:  &models.Coordinates{Lat: 6.4281, Lng: 3.4219},
		},
		{
			ID:           "5",
			Title:        "Commercial Space",
			Description:  "Prime commercial space suitable for office or retail.",
			Location:     "Ikoyi, Lagos",
			Address:      "8 Awolowo Road, Ikoyi",
			Price:        120000000,
			ListingType:  models.ListingSale,
			PropertyType: models.PropertyCommercial,
			Bedrooms:     0,
			Bathrooms:    2,
			Area:         250,
			ImageURL:     "https://images.unsplash.com/photo-1497366754035-f200968a6e72",
			Coordinates:  &models.Coordinates{Lat: 6.4474, Lng: 3.4346},
		},
		{
			ID:           "6",
			Title:        "Residential Land",
			Description:  "Prime residential land with C of O.",
			Location:     "Ajah, Lagos",
			Address:      "Abraham Adesanya Estate, Ajah",
			Price:        35000000,
			ListingType:  models.ListingSale,
			PropertyType: models.PropertyLand,
			Bedrooms:     0,
			Bathrooms:    0,
			Area:         600,
			ImageURL:     "https://images.unsplash.com/photo-1500382017468-9049fed747ef",
			Coordinates:  &models.Coordinates{Lat: 6.4698, Lng: 3.5852},
		},
	}

	for i := range props {
		props[i].Status = models.StatusActive
		props[i].OwnerID = "agent-abc123"
		props[i].CreatedAt = base.Add(-time.Duration(i) * day)
		props[i].UpdatedAt = props[i].CreatedAt
		props[i].Geohash = PinCell(props[i].Coordinates)
	}
	return props
}
