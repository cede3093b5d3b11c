package models

import (
	"time"
)

type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

func (t ListingType) Valid() bool {
	return t == ListingSale || t == ListingRent
}

type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyLand, PropertyCommercial:
		return true
	}
	return false
}

// Status is the moderation state of a listing. Only active listings are
// shown in the public catalogue.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusActive || s == StatusRejected
}

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Property struct {
	ID               string       `bson:"_id" json:"id"`
	Title            string       `bson:"title" json:"title"`
	Description      string       `bson:"description" json:"description"`
	Location         string       `bson:"location" json:"location"`
	Address          string       `bson:"address" json:"address"`
	Price            float64      `bson:"price" json:"price"`
	ListingType      ListingType  `bson:"listingType" json:"type"`
	PropertyType     PropertyType `bson:"propertyType" json:"propertyType"`
	Bedrooms         int          `bson:"bedrooms" json:"bedrooms"`
	Bathrooms        int          `bson:"bathrooms" json:"bathrooms"`
	Area             float64      `bson:"area" json:"area"`
	Features         []string     `bson:"features" json:"features"`
	ImageURL         string       `bson:"imageUrl" json:"imageUrl"`
	AdditionalImages []string     `bson:"additionalImages" json:"additionalImages"`
	Coordinates      *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Geohash          string       `bson:"geohash,omitempty" json:"geohash,omitempty"`
	Status           Status       `bson:"status" json:"status"`
	OwnerID          string       `bson:"ownerId" json:"ownerId"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updatedAt"`
}
