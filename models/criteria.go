package models

// SearchCriteria narrows the catalogue. Zero values mean "no constraint":
// empty strings for the text and enum fields, nil for the numeric bounds.
type SearchCriteria struct {
	ListingType       ListingType  `json:"type,omitempty"`
	LocationSubstring string       `json:"location,omitempty"`
	PropertyType      PropertyType `json:"propertyType,omitempty"`
	MinPrice          *float64     `json:"minPrice,omitempty"`
	MaxPrice          *float64     `json:"maxPrice,omitempty"`
	MinBedrooms       *int         `json:"bedrooms,omitempty"`
	MinBathrooms      *int         `json:"bathrooms,omitempty"`
}
