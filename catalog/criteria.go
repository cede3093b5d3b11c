package catalog

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/dcode-github/property_marketplace/models"
)

// Query parameter names accepted by ParseCriteria.
const (
	ParamListingType  = "type"
	ParamLocation     = "location"
	ParamPropertyType = "propertyType"
	ParamMinPrice     = "minPrice"
	ParamMaxPrice     = "maxPrice"
	ParamBedrooms     = "bedrooms"
	ParamBathrooms    = "bathrooms"
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid search criteria: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// ParseCriteria builds SearchCriteria from raw query values. Blank values are
// treated as absent. Non-numeric or negative bounds and unknown enum values
// are rejected with a *ValidationError listing every bad field.
func ParseCriteria(q url.Values) (models.SearchCriteria, error) {
	var (
		c    models.SearchCriteria
		verr ValidationError
	)

	if v := strings.TrimSpace(q.Get(ParamListingType)); v != "" {
		lt := models.ListingType(strings.ToLower(v))
		if !lt.Valid() {
			verr.add(ParamListingType, "must be one of sale, rent")
		} else {
			c.ListingType = lt
		}
	}

	// Location is matched literally, blanks included.
	c.LocationSubstring = q.Get(ParamLocation)

	if v := strings.TrimSpace(q.Get(ParamPropertyType)); v != "" {
		pt := models.PropertyType(strings.ToLower(v))
		if !pt.Valid() {
			verr.add(ParamPropertyType, "must be one of apartment, house, land, commercial")
		} else {
			c.PropertyType = pt
		}
	}

	c.MinPrice = parseAmount(q, ParamMinPrice, &verr)
	c.MaxPrice = parseAmount(q, ParamMaxPrice, &verr)
	c.MinBedrooms = parseCount(q, ParamBedrooms, &verr)
	c.MinBathrooms = parseCount(q, ParamBathrooms, &verr)

	if len(verr.Fields) > 0 {
		return models.SearchCriteria{}, &verr
	}
	return c, nil
}

func parseAmount(q url.Values, key string, verr *ValidationError) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		verr.add(key, "must be a number")
		return nil
	}
	if f < 0 {
		verr.add(key, "must not be negative")
		return nil
	}
	return &f
}

func parseCount(q url.Values, key string, verr *ValidationError) *int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.add(key, "must be a whole number")
		return nil
	}
	if n < 0 {
		verr.add(key, "must not be negative")
		return nil
	}
	return &n
}
