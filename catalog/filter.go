// Package catalog selects listings from the property catalogue for a set of
// search criteria and turns raw query input into those criteria.
package catalog

import (
	"strings"

	"github.com/dcode-github/property_marketplace/models"
	"golang.org/x/text/cases"
)

// Filter returns the records that satisfy every constraint present in c, in
// their input order. The input slice is never modified and the result never
// aliases it. An empty result is a valid outcome, not an error.
func Filter(records []models.Property, c models.SearchCriteria) []models.Property {
	m := newMatcher(c)
	out := make([]models.Property, 0)
	for i := range records {
		if m.match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single record satisfies c.
func Matches(p models.Property, c models.SearchCriteria) bool {
	return newMatcher(c).match(&p)
}

type matcher struct {
	c        models.SearchCriteria
	folder   cases.Caser
	location string
}

// cases.Caser is stateful, so every Filter call gets its own.
func newMatcher(c models.SearchCriteria) *matcher {
	m := &matcher{c: c, folder: cases.Fold()}
	if c.LocationSubstring != "" {
		m.location = m.folder.String(c.LocationSubstring)
	}
	return m
}

func (m *matcher) match(p *models.Property) bool {
	c := m.c
	if c.ListingType != "" && p.ListingType != c.ListingType {
		return false
	}
	if m.location != "" && !strings.Contains(m.folder.String(p.Location), m.location) {
		return false
	}
	if c.PropertyType != "" && p.PropertyType != c.PropertyType {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinBedrooms != nil && p.Bedrooms < *c.MinBedrooms {
		return false
	}
	if c.MinBathrooms != nil && p.Bathrooms < *c.MinBathrooms {
		return false
	}
	return true
}
