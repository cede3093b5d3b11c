package catalog

import (
	"errors"
	"net/url"
	"testing"

	"github.com/dcode-github/property_marketplace/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, c models.SearchCriteria)
	}{
		{
			name:  "empty query",
			query: "",
			check: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.SearchCriteria{}, c)
			},
		},
		{
			name:  "blank values are absent",
			query: "type=&location=&minPrice=&bedrooms=",
			check: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.SearchCriteria{}, c)
			},
		},
		{
			name:  "location is kept verbatim",
			query: "location=Lagos%20",
			check: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, "Lagos ", c.LocationSubstring)
			},
		},
		{
			name:  "all fields",
			query: "type=sale&location=Lekki&propertyType=apartment&minPrice=1000&maxPrice=75000000&bedrooms=2&bathrooms=1",
			check: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.ListingSale, c.ListingType)
				assert.Equal(t, "Lekki", c.LocationSubstring)
				assert.Equal(t, models.PropertyApartment, c.PropertyType)
				require.NotNil(t, c.MinPrice)
				assert.Equal(t, 1000.0, *c.MinPrice)
				require.NotNil(t, c.MaxPrice)
				assert.Equal(t, 75000000.0, *c.MaxPrice)
				require.NotNil(t, c.MinBedrooms)
				assert.Equal(t, 2, *c.MinBedrooms)
				require.NotNil(t, c.MinBathrooms)
				assert.Equal(t, 1, *c.MinBathrooms)
			},
		},
		{
			name:  "enum values are case-insensitive",
			query: "type=RENT&propertyType=House",
			check: func(t *testing.T, c models.SearchCriteria) {
				assert.Equal(t, models.ListingRent, c.ListingType)
				assert.Equal(t, models.PropertyHouse, c.PropertyType)
			},
		},
		{
			name:  "zero bounds are kept",
			query: "minPrice=0&bedrooms=0",
			check: func(t *testing.T, c models.SearchCriteria) {
				require.NotNil(t, c.MinPrice)
				assert.Equal(t, 0.0, *c.MinPrice)
				require.NotNil(t, c.MinBedrooms)
				assert.Equal(t, 0, *c.MinBedrooms)
			},
		},
		{
			name:  "decimal price",
			query: "maxPrice=2500000.50",
			check: func(t *testing.T, c models.SearchCriteria) {
				require.NotNil(t, c.MaxPrice)
				assert.Equal(t, 2500000.50, *c.MaxPrice)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			c, err := ParseCriteria(q)
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestParseCriteriaRejects(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		fields map[string]string
	}{
		{
			name:   "non-numeric price",
			query:  "minPrice=cheap",
			fields: map[string]string{"minPrice": "must be a number"},
		},
		{
			name:   "NaN price",
			query:  "maxPrice=NaN",
			fields: map[string]string{"maxPrice": "must be a number"},
		},
		{
			name:   "infinite price",
			query:  "maxPrice=Inf",
			fields: map[string]string{"maxPrice": "must be a number"},
		},
		{
			name:   "negative price",
			query:  "minPrice=-5",
			fields: map[string]string{"minPrice": "must not be negative"},
		},
		{
			name:   "fractional bedrooms",
			query:  "bedrooms=2.5",
			fields: map[string]string{"bedrooms": "must be a whole number"},
		},
		{
			name:   "negative bathrooms",
			query:  "bathrooms=-1",
			fields: map[string]string{"bathrooms": "must not be negative"},
		},
		{
			name:  "unknown enums",
			query: "type=lease&propertyType=castle",
			fields: map[string]string{
				"type":         "must be one of sale, rent",
				"propertyType": "must be one of apartment, house, land, commercial",
			},
		},
		{
			name:  "every bad field is reported",
			query: "minPrice=x&maxPrice=y&bedrooms=z&location=Lagos",
			fields: map[string]string{
				"minPrice": "must be a number",
				"maxPrice": "must be a number",
				"bedrooms": "must be a whole number",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			c, err := ParseCriteria(q)
			require.Error(t, err)
			assert.Equal(t, models.SearchCriteria{}, c)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestValidationErrorMessageIsSorted(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"maxPrice": "bad", "bedrooms": "worse"}}
	assert.Equal(t, "invalid search criteria: bedrooms: worse; maxPrice: bad", err.Error())
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{75000000, "₦75,000,000"},
		{5000000, "₦5,000,000"},
		{999, "₦999"},
		{0, "₦0"},
		{1234.6, "₦1,235"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.amount))
	}
}
