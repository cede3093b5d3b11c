package catalog_test

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/dcode-github/property_marketplace/catalog"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func ids(props []models.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterFixtureScenarios(t *testing.T) {
	fixture := store.Fixture()

	tests := []struct {
		name     string
		criteria models.SearchCriteria
		want     []string
	}{
		{
			name:     "no criteria",
			criteria: models.SearchCriteria{},
			want:     []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name: "sale apartments with two or more bedrooms",
			criteria: models.SearchCriteria{
				ListingType:  models.ListingSale,
				PropertyType: models.PropertyApartment,
				MinBedrooms:  iptr(2),
			},
			want: []string{"1", "2"},
		},
		{
			name:     "max price 40M keeps rent then land",
			criteria: models.SearchCriteria{MaxPrice: fptr(40000000)},
			want:     []string{"4", "6"},
		},
		{
			name:     "rent only",
			criteria: models.SearchCriteria{ListingType: models.ListingRent},
			want:     []string{"4"},
		},
		{
			name:     "location substring",
			criteria: models.SearchCriteria{LocationSubstring: "island"},
			want:     []string{"3", "4"},
		},
		{
			name:     "location is literal not tokenised",
			criteria: models.SearchCriteria{LocationSubstring: "lagos island"},
			want:     []string{},
		},
		{
			name:     "trailing blank is part of the substring",
			criteria: models.SearchCriteria{LocationSubstring: "Lagos "},
			want:     []string{},
		},
		{
			name:     "price range inclusive at both ends",
			criteria: models.SearchCriteria{MinPrice: fptr(45000000), MaxPrice: fptr(120000000)},
			want:     []string{"1", "2", "5"},
		},
		{
			name:     "bathrooms at least",
			criteria: models.SearchCriteria{MinBathrooms: iptr(3)},
			want:     []string{"1", "3", "4"},
		},
		{
			name:     "zero bedroom bound keeps land and commercial",
			criteria: models.SearchCriteria{MinBedrooms: iptr(0)},
			want:     []string{"1", "2", "3", "4", "5", "6"},
		},
		{
			name:     "commercial",
			criteria: models.SearchCriteria{PropertyType: models.PropertyCommercial},
			want:     []string{"5"},
		},
		{
			name:     "min above max matches nothing",
			criteria: models.SearchCriteria{MinPrice: fptr(100), MaxPrice: fptr(50)},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Filter(fixture, tt.criteria)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterSaleApartmentOnlyLekki(t *testing.T) {
	// With the Ikeja flat let out instead, Lekki is the only sale apartment with 2+ bedrooms.
	fixture := store.Fixture()
	fixture[1].ListingType = models.ListingRent

	got := catalog.Filter(fixture, models.SearchCriteria{
		ListingType:  models.ListingSale,
		PropertyType: models.PropertyApartment,
		MinBedrooms:  iptr(2),
	})
	require.Len(t, got, 1)
	assert.Equal(t, "Lekki Phase 1, Lagos", got[0].Location)
	assert.Equal(t, 75000000.0, got[0].Price)
}

func TestFilterEmptyInput(t *testing.T) {
	got := catalog.Filter(nil, models.SearchCriteria{ListingType: models.ListingSale})
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = catalog.Filter([]models.Property{}, models.SearchCriteria{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterDoesNotMutateOrAliasInput(t *testing.T) {
	fixture := store.Fixture()
	before := store.Fixture()

	got := catalog.Filter(fixture, models.SearchCriteria{})
	require.Equal(t, fixture, got)

	got[0].Title = "edited"
	assert.Equal(t, before[0].Title, fixture[0].Title)
	assert.Equal(t, before, fixture)
}

func TestFilterEmptyLocationIsNoConstraint(t *testing.T) {
	fixture := store.Fixture()
	assert.Equal(t, fixture, catalog.Filter(fixture, models.SearchCriteria{LocationSubstring: ""}))
}

func TestFilterLocationCaseInsensitive(t *testing.T) {
	fixture := store.Fixture()
	for _, variant := range []string{"lagos", "LAGOS", "LaGoS"} {
		got := catalog.Filter(fixture, models.SearchCriteria{LocationSubstring: variant})
		assert.Equal(t, fixture, got, variant)
	}
	assert.Equal(t,
		ids(catalog.Filter(fixture, models.SearchCriteria{LocationSubstring: "lekki"})),
		ids(catalog.Filter(fixture, models.SearchCriteria{LocationSubstring: "LEKKI PHASE"})),
	)
}

func TestFilterBoundsAreInclusive(t *testing.T) {
	fixture := store.Fixture()
	exact := fptr(45000000)

	assert.Contains(t, ids(catalog.Filter(fixture, models.SearchCriteria{MinPrice: exact})), "2")
	assert.Contains(t, ids(catalog.Filter(fixture, models.SearchCriteria{MaxPrice: exact})), "2")
	assert.Contains(t, ids(catalog.Filter(fixture, models.SearchCriteria{MinBedrooms: iptr(4)})), "3")
	assert.Contains(t, ids(catalog.Filter(fixture, models.SearchCriteria{MinBathrooms: iptr(5)})), "3")
}

func TestMatches(t *testing.T) {
	land := store.Fixture()[5]
	assert.True(t, catalog.Matches(land, models.SearchCriteria{PropertyType: models.PropertyLand}))
	assert.False(t, catalog.Matches(land, models.SearchCriteria{MinBathrooms: iptr(1)}))
}

// randomCatalog builds a reproducible pseudo-random catalogue.
func randomCatalog(r *rand.Rand, n int) []models.Property {
	locations := []string{"Lekki Phase 1, Lagos", "Ikeja GRA, Lagos", "Wuse 2, Abuja", "GRA, Port Harcourt", "Ikoyi, Lagos"}
	listing := []models.ListingType{models.ListingSale, models.ListingRent}
	kinds := []models.PropertyType{models.PropertyApartment, models.PropertyHouse, models.PropertyLand, models.PropertyCommercial}

	out := make([]models.Property, n)
	for i := range out {
		out[i] = models.Property{
			ID:           fmt.Sprintf("p%03d", i),
			Location:     locations[r.Intn(len(locations))],
			Price:        float64(r.Intn(300)) * 1000000,
			ListingType:  listing[r.Intn(len(listing))],
			PropertyType: kinds[r.Intn(len(kinds))],
			Bedrooms:     r.Intn(6),
			Bathrooms:    r.Intn(6),
			Area:         float64(50 + r.Intn(500)),
		}
	}
	return out
}

func randomCriteria(r *rand.Rand) models.SearchCriteria {
	var c models.SearchCriteria
	if r.Intn(2) == 0 {
		c.ListingType = []models.ListingType{models.ListingSale, models.ListingRent}[r.Intn(2)]
	}
	if r.Intn(2) == 0 {
		c.LocationSubstring = []string{"lagos", "ABUJA", "gra", "Lekki"}[r.Intn(4)]
	}
	if r.Intn(3) == 0 {
		c.PropertyType = models.PropertyApartment
	}
	if r.Intn(2) == 0 {
		c.MinPrice = fptr(float64(r.Intn(150)) * 1000000)
	}
	if r.Intn(2) == 0 {
		c.MaxPrice = fptr(float64(100+r.Intn(200)) * 1000000)
	}
	if r.Intn(2) == 0 {
		c.MinBedrooms = iptr(r.Intn(5))
	}
	if r.Intn(2) == 0 {
		c.MinBathrooms = iptr(r.Intn(5))
	}
	return c
}

// isOrderedSubset reports whether sub appears in all in the same relative order.
func isOrderedSubset(sub, all []models.Property) bool {
	j := 0
	for _, p := range sub {
		for j < len(all) && all[j].ID != p.ID {
			j++
		}
		if j == len(all) {
			return false
		}
		j++
	}
	return true
}

func TestFilterProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		all := randomCatalog(r, 40)
		c := randomCriteria(r)
		got := catalog.Filter(all, c)

		require.True(t, isOrderedSubset(got, all), "round %d: result is not an ordered subset", round)
		require.Equal(t, got, catalog.Filter(got, c), "round %d: not idempotent", round)

		for _, p := range got {
			require.True(t, catalog.Matches(p, c), "round %d: %s should not match", round, p.ID)
		}
		require.Equal(t, len(got), countMatches(all, c), "round %d: missing matches", round)

		narrowed := c
		narrowed.MinBathrooms = iptr(3)
		if c.MinBathrooms == nil {
			require.True(t, isOrderedSubset(catalog.Filter(all, narrowed), got),
				"round %d: extra constraint widened the result", round)
		}

		upper := c
		upper.LocationSubstring = strings.ToUpper(c.LocationSubstring)
		require.Equal(t, ids(got), ids(catalog.Filter(all, upper)), "round %d: case sensitive", round)
	}
}

// countMatches is an independent oracle for the filter predicates.
func countMatches(all []models.Property, c models.SearchCriteria) int {
	n := 0
	for _, p := range all {
		switch {
		case c.ListingType != "" && p.ListingType != c.ListingType:
		case c.LocationSubstring != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(c.LocationSubstring)):
		case c.PropertyType != "" && p.PropertyType != c.PropertyType:
		case c.MinPrice != nil && p.Price < *c.MinPrice:
		case c.MaxPrice != nil && p.Price > *c.MaxPrice:
		case c.MinBedrooms != nil && p.Bedrooms < *c.MinBedrooms:
		case c.MinBathrooms != nil && p.Bathrooms < *c.MinBathrooms:
		default:
			n++
		}
	}
	return n
}

func TestFilterConcurrentCallers(t *testing.T) {
	fixture := store.Fixture()
	want := ids(catalog.Filter(fixture, models.SearchCriteria{LocationSubstring: "lagos", MaxPrice: fptr(100000000)}))

	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ids(catalog.Filter(fixture, models.SearchCriteria{LocationSubstring: "lagos", MaxPrice: fptr(100000000)}))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
