package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dcode-github/property_marketplace/catalog"
	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/schemas"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/gorilla/mux"
)

// PropertyView is a listing as the client renders it.
type PropertyView struct {
	models.Property
	FormattedPrice string `json:"formattedPrice"`
	IsFavorite     bool   `json:"isFavorite"`
}

func newView(p models.Property, saved bool) PropertyView {
	return PropertyView{Property: p, FormattedPrice: catalog.FormatPrice(p.Price), IsFavorite: saved}
}

// views decorates props with the caller's saved flags. Favorite lookups are
// best effort: on failure the listings are returned unmarked.
func (d *Deps) views(r *http.Request, props []models.Property) []PropertyView {
	var saved map[string]bool
	if userID, ok := middleware.UserIDFrom(r.Context()); ok && len(props) > 0 {
		ids := make([]string, len(props))
		for i, p := range props {
			ids[i] = p.ID
		}
		var err error
		saved, err = d.Favorites.Saved(r.Context(), userID, ids)
		if err != nil {
			middleware.LoggerFrom(r.Context()).Warn("loading saved flags", "user_id", userID, "error", err)
		}
	}

	out := make([]PropertyView, len(props))
	for i, p := range props {
		out[i] = newView(p, saved[p.ID])
	}
	return out
}

// ListProperties serves the public catalogue: active listings narrowed by
// the query's search criteria.
func ListProperties(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := catalog.ParseCriteria(r.URL.Query())
		if err != nil {
			var verr *catalog.ValidationError
			if errors.As(err, &verr) {
				fail(w, http.StatusBadRequest, "Invalid search criteria", verr.Fields)
				return
			}
			fail(w, http.StatusBadRequest, "Invalid search criteria", nil)
			return
		}

		records, err := d.Properties.List(r.Context(), store.ListQuery{Status: models.StatusActive})
		if err != nil {
			failStore(w, r, err, "Error fetching properties")
			return
		}

		matches := catalog.Filter(records, criteria)
		middleware.LoggerFrom(r.Context()).Debug("catalogue filtered",
			"records", len(records), "matches", len(matches))

		respond(w, http.StatusOK, fmt.Sprintf("Found %d properties", len(matches)), d.views(r, matches))
	}
}

// GetProperty returns one listing. Listings that are not active are only
// visible to their owner.
func GetProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		p, err := d.Properties.Get(r.Context(), id)
		if err != nil {
			failStore(w, r, err, "Property")
			return
		}
		if p.Status != models.StatusActive {
			userID, _ := middleware.UserIDFrom(r.Context())
			if userID != p.OwnerID {
				fail(w, http.StatusNotFound, "Property: not found", nil)
				return
			}
		}
		respond(w, http.StatusOK, "Fetched property", d.views(r, []models.Property{p})[0])
	}
}

type createPropertyRequest struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Price            float64             `json:"price"`
	ListingType      models.ListingType  `json:"type"`
	PropertyType     models.PropertyType `json:"propertyType"`
	Bedrooms         int                 `json:"bedrooms"`
	Bathrooms        int                 `json:"bathrooms"`
	Area             float64             `json:"area"`
	Location         string              `json:"location"`
	Address          string              `json:"address"`
	Features         []string            `json:"features"`
	ImageURL         string              `json:"imageUrl"`
	AdditionalImages []string            `json:"additionalImages"`
	Coordinates      *models.Coordinates `json:"coordinates"`
}

// CreateProperty submits a listing for moderation.
func CreateProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req createPropertyRequest
		if !decodeBody(w, r, schemas.Property, &req) {
			return
		}

		now := time.Now().UTC()
		p := models.Property{
			Title:            req.Title,
			Description:      req.Description,
			Location:         req.Location,
			Address:          req.Address,
			Price:            req.Price,
			ListingType:      req.ListingType,
			PropertyType:     req.PropertyType,
			Bedrooms:         req.Bedrooms,
			Bathrooms:        req.Bathrooms,
			Area:             req.Area,
			Features:         nonNil(req.Features),
			ImageURL:         req.ImageURL,
			AdditionalImages: nonNil(req.AdditionalImages),
			Coordinates:      req.Coordinates,
			Geohash:          store.PinCell(req.Coordinates),
			Status:           models.StatusPending,
			OwnerID:          userID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := d.Properties.Create(r.Context(), &p); err != nil {
			failStore(w, r, err, "Failed to create property")
			return
		}

		middleware.LoggerFrom(r.Context()).Info("property submitted", "property_id", p.ID, "owner_id", userID)
		respond(w, http.StatusCreated, "Property submitted for review", newView(p, false))
	}
}

// MyProperties lists the caller's own listings in every moderation state.
func MyProperties(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		props, err := d.Properties.List(r.Context(), store.ListQuery{OwnerID: userID})
		if err != nil {
			failStore(w, r, err, "Error fetching properties")
			return
		}
		respond(w, http.StatusOK, fmt.Sprintf("Found %d properties", len(props)), d.views(r, props))
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
