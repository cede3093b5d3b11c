package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/gorilla/mux"
)

type addFavoriteRequest struct {
	PropertyID string `json:"propertyId"`
}

func AddFavorite(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}

		var req addFavoriteRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			fail(w, http.StatusBadRequest, "Invalid request data", nil)
			return
		}
		req.PropertyID = strings.TrimSpace(req.PropertyID)
		if req.PropertyID == "" {
			fail(w, http.StatusBadRequest, "Invalid request data", map[string]string{"propertyId": "is required"})
			return
		}

		p, err := d.Properties.Get(r.Context(), req.PropertyID)
		if err == nil && p.Status != models.StatusActive && p.OwnerID != userID {
			err = store.ErrNotFound
		}
		if err != nil {
			failStore(w, r, err, "Property")
			return
		}

		fav, err := d.Favorites.Add(r.Context(), userID, req.PropertyID)
		if errors.Is(err, store.ErrDuplicate) {
			fail(w, http.StatusConflict, "Property is already in favorites", nil)
			return
		}
		if err != nil {
			failStore(w, r, err, "Failed to add property to favorites")
			return
		}

		middleware.LoggerFrom(r.Context()).Info("favorite added", "user_id", userID, "property_id", req.PropertyID)
		respond(w, http.StatusCreated, "Property added to favorites", fav)
	}
}

// GetFavorites lists the caller's saved listings, most recently saved first.
func GetFavorites(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		props, err := d.Favorites.Properties(r.Context(), userID)
		if err != nil {
			failStore(w, r, err, "Failed to fetch favorite properties")
			return
		}
		out := make([]PropertyView, len(props))
		for i, p := range props {
			out[i] = newView(p, true)
		}
		respond(w, http.StatusOK, "Fetched favorite properties", out)
	}
}

func DeleteFavorite(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		propertyID := mux.Vars(r)["propertyId"]
		if err := d.Favorites.Remove(r.Context(), userID, propertyID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				fail(w, http.StatusNotFound, "Favorite not found", nil)
				return
			}
			failStore(w, r, err, "Failed to remove property from favorites")
			return
		}
		respond(w, http.StatusOK, "Property removed from favorites", nil)
	}
}
