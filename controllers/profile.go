package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/schemas"
	"github.com/dcode-github/property_marketplace/store"
)

// loadProfile returns the stored profile or a blank regular-user profile for
// accounts that have not filled one in yet.
func (d *Deps) loadProfile(r *http.Request, userID string) (models.Profile, error) {
	p, err := d.Profiles.Get(r.Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Profile{UserID: userID, UserType: models.UserRegular}, nil
	}
	return p, err
}

func GetProfile(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		p, err := d.loadProfile(r, userID)
		if err != nil {
			failStore(w, r, err, "Failed to load profile")
			return
		}
		respond(w, http.StatusOK, "Fetched profile", p)
	}
}

type profileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Bio         string `json:"bio"`
}

// UpdateProfile edits the caller's contact details. Account type and
// verification are only changed through the verification workflow.
func UpdateProfile(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req profileRequest
		if !decodeBody(w, r, schemas.Profile, &req) {
			return
		}

		p, err := d.loadProfile(r, userID)
		if err != nil {
			failStore(w, r, err, "Failed to load profile")
			return
		}
		now := time.Now().UTC()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.FirstName = req.FirstName
		p.LastName = req.LastName
		p.PhoneNumber = req.PhoneNumber
		p.Bio = req.Bio
		if req.Email != "" {
			p.Email = req.Email
		}
		p.UpdatedAt = now

		if err := d.Profiles.Save(r.Context(), &p); err != nil {
			failStore(w, r, err, "Failed to update profile")
			return
		}
		respond(w, http.StatusOK, "Profile updated", p)
	}
}
