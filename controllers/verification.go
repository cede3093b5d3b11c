package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/schemas"
	"github.com/dcode-github/property_marketplace/store"
)

type verificationRequest struct {
	CompanyName        string `json:"companyName"`
	LicenseNumber      string `json:"licenseNumber"`
	YearsExperience    int    `json:"yearsExperience"`
	Specialization     string `json:"specialization"`
	IDDocumentURL      string `json:"idDocumentUrl"`
	LicenseDocumentURL string `json:"licenseDocumentUrl"`
}

// SubmitVerification files an agent verification request. Documents may be
// omitted only by agents who are already verified and are updating details.
func SubmitVerification(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		var req verificationRequest
		if !decodeBody(w, r, schemas.Verification, &req) {
			return
		}

		profile, err := d.loadProfile(r, userID)
		if err != nil {
			failStore(w, r, err, "Failed to load profile")
			return
		}
		if !profile.IsVerified {
			missing := map[string]string{}
			if req.IDDocumentURL == "" {
				missing["idDocumentUrl"] = "is required"
			}
			if req.LicenseDocumentURL == "" {
				missing["licenseDocumentUrl"] = "is required"
			}
			if len(missing) > 0 {
				fail(w, http.StatusBadRequest, "Invalid request data", missing)
				return
			}
		}

		vr := models.VerificationRequest{
			UserID:             userID,
			CompanyName:        req.CompanyName,
			LicenseNumber:      req.LicenseNumber,
			YearsExperience:    req.YearsExperience,
			Specialization:     req.Specialization,
			IDDocumentURL:      req.IDDocumentURL,
			LicenseDocumentURL: req.LicenseDocumentURL,
			Status:             models.VerificationPending,
			CreatedAt:          time.Now().UTC(),
		}
		err = d.Verifications.Create(r.Context(), &vr)
		if errors.Is(err, store.ErrDuplicate) {
			fail(w, http.StatusConflict, "A verification request is already pending", nil)
			return
		}
		if err != nil {
			failStore(w, r, err, "Failed to submit verification request")
			return
		}

		middleware.LoggerFrom(r.Context()).Info("verification requested", "request_id", vr.ID, "user_id", userID)
		respond(w, http.StatusCreated, "Verification request submitted", vr)
	}
}

// GetVerification returns the caller's most recent request.
func GetVerification(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		vr, err := d.Verifications.Latest(r.Context(), userID)
		if err != nil {
			failStore(w, r, err, "Verification request")
			return
		}
		respond(w, http.StatusOK, "Fetched verification request", vr)
	}
}
