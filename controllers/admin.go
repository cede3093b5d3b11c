package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dcode-github/property_marketplace/events"
	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/gorilla/mux"
)

// AdminListProperties lists listings in any moderation state; ?status=
// narrows to one.
func AdminListProperties(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.Status(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
		if status != "" && !status.Valid() {
			fail(w, http.StatusBadRequest, "Invalid status",
				map[string]string{"status": "must be one of pending, active, rejected"})
			return
		}
		props, err := d.Properties.List(r.Context(), store.ListQuery{Status: status})
		if err != nil {
			failStore(w, r, err, "Error fetching properties")
			return
		}
		respond(w, http.StatusOK, fmt.Sprintf("Found %d properties", len(props)), d.views(r, props))
	}
}

// ReviewProperty moves a listing to the given moderation state.
func ReviewProperty(d *Deps, status models.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := callerID(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		if err := d.Properties.SetStatus(r.Context(), id, status); err != nil {
			failStore(w, r, err, "Property")
			return
		}

		d.publish(r, events.New(events.PropertyReviewed, map[string]string{
			"propertyId": id,
			"status":     string(status),
			"reviewedBy": adminID,
		}))
		middleware.LoggerFrom(r.Context()).Info("property reviewed", "property_id", id, "status", status, "admin_id", adminID)
		respond(w, http.StatusOK, "Property "+string(status), map[string]string{"id": id, "status": string(status)})
	}
}

func AdminDeleteProperty(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := d.Properties.Delete(r.Context(), id); err != nil {
			failStore(w, r, err, "Property")
			return
		}
		middleware.LoggerFrom(r.Context()).Info("property deleted", "property_id", id)
		respond(w, http.StatusOK, "Property deleted", nil)
	}
}

// AdminListVerifications lists requests by status, pending unless ?status=
// says otherwise. ?status=all lists every request.
func AdminListVerifications(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
		status := models.VerificationPending
		switch {
		case raw == "all":
			status = ""
		case raw != "":
			status = models.VerificationStatus(raw)
			if !status.Valid() {
				fail(w, http.StatusBadRequest, "Invalid status",
					map[string]string{"status": "must be one of pending, approved, rejected, all"})
				return
			}
		}
		list, err := d.Verifications.List(r.Context(), status)
		if err != nil {
			failStore(w, r, err, "Failed to fetch verification requests")
			return
		}
		respond(w, http.StatusOK, fmt.Sprintf("Found %d verification requests", len(list)), list)
	}
}

// DecideVerification approves or rejects a pending request. Approval makes
// the applicant a verified agent before the request leaves pending, so a
// failed profile write can be retried.
func DecideVerification(d *Deps, status models.VerificationStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := callerID(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]

		if status == models.VerificationApproved {
			pending, err := d.Verifications.Get(r.Context(), id)
			if err != nil {
				failStore(w, r, err, "Verification request")
				return
			}
			if pending.Status != models.VerificationPending {
				fail(w, http.StatusConflict, "Verification request has already been decided", nil)
				return
			}
			if err := d.Profiles.MarkVerifiedAgent(r.Context(), pending.UserID); err != nil {
				failStore(w, r, err, "Failed to mark agent verified")
				return
			}
		}

		vr, err := d.Verifications.Decide(r.Context(), id, status, adminID, time.Now().UTC())
		if errors.Is(err, store.ErrConflict) {
			fail(w, http.StatusConflict, "Verification request has already been decided", nil)
			return
		}
		if err != nil {
			failStore(w, r, err, "Verification request")
			return
		}

		d.publish(r, events.New(events.VerificationDecided, map[string]string{
			"requestId": vr.ID,
			"userId":    vr.UserID,
			"status":    string(vr.Status),
		}))
		middleware.LoggerFrom(r.Context()).Info("verification decided",
			"request_id", vr.ID, "user_id", vr.UserID, "status", vr.Status, "admin_id", adminID)
		respond(w, http.StatusOK, "Verification request "+string(status), vr)
	}
}
