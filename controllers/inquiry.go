package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dcode-github/property_marketplace/events"
	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/schemas"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/gorilla/mux"
	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	referencePrefix = "INQ-"
	// no 0, O, 1 or I
	referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	referenceLength   = 8
)

func newReference() (string, error) {
	id, err := nanoid.Generate(referenceAlphabet, referenceLength)
	if err != nil {
		return "", fmt.Errorf("inquiry reference: %w", err)
	}
	return referencePrefix + id, nil
}

type inquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateInquiry records a contact form message for an active listing and
// notifies its owner through the event bus.
func CreateInquiry(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		p, err := d.Properties.Get(r.Context(), propertyID)
		if err == nil && p.Status != models.StatusActive {
			err = store.ErrNotFound
		}
		if err != nil {
			failStore(w, r, err, "Property")
			return
		}

		var req inquiryRequest
		if !decodeBody(w, r, schemas.Inquiry, &req) {
			return
		}

		ref, err := newReference()
		if err != nil {
			middleware.LoggerFrom(r.Context()).Error("generating reference", "error", err)
			fail(w, http.StatusInternalServerError, "Failed to send message", nil)
			return
		}
		senderID, _ := middleware.UserIDFrom(r.Context())
		in := models.Inquiry{
			Reference:  ref,
			PropertyID: p.ID,
			OwnerID:    p.OwnerID,
			SenderID:   senderID,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Message:    req.Message,
			CreatedAt:  time.Now().UTC(),
		}
		if err := d.Inquiries.Create(r.Context(), &in); err != nil {
			failStore(w, r, err, "Failed to send message")
			return
		}

		d.publish(r, events.New(events.InquiryCreated, map[string]string{
			"inquiryId":  in.ID,
			"reference":  in.Reference,
			"propertyId": in.PropertyID,
			"ownerId":    in.OwnerID,
		}))
		middleware.LoggerFrom(r.Context()).Info("inquiry received", "reference", ref, "property_id", p.ID)
		respond(w, http.StatusCreated, "Message sent", map[string]string{"id": in.ID, "reference": ref})
	}
}

// ListInquiries returns messages about the caller's listings, newest first.
func ListInquiries(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		list, err := d.Inquiries.ListForOwner(r.Context(), userID)
		if err != nil {
			failStore(w, r, err, "Failed to fetch messages")
			return
		}
		respond(w, http.StatusOK, fmt.Sprintf("Found %d messages", len(list)), list)
	}
}
