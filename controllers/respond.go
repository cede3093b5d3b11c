// Package controllers implements the marketplace HTTP handlers.
package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dcode-github/property_marketplace/events"
	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/schemas"
	"github.com/dcode-github/property_marketplace/store"
)

const maxBodyBytes = 1 << 20

// Deps are the collaborators every handler draws from.
type Deps struct {
	Properties    store.PropertyStore
	Favorites     store.FavoriteStore
	Profiles      store.ProfileStore
	Inquiries     store.InquiryStore
	Verifications store.VerificationStore
	Events        events.Publisher
}

func writeJSON(w http.ResponseWriter, status int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func respond(w http.ResponseWriter, status int, msg string, data interface{}) {
	writeJSON(w, status, models.APIResponse{Success: true, Message: msg, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	resp := models.APIResponse{Success: false, Message: msg}
	if len(fields) > 0 {
		resp.Errors = fields
	}
	writeJSON(w, status, resp)
}

// failStore maps store errors onto statuses. Unexpected errors are logged
// and hidden behind a 500.
func failStore(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		fail(w, http.StatusNotFound, msg+": not found", nil)
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, store.ErrConflict):
		fail(w, http.StatusConflict, msg+": "+err.Error(), nil)
	default:
		middleware.LoggerFrom(r.Context()).Error(msg, "error", err)
		fail(w, http.StatusInternalServerError, msg, nil)
	}
}

// decodeBody validates the request body against schema and decodes it into
// dst. On failure the response has already been written.
func decodeBody(w http.ResponseWriter, r *http.Request, schema string, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if len(body) > maxBodyBytes {
		fail(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		return false
	}

	if err := schemas.Validate(schema, body); err != nil {
		var fields schemas.FieldErrors
		if errors.As(err, &fields) {
			fail(w, http.StatusBadRequest, "Invalid request data", fields)
			return false
		}
		middleware.LoggerFrom(r.Context()).Error("schema validation", "schema", schema, "error", err)
		fail(w, http.StatusInternalServerError, "Failed to validate request", nil)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request data", nil)
		return false
	}
	return true
}

// publish sends an event in the request's trace. Broker failures are logged
// and never fail the request.
func (d *Deps) publish(r *http.Request, e events.Event) {
	if d.Events == nil {
		return
	}
	e.TraceID = middleware.TraceIDFrom(r.Context())
	if err := d.Events.Publish(r.Context(), e); err != nil {
		middleware.LoggerFrom(r.Context()).Warn("event not published", "type", e.Type, "error", err)
	}
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		fail(w, http.StatusUnauthorized, "User ID missing in context", nil)
	}
	return id, ok
}
