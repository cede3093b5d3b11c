// Package middleware holds the HTTP middleware chain: request logging,
// bearer token authentication and the admin gate.
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dcode-github/property_marketplace/models"
	"github.com/dcode-github/property_marketplace/store"
	"github.com/dcode-github/property_marketplace/utils"
)

var (
	errMissingHeader = errors.New("missing Authorization header")
	errHeaderFormat  = errors.New("invalid Authorization header format")
)

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errHeaderFormat
	}
	return parts[1], nil
}

// Auth rejects requests without a valid bearer token and puts the caller's
// user id in the request context.
func Auth(key []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				LoggerFrom(r.Context()).Warn("unauthenticated request", "error", err)
				deny(w, http.StatusUnauthorized, err.Error())
				return
			}
			claims, err := utils.ValidateJWT(key, token)
			if err != nil {
				LoggerFrom(r.Context()).Warn("rejected token", "error", err)
				deny(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// OptionalAuth lets anonymous requests through. A token that is present
// must still be valid.
func OptionalAuth(key []byte) func(http.Handler) http.Handler {
	required := Auth(key)
	return func(next http.Handler) http.Handler {
		authed := required(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin(profiles store.ProfileStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFrom(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "User ID missing in context")
				return
			}
			profile, err := profiles.Get(r.Context(), userID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				LoggerFrom(r.Context()).Error("loading profile for admin check", "user_id", userID, "error", err)
				deny(w, http.StatusInternalServerError, "Failed to load profile")
				return
			}
			if profile.UserType != models.UserAdmin {
				deny(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{Success: false, Message: msg})
}
