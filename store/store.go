// Package store is the data source layer: MongoDB collections, an in-memory
// backend for the demo fixture and tests, and a Redis cache in front of
// catalogue reads.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dcode-github/property_marketplace/models"
	"github.com/mmcloughlin/geohash"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
	ErrConflict  = errors.New("conflicting state")
)

// ListQuery selects listings. Empty fields do not constrain.
type ListQuery struct {
	Status  models.Status
	OwnerID string
}

// PropertyStore supplies the materialised catalogue, newest first.
type PropertyStore interface {
	List(ctx context.Context, q ListQuery) ([]models.Property, error)
	Get(ctx context.Context, id string) (models.Property, error)
	Create(ctx context.Context, p *models.Property) error
	SetStatus(ctx context.Context, id string, status models.Status) error
	Delete(ctx context.Context, id string) error
}

type FavoriteStore interface {
	Add(ctx context.Context, userID, propertyID string) (models.Favorite, error)
	Remove(ctx context.Context, userID, propertyID string) error
	// Properties returns the user's saved listings, most recently saved first.
	Properties(ctx context.Context, userID string) ([]models.Property, error)
	// Saved reports which of ids the user has saved.
	Saved(ctx context.Context, userID string, ids []string) (map[string]bool, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (models.Profile, error)
	Save(ctx context.Context, p *models.Profile) error
	MarkVerifiedAgent(ctx context.Context, userID string) error
}

type InquiryStore interface {
	Create(ctx context.Context, in *models.Inquiry) error
	ListForOwner(ctx context.Context, ownerID string) ([]models.Inquiry, error)
}

type VerificationStore interface {
	// Create fails with ErrDuplicate while the user has a pending request.
	Create(ctx context.Context, req *models.VerificationRequest) error
	Get(ctx context.Context, id string) (models.VerificationRequest, error)
	Latest(ctx context.Context, userID string) (models.VerificationRequest, error)
	List(ctx context.Context, status models.VerificationStatus) ([]models.VerificationRequest, error)
	// Decide moves a pending request to approved or rejected. Requests that
	// are no longer pending yield ErrConflict.
	Decide(ctx context.Context, id string, status models.VerificationStatus, reviewer string, at time.Time) (models.VerificationRequest, error)
}

const pinPrecision = 7

// PinCell is the geohash cell (~150m) used to place a listing on the map.
func PinCell(c *models.Coordinates) string {
	if c == nil {
		return ""
	}
	return geohash.EncodeWithPrecision(c.Lat, c.Lng, pinPrecision)
}

func sortNewestFirst(props []models.Property) {
	sort.SliceStable(props, func(i, j int) bool {
		return props[i].CreatedAt.After(props[j].CreatedAt)
	})
}
