package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dcode-github/property_marketplace/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps every collection in process. It backs DATA_SOURCE=fixture
// and the handler tests.
type Memory struct {
	Properties    *MemoryProperties
	Favorites     *MemoryFavorites
	Profiles      *MemoryProfiles
	Inquiries     *MemoryInquiries
	Verifications *MemoryVerifications
}

type memDB struct {
	mu            sync.RWMutex
	properties    map[string]models.Property
	favorites     []models.Favorite
	profiles      map[string]models.Profile
	inquiries     []models.Inquiry
	verifications []models.VerificationRequest
}

func NewMemory(seed []models.Property) *Memory {
	db := &memDB{
		properties: make(map[string]models.Property, len(seed)),
		profiles:   make(map[string]models.Profile),
	}
	for _, p := range seed {
		db.properties[p.ID] = p
	}
	return &Memory{
		Properties:    &MemoryProperties{db: db},
		Favorites:     &MemoryFavorites{db: db},
		Profiles:      &MemoryProfiles{db: db},
		Inquiries:     &MemoryInquiries{db: db},
		Verifications: &MemoryVerifications{db: db},
	}
}

type MemoryProperties struct{ db *memDB }

func (s *MemoryProperties) List(_ context.Context, q ListQuery) ([]models.Property, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]models.Property, 0, len(s.db.properties))
	for _, p := range s.db.properties {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.OwnerID != "" && p.OwnerID != q.OwnerID {
			continue
		}
		out = append(out, p)
	}
	// map iteration is random; order by id first so equal timestamps stay stable
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryProperties) Get(_ context.Context, id string) (models.Property, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.properties[id]
	if !ok {
		return models.Property{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryProperties) Create(_ context.Context, p *models.Property) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, exists := s.db.properties[p.ID]; exists {
		return ErrDuplicate
	}
	s.db.properties[p.ID] = *p
	return nil
}

func (s *MemoryProperties) SetStatus(_ context.Context, id string, status models.Status) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.properties[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	s.db.properties[id] = p
	return nil
}

func (s *MemoryProperties) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.properties[id]; !ok {
		return ErrNotFound
	}
	delete(s.db.properties, id)

	kept := s.db.favorites[:0]
	for _, f := range s.db.favorites {
		if f.PropertyID != id {
			kept = append(kept, f)
		}
	}
	s.db.favorites = kept
	return nil
}

type MemoryFavorites struct{ db *memDB }

func (s *MemoryFavorites) Add(_ context.Context, userID, propertyID string) (models.Favorite, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.properties[propertyID]; !ok {
		return models.Favorite{}, ErrNotFound
	}
	for _, f := range s.db.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			return models.Favorite{}, ErrDuplicate
		}
	}
	fav := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	s.db.favorites = append(s.db.favorites, fav)
	return fav, nil
}

func (s *MemoryFavorites) Remove(_ context.Context, userID, propertyID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i, f := range s.db.favorites {
		if f.UserID == userID && f.PropertyID == propertyID {
			s.db.favorites = append(s.db.favorites[:i], s.db.favorites[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryFavorites) Properties(_ context.Context, userID string) ([]models.Property, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]models.Property, 0)
	for i := len(s.db.favorites) - 1; i >= 0; i-- {
		f := s.db.favorites[i]
		if f.UserID != userID {
			continue
		}
		if p, ok := s.db.properties[f.PropertyID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryFavorites) Saved(_ context.Context, userID string, ids []string) (map[string]bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	saved := make(map[string]bool)
	for _, f := range s.db.favorites {
		if f.UserID == userID && want[f.PropertyID] {
			saved[f.PropertyID] = true
		}
	}
	return saved, nil
}

type MemoryProfiles struct{ db *memDB }

func (s *MemoryProfiles) Get(_ context.Context, userID string) (models.Profile, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.profiles[userID]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryProfiles) Save(_ context.Context, p *models.Profile) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.profiles[p.UserID] = *p
	return nil
}

func (s *MemoryProfiles) MarkVerifiedAgent(_ context.Context, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.profiles[userID]
	if !ok {
		p = models.Profile{UserID: userID, CreatedAt: time.Now().UTC()}
	}
	p.IsVerified = true
	if p.UserType != models.UserAdmin {
		p.UserType = models.UserAgent
	}
	p.UpdatedAt = time.Now().UTC()
	s.db.profiles[userID] = p
	return nil
}

type MemoryInquiries struct{ db *memDB }

func (s *MemoryInquiries) Create(_ context.Context, in *models.Inquiry) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if in.ID == "" {
		in.ID = primitive.NewObjectID().Hex()
	}
	s.db.inquiries = append(s.db.inquiries, *in)
	return nil
}

func (s *MemoryInquiries) ListForOwner(_ context.Context, ownerID string) ([]models.Inquiry, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]models.Inquiry, 0)
	for i := len(s.db.inquiries) - 1; i >= 0; i-- {
		if s.db.inquiries[i].OwnerID == ownerID {
			out = append(out, s.db.inquiries[i])
		}
	}
	return out, nil
}

type MemoryVerifications struct{ db *memDB }

func (s *MemoryVerifications) Create(_ context.Context, req *models.VerificationRequest) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, v := range s.db.verifications {
		if v.UserID == req.UserID && v.Status == models.VerificationPending {
			return ErrDuplicate
		}
	}
	if req.ID == "" {
		req.ID = primitive.NewObjectID().Hex()
	}
	s.db.verifications = append(s.db.verifications, *req)
	return nil
}

func (s *MemoryVerifications) Get(_ context.Context, id string) (models.VerificationRequest, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, v := range s.db.verifications {
		if v.ID == id {
			return v, nil
		}
	}
	return models.VerificationRequest{}, ErrNotFound
}

func (s *MemoryVerifications) Latest(_ context.Context, userID string) (models.VerificationRequest, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for i := len(s.db.verifications) - 1; i >= 0; i-- {
		if s.db.verifications[i].UserID == userID {
			return s.db.verifications[i], nil
		}
	}
	return models.VerificationRequest{}, ErrNotFound
}

func (s *MemoryVerifications) List(_ context.Context, status models.VerificationStatus) ([]models.VerificationRequest, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]models.VerificationRequest, 0)
	for _, v := range s.db.verifications {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryVerifications) Decide(_ context.Context, id string, status models.VerificationStatus, reviewer string, at time.Time) (models.VerificationRequest, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for i := range s.db.verifications {
		v := &s.db.verifications[i]
		if v.ID != id {
			continue
		}
		if v.Status != models.VerificationPending {
			return models.VerificationRequest{}, ErrConflict
		}
		v.Status = status
		v.ReviewedBy = reviewer
		v.DecidedAt = &at
		return *v, nil
	}
	return models.VerificationRequest{}, ErrNotFound
}
