package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dcode-github/property_marketplace/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	propertiesCollection    = "properties"
	favoritesCollection     = "favorites"
	profilesCollection      = "profiles"
	inquiriesCollection     = "messages"
	verificationsCollection = "verification_requests"
)

// Mongo binds every store to its collection in one database.
type Mongo struct {
	Properties    *MongoProperties
	Favorites     *MongoFavorites
	Profiles      *MongoProfiles
	Inquiries     *MongoInquiries
	Verifications *MongoVerifications
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		Properties:    &MongoProperties{coll: db.Collection(propertiesCollection)},
		Favorites:     &MongoFavorites{coll: db.Collection(favoritesCollection)},
		Profiles:      &MongoProfiles{coll: db.Collection(profilesCollection)},
		Inquiries:     &MongoInquiries{coll: db.Collection(inquiriesCollection)},
		Verifications: &MongoVerifications{coll: db.Collection(verificationsCollection)},
	}
}

// EnsureIndexes creates the indexes the queries below rely on. It is safe to
// call on every start.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll    *mongo.Collection
		indexes []mongo.IndexModel
	}{
		{m.Properties.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{m.Favorites.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userID", Value: 1}, {Key: "propertyID", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{m.Inquiries.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{m.Verifications.coll, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			onePendingPerUser,
		}},
	}
	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateMany(ctx, s.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", s.coll.Name(), err)
		}
	}
	return nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// onePendingPerUser lets the server reject a second pending request that
// slips past the count in MongoVerifications.Create.
var onePendingPerUser = mongo.IndexModel{
	Keys: bson.D{{Key: "userId", Value: 1}},
	Options: options.Index().
		SetName("one_pending_per_user").
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"status": models.VerificationPending}),
}

// insertError maps a duplicate key violation to ErrDuplicate.
func insertError(err error, what string) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return fmt.Errorf("insert %s: %w", what, err)
}

type MongoProperties struct{ coll *mongo.Collection }

func (s *MongoProperties) List(ctx context.Context, q ListQuery) ([]models.Property, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.OwnerID != "" {
		filter["ownerId"] = q.OwnerID
	}

	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := make([]models.Property, 0)
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return properties, nil
}

func (s *MongoProperties) Get(ctx context.Context, id string) (models.Property, error) {
	var p models.Property
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Property{}, ErrNotFound
	}
	if err != nil {
		return models.Property{}, fmt.Errorf("find property %s: %w", id, err)
	}
	return p, nil
}

func (s *MongoProperties) Create(ctx context.Context, p *models.Property) error {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return insertError(err, "property")
	}
	return nil
}

func (s *MongoProperties) SetStatus(ctx context.Context, id string, status models.Status) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update property %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoProperties) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	// saved entries pointing at the listing go with it
	favs := s.coll.Database().Collection(favoritesCollection)
	if _, err := favs.DeleteMany(ctx, bson.M{"propertyID": id}); err != nil {
		return fmt.Errorf("delete favorites of property %s: %w", id, err)
	}
	return nil
}

type MongoFavorites struct{ coll *mongo.Collection }

func (s *MongoFavorites) Add(ctx context.Context, userID, propertyID string) (models.Favorite, error) {
	props := s.coll.Database().Collection(propertiesCollection)
	n, err := props.CountDocuments(ctx, bson.M{"_id": propertyID}, options.Count().SetLimit(1))
	if err != nil {
		return models.Favorite{}, fmt.Errorf("check property %s: %w", propertyID, err)
	}
	if n == 0 {
		return models.Favorite{}, ErrNotFound
	}

	fav := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.coll.InsertOne(ctx, fav); err != nil {
		return models.Favorite{}, insertError(err, "favorite")
	}
	return fav, nil
}

func (s *MongoFavorites) Remove(ctx context.Context, userID, propertyID string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"userID": userID, "propertyID": propertyID})
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoFavorites) Properties(ctx context.Context, userID string) ([]models.Property, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userID": userID}}},
		{{Key: "$sort", Value: newestFirst}},
		{{Key: "$lookup", Value: bson.M{
			"from":         propertiesCollection,
			"localField":   "propertyID",
			"foreignField": "_id",
			"as":           "propertyDetails",
		}}},
		{{Key: "$unwind", Value: "$propertyDetails"}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$propertyDetails"}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate favorites: %w", err)
	}
	defer cursor.Close(ctx)

	properties := make([]models.Property, 0)
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decode favorite properties: %w", err)
	}
	return properties, nil
}

func (s *MongoFavorites) Saved(ctx context.Context, userID string, ids []string) (map[string]bool, error) {
	saved := make(map[string]bool)
	if len(ids) == 0 {
		return saved, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"userID": userID, "propertyID": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var fav models.Favorite
		if err := cursor.Decode(&fav); err != nil {
			return nil, fmt.Errorf("decode favorite: %w", err)
		}
		saved[fav.PropertyID] = true
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return saved, nil
}

type MongoProfiles struct{ coll *mongo.Collection }

func (s *MongoProfiles) Get(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("find profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *MongoProfiles) Save(ctx context.Context, p *models.Profile) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.UserID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, err)
	}
	return nil
}

func (s *MongoProfiles) MarkVerifiedAgent(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$set":         bson.M{"isVerified": true, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now, "userType": models.UserAgent},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("verify profile %s: %w", userID, err)
	}
	// admins keep their role
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "userType": bson.M{"$ne": models.UserAdmin}},
		bson.M{"$set": bson.M{"userType": models.UserAgent}},
	)
	if err != nil {
		return fmt.Errorf("promote profile %s: %w", userID, err)
	}
	return nil
}

type MongoInquiries struct{ coll *mongo.Collection }

func (s *MongoInquiries) Create(ctx context.Context, in *models.Inquiry) error {
	if in.ID == "" {
		in.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.coll.InsertOne(ctx, in); err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

func (s *MongoInquiries) ListForOwner(ctx context.Context, ownerID string) ([]models.Inquiry, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"ownerId": ownerID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	inquiries := make([]models.Inquiry, 0)
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, fmt.Errorf("decode inquiries: %w", err)
	}
	return inquiries, nil
}

type MongoVerifications struct{ coll *mongo.Collection }

func (s *MongoVerifications) Create(ctx context.Context, req *models.VerificationRequest) error {
	n, err := s.coll.CountDocuments(ctx,
		bson.M{"userId": req.UserID, "status": models.VerificationPending},
		options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check pending verification: %w", err)
	}
	if n > 0 {
		return ErrDuplicate
	}

	if req.ID == "" {
		req.ID = primitive.NewObjectID().Hex()
	}
	if _, err := s.coll.InsertOne(ctx, req); err != nil {
		return insertError(err, "verification request")
	}
	return nil
}

func (s *MongoVerifications) Get(ctx context.Context, id string) (models.VerificationRequest, error) {
	var v models.VerificationRequest
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.VerificationRequest{}, ErrNotFound
	}
	if err != nil {
		return models.VerificationRequest{}, fmt.Errorf("find verification %s: %w", id, err)
	}
	return v, nil
}

func (s *MongoVerifications) Latest(ctx context.Context, userID string) (models.VerificationRequest, error) {
	var v models.VerificationRequest
	err := s.coll.FindOne(ctx, bson.M{"userId": userID}, options.FindOne().SetSort(newestFirst)).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.VerificationRequest{}, ErrNotFound
	}
	if err != nil {
		return models.VerificationRequest{}, fmt.Errorf("find verification for %s: %w", userID, err)
	}
	return v, nil
}

func (s *MongoVerifications) List(ctx context.Context, status models.VerificationStatus) ([]models.VerificationRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find verification requests: %w", err)
	}
	defer cursor.Close(ctx)

	reqs := make([]models.VerificationRequest, 0)
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("decode verification requests: %w", err)
	}
	return reqs, nil
}

func (s *MongoVerifications) Decide(ctx context.Context, id string, status models.VerificationStatus, reviewer string, at time.Time) (models.VerificationRequest, error) {
	var v models.VerificationRequest
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.VerificationPending},
		bson.M{"$set": bson.M{"status": status, "reviewedBy": reviewer, "decidedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.VerificationRequest{}, fmt.Errorf("decide verification %s: %w", id, err)
	}

	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return models.VerificationRequest{}, fmt.Errorf("check verification %s: %w", id, err)
	}
	if n == 0 {
		return models.VerificationRequest{}, ErrNotFound
	}
	return models.VerificationRequest{}, ErrConflict
}
