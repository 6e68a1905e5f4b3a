// internal/repository/mongo/member_profile_repo.go
package mongo

import (
	"context"
	"errors"
	"gymdash/internal/domain"
	"gymdash/internal/repository"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const memberProfileCollectionName = "member_profiles"

// mongoMemberProfileRepository implements repository.MemberProfileRepository
type mongoMemberProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberProfileRepository creates a new MemberProfile repository.
func NewMongoMemberProfileRepository(db *mongo.Database) repository.MemberProfileRepository {
	return &mongoMemberProfileRepository{
		collection: db.Collection(memberProfileCollectionName),
	}
}

// Create inserts a new member profile. A profile is created together with the
// owning user account, so an empty (all zero-value) profile is valid here.
func (r *mongoMemberProfileRepository) Create(ctx context.Context, profile *domain.MemberProfile) (primitive.ObjectID, error) {
	if profile.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("member profile requires userId")
	}
	profile.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted profile ID")
	}
	return insertedID, nil
}

// GetByID retrieves a member profile by its ID.
func (r *mongoMemberProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MemberProfile, error) {
	var profile domain.MemberProfile
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetByUserID retrieves the profile owned by the given user account.
func (r *mongoMemberProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.MemberProfile, error) {
	var profile domain.MemberProfile
	filter := bson.M{"userId": userID}
	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update replaces the editable attributes of a profile.
// UserID and IsPaymentApproved are not touched here; the approval flag is
// owned by the payment workflow and changed via SetPaymentApproved only.
func (r *mongoMemberProfileRepository) Update(ctx context.Context, profile *domain.MemberProfile) error {
	if profile.ID == primitive.NilObjectID {
		return errors.New("profile ID is required for update")
	}

	filter := bson.M{"_id": profile.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"phone":           profile.Phone,
			"age":             profile.Age,
			"heightCm":        profile.HeightCm,
			"weightKg":        profile.WeightKg,
			"gender":          profile.Gender,
			"goal":            profile.Goal,
			"experienceLevel": profile.ExperienceLevel,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetPaymentApproved flips the payment-approval flag on a profile.
func (r *mongoMemberProfileRepository) SetPaymentApproved(ctx context.Context, id primitive.ObjectID, approved bool) error {
	filter := bson.M{"_id": id}
	updateDoc := bson.M{
		"$set": bson.M{
			"isPaymentApproved": approved,
			"updatedAt":         time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns all member profiles (admin overview).
func (r *mongoMemberProfileRepository) List(ctx context.Context) ([]domain.MemberProfile, error) {
	var profiles []domain.MemberProfile
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// EnsureMemberProfileIndexes creates necessary indexes. Call during startup.
func EnsureMemberProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One profile per user account
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
