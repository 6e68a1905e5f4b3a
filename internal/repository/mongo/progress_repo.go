// internal/repository/mongo/progress_repo.go
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

const progressCollectionName = "progress_entries"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new ProgressEntry repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts a new progress entry.
func (r *mongoProgressRepository) Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error) {
	if entry.MemberID == primitive.NilObjectID || entry.Date.IsZero() {
		return primitive.NilObjectID, errors.New("progress entry requires memberId and date")
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted progress entry ID")
	}
	return insertedID, nil
}

// GetByMemberID retrieves all progress entries of a member ordered by date
// ascending (oldest first, the order the analytics expect).
func (r *mongoProgressRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	var entries []domain.ProgressEntry
	filter := bson.M{"memberId": memberID}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// EnsureProgressIndexes creates necessary indexes. Call during startup.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
