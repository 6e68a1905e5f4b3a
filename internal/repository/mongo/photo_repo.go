// internal/repository/mongo/photo_repo.go
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

const photoCollectionName = "progress_photos"

// mongoProgressPhotoRepository implements repository.ProgressPhotoRepository
type mongoProgressPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressPhotoRepository creates a new ProgressPhoto repository.
func NewMongoProgressPhotoRepository(db *mongo.Database) repository.ProgressPhotoRepository {
	return &mongoProgressPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts metadata for an uploaded photo.
func (r *mongoProgressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	if photo.MemberID == primitive.NilObjectID || photo.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("progress photo requires memberId and s3ObjectKey")
	}
	photo.ID = primitive.NewObjectID()
	photo.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted photo ID")
	}
	return insertedID, nil
}

// GetByID retrieves photo metadata by ID.
func (r *mongoProgressPhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error) {
	var photo domain.ProgressPhoto
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&photo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &photo, nil
}

// GetByMemberID retrieves all photos of a member, newest first.
func (r *mongoProgressPhotoRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	var photos []domain.ProgressPhoto
	filter := bson.M{"memberId": memberID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// Delete removes photo metadata. The filter ensures the photo exists AND
// belongs to the specified member.
func (r *mongoProgressPhotoRepository) Delete(ctx context.Context, id primitive.ObjectID, memberID primitive.ObjectID) error {
	if id == primitive.NilObjectID || memberID == primitive.NilObjectID {
		return errors.New("photo ID and member ID are required for deletion")
	}

	filter := bson.M{
		"_id":      id,
		"memberId": memberID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Photo not found OR not owned by this member.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressPhotoIndexes creates necessary indexes. Call during startup.
func EnsureProgressPhotoIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
