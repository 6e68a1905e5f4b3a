// internal/repository/mongo/payment_repo.go
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

const paymentCollectionName = "payments"

// mongoPaymentRepository implements repository.PaymentRepository
type mongoPaymentRepository struct {
	collection *mongo.Collection
}

// NewMongoPaymentRepository creates a new Payment repository.
func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{
		collection: db.Collection(paymentCollectionName),
	}
}

// Create inserts a new payment record (status Pending unless set).
func (r *mongoPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error) {
	if payment.MemberID == primitive.NilObjectID || payment.Amount <= 0 {
		return primitive.NilObjectID, errors.New("payment requires memberId and a positive amount")
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentPending
	}
	payment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted payment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a payment by its ID.
func (r *mongoPaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error) {
	var payment domain.Payment
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// GetByMemberID retrieves all payments of one member, newest first.
func (r *mongoPaymentRepository) GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.Payment, error) {
	return r.find(ctx, bson.M{"memberId": memberID})
}

// List retrieves all payments (admin review screen), newest first.
func (r *mongoPaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoPaymentRepository) find(ctx context.Context, filter bson.M) ([]domain.Payment, error) {
	var payments []domain.Payment
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdateStatus transitions a payment to a new status.
func (r *mongoPaymentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.PaymentStatus) error {
	filter := bson.M{"_id": id}
	updateDoc := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
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

// EnsurePaymentIndexes creates necessary indexes. Call during startup.
func EnsurePaymentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
