// internal/repository/mongo/plan_repo.go
package mongo

import (
	"context"
	"errors"
	"gymdash/internal/domain"
	"gymdash/internal/repository"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	workoutPlanCollectionName = "workout_plans"
	dietPlanCollectionName    = "diet_plans"
)

// mongoPlanRepository implements repository.PlanRepository over the two plan
// collections. Both live in the same database so one generation event's
// writes can share a session.
type mongoPlanRepository struct {
	workouts *mongo.Collection
	diets    *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		workouts: db.Collection(workoutPlanCollectionName),
		diets:    db.Collection(dietPlanCollectionName),
	}
}

// CreateGeneration persists one generation event: all workout records plus
// the single diet summary. The writes run inside a transaction so a crash
// mid-event cannot leave workouts without a diet summary. Standalone mongod
// deployments reject transactions; for those the writes degrade to a
// sequential insert (workouts first, diet last).
func (r *mongoPlanRepository) CreateGeneration(ctx context.Context, workoutPlans []domain.WorkoutPlan, diet *domain.DietPlan) ([]primitive.ObjectID, error) {
	if len(workoutPlans) == 0 || diet == nil {
		return nil, errors.New("a generation requires at least one workout plan and a diet plan")
	}
	now := time.Now().UTC()
	workoutDocs := make([]interface{}, len(workoutPlans))
	ids := make([]primitive.ObjectID, len(workoutPlans))
	for i := range workoutPlans {
		if workoutPlans[i].MemberID == primitive.NilObjectID || workoutPlans[i].Title == "" {
			return nil, errors.New("workout plan requires memberId and title")
		}
		workoutPlans[i].ID = primitive.NewObjectID()
		workoutPlans[i].CreatedAt = now
		ids[i] = workoutPlans[i].ID
		workoutDocs[i] = workoutPlans[i]
	}
	if diet.MemberID == primitive.NilObjectID || diet.Title == "" {
		return nil, errors.New("diet plan requires memberId and title")
	}
	diet.ID = primitive.NewObjectID()
	diet.CreatedAt = now

	insertAll := func(sc context.Context) error {
		if _, err := r.workouts.InsertMany(sc, workoutDocs); err != nil {
			return err
		}
		if _, err := r.diets.InsertOne(sc, diet); err != nil {
			return err
		}
		return nil
	}

	session, err := r.workouts.Database().Client().StartSession()
	if err != nil {
		// No session support at all; fall through to plain inserts.
		if err := insertAll(ctx); err != nil {
			return nil, err
		}
		return ids, nil
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, insertAll(sc)
	})
	if err != nil {
		if !transactionsUnsupported(err) {
			return nil, err
		}
		// Standalone deployment: sequential fallback, diet written last.
		if err := insertAll(ctx); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// transactionsUnsupported reports whether the error came from a deployment
// that cannot run multi-document transactions (standalone mongod).
func transactionsUnsupported(err error) bool {
	if err == nil {
		return false
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 { // IllegalOperation
		return true
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}

// GetWorkoutByID retrieves a single workout plan by its ID.
func (r *mongoPlanRepository) GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	filter := bson.M{"_id": id}
	err := r.workouts.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetWorkoutsByMemberID retrieves all workout plans of a member, newest first.
func (r *mongoPlanRepository) GetWorkoutsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	filter := bson.M{"memberId": memberID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.workouts.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetDietsByMemberID retrieves all diet plans of a member, newest first.
func (r *mongoPlanRepository) GetDietsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.DietPlan, error) {
	var plans []domain.DietPlan
	filter := bson.M{"memberId": memberID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.diets.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// DeleteWorkout removes a single workout plan. Ownership/role checks happen
// in the service layer, which already loaded the record.
func (r *mongoPlanRepository) DeleteWorkout(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.workouts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes on both plan collections.
// Call during startup.
func EnsurePlanIndexes(ctx context.Context, workouts, diets *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	for _, collection := range []*mongo.Collection{workouts, diets} {
		_, err := collection.Indexes().CreateMany(ctx, indexes)
		if err != nil {
			log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
		}
	}
}
