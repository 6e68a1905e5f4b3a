package repository

import (
	"context"
	"gymdash/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// MemberProfileRepository defines the interface for interacting with member profiles.
type MemberProfileRepository interface {
	Create(ctx context.Context, profile *domain.MemberProfile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MemberProfile, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.MemberProfile, error)
	Update(ctx context.Context, profile *domain.MemberProfile) error
	SetPaymentApproved(ctx context.Context, id primitive.ObjectID, approved bool) error
	List(ctx context.Context) ([]domain.MemberProfile, error)
}

// PlanRepository defines the interface for interacting with workout and diet
// plan records. CreateGeneration persists one generation event's records
// (one or more WorkoutPlans plus exactly one DietPlan) as a group, so a
// mid-write crash cannot leave a member with workouts but no diet summary.
type PlanRepository interface {
	CreateGeneration(ctx context.Context, workouts []domain.WorkoutPlan, diet *domain.DietPlan) ([]primitive.ObjectID, error)
	GetWorkoutByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetWorkoutsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetDietsByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.DietPlan, error)
	DeleteWorkout(ctx context.Context, id primitive.ObjectID) error
}

// PaymentRepository defines the interface for interacting with payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Payment, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.PaymentStatus) error
}

// ProgressRepository defines the interface for interacting with progress entries.
type ProgressRepository interface {
	Create(ctx context.Context, entry *domain.ProgressEntry) (primitive.ObjectID, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.ProgressEntry, error) // Ordered by date ascending
}

// ProgressPhotoRepository defines the interface for interacting with progress photo metadata.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressPhoto, error)
	GetByMemberID(ctx context.Context, memberID primitive.ObjectID) ([]domain.ProgressPhoto, error)
	Delete(ctx context.Context, id primitive.ObjectID, memberID primitive.ObjectID) error // Ensure member owns the photo
}
