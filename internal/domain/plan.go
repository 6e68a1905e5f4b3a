// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is one day of an AI-generated (or fallback) workout, or a
// single aggregate record when the source text could not be segmented into
// days. Immutable once created; only deletion by the owner or an admin.
type WorkoutPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"` // Owning MemberProfile
	Title     string             `bson:"title" json:"title"`       // e.g., "Day 3 - AI Workout"
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// DietPlan is the single diet summary produced by one generation event,
// aggregating diet text across all days of the run.
type DietPlan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
