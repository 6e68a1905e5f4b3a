package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressEntry is a single body-metrics log (weight, body fat) for a member.
type ProgressEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID   primitive.ObjectID `bson:"memberId" json:"memberId"`
	Date       time.Time          `bson:"date" json:"date"`
	WeightKg   float64            `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	BodyFatPct float64            `bson:"bodyFatPct,omitempty" json:"bodyFatPct,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgressPhoto stores metadata about a progress photo uploaded by a member.
// The actual image resides in S3; S3ObjectKey is never exposed via JSON.
type ProgressPhoto struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID    primitive.ObjectID `bson:"memberId" json:"memberId"`
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	Caption     string             `bson:"caption,omitempty" json:"caption,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
