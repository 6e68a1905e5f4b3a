// internal/domain/member_profile.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberProfile holds the physiological attributes of a member used to build
// AI plan prompts, plus the payment-approval flag that gates plan generation.
// Every registered user owns exactly one profile; it is created together with
// the account and never deleted.
type MemberProfile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"` // Owning account, unique

	Phone           string  `bson:"phone,omitempty" json:"phone,omitempty"`
	Age             int     `bson:"age,omitempty" json:"age,omitempty"`
	HeightCm        int     `bson:"heightCm,omitempty" json:"heightCm,omitempty"`
	WeightKg        float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	Gender          string  `bson:"gender,omitempty" json:"gender,omitempty"`
	Goal            string  `bson:"goal,omitempty" json:"goal,omitempty"`                       // e.g., "Fat Loss", "Muscle Gain"
	ExperienceLevel string  `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"` // Beginner/Intermediate/Advanced

	IsPaymentApproved bool `bson:"isPaymentApproved" json:"isPaymentApproved"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
