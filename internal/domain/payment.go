package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus type for the payment approval lifecycle
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentApproved PaymentStatus = "Approved"
	PaymentRejected PaymentStatus = "Rejected"
)

// Payment records a membership payment submitted by a member. Admin approval
// of a payment flips the member profile's IsPaymentApproved flag, which gates
// AI plan generation.
type Payment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"memberId" json:"memberId"`
	Amount    float64            `bson:"amount" json:"amount"`
	Status    PaymentStatus      `bson:"status" json:"status"`
	TxID      string             `bson:"txId,omitempty" json:"txId,omitempty"` // Reference from the (external) gateway
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
