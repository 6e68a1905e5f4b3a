package service

import (
	"context"
	"errors"

	"gymdash/internal/domain"
	"gymdash/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")
	ErrInvalidDecision      = errors.New("decision must be approve or reject")
)

// --- Service Interface ---
type PaymentService interface {
	// SubmitPayment records a pending payment for the acting member.
	SubmitPayment(ctx context.Context, userID primitive.ObjectID, amount float64, txID string) (*domain.Payment, error)
	GetMyPayments(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error)

	// Admin review
	ListPayments(ctx context.Context) ([]domain.Payment, error)
	DecidePayment(ctx context.Context, paymentID primitive.ObjectID, approve bool) (*domain.Payment, error)
}

// --- Service Implementation ---

type paymentService struct {
	paymentRepo repository.PaymentRepository
	profileRepo repository.MemberProfileRepository
}

// NewPaymentService creates a new instance of paymentService.
func NewPaymentService(paymentRepo repository.PaymentRepository, profileRepo repository.MemberProfileRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		profileRepo: profileRepo,
	}
}

// SubmitPayment creates a Pending payment record. No real gateway is
// involved; the txID is whatever reference the member provides.
func (s *paymentService) SubmitPayment(ctx context.Context, userID primitive.ObjectID, amount float64, txID string) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidPaymentAmount
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	payment := &domain.Payment{
		MemberID: profile.ID,
		Amount:   amount,
		Status:   domain.PaymentPending,
		TxID:     txID,
	}
	if _, err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetMyPayments(ctx context.Context, userID primitive.ObjectID) ([]domain.Payment, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.paymentRepo.GetByMemberID(ctx, profile.ID)
}

// ListPayments returns all payments for the admin review screen, newest first.
func (s *paymentService) ListPayments(ctx context.Context) ([]domain.Payment, error) {
	return s.paymentRepo.List(ctx)
}

// DecidePayment approves or rejects a payment. Approval also marks the
// member profile as payment-approved, which unlocks plan generation.
func (s *paymentService) DecidePayment(ctx context.Context, paymentID primitive.ObjectID, approve bool) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	status := domain.PaymentRejected
	if approve {
		status = domain.PaymentApproved
	}
	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, status); err != nil {
		return nil, err
	}
	payment.Status = status

	if approve {
		if err := s.profileRepo.SetPaymentApproved(ctx, payment.MemberID, true); err != nil {
			return nil, err
		}
	}
	return payment, nil
}
