package api

import (
	"errors"
	"fmt"
	"net/http"

	"gymdash/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentHandler holds the payment service dependency.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// --- Request/Response Structs ---

type SubmitPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	TxID   string  `json:"txId"`
}

type DecidePaymentRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
}

// --- Handler Methods ---

// SubmitPayment records a pending payment for the acting member.
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	payment, err := h.paymentService.SubmitPayment(c.Request.Context(), actorID, req.Amount, req.TxID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentAmount):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to submit payment")
		}
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// GetMyPayments lists the acting member's payments, newest first.
func (h *PaymentHandler) GetMyPayments(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.GetMyPayments(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		}
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListPayments returns all payments for the admin review screen.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// DecidePayment approves or rejects one payment. Approval unlocks AI plan
// generation for the paying member.
func (h *PaymentHandler) DecidePayment(c *gin.Context) {
	paymentID, err := primitive.ObjectIDFromHex(c.Param("paymentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid payment ID format")
		return
	}

	var req DecidePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	payment, err := h.paymentService.DecidePayment(c.Request.Context(), paymentID, req.Decision == "approve")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update payment")
		}
		return
	}
	c.JSON(http.StatusOK, payment)
}
