package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"gymdash/internal/domain"
	"gymdash/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type GenerateResponse struct {
	Created int    `json:"created"` // number of workout plans written
	Message string `json:"message"`
}

type WorkoutPlanResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type DietPlanResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type CoachQuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

type CoachAnswerResponse struct {
	Answer string `json:"answer"`
}

// --- Handler Methods ---

// GeneratePlan runs the AI generation pipeline for the acting member, or for
// the member named by ?memberId= when the actor is an admin.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	actorID, actorRole, ok := actorFromContext(c)
	if !ok {
		return
	}

	var targetProfileID *primitive.ObjectID
	if memberIDStr := c.Query("memberId"); memberIDStr != "" {
		id, err := primitive.ObjectIDFromHex(memberIDStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid memberId format")
			return
		}
		targetProfileID = &id
	}

	created, err := h.planService.GenerateAndSave(c.Request.Context(), actorID, actorRole, targetProfileID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPaymentNotApproved):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrGenerateNotAllowed):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPlanPersistence):
			abortWithError(c, http.StatusInternalServerError, "Failed to save the generated plan")
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during plan generation")
		}
		return
	}

	c.JSON(http.StatusCreated, GenerateResponse{
		Created: created,
		Message: fmt.Sprintf("Generated %d workout plan(s) and a diet plan", created),
	})
}

// GetMyWorkouts lists the acting member's workout plans.
func (h *PlanHandler) GetMyWorkouts(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	workouts, err := h.planService.GetMyWorkouts(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout plans")
		}
		return
	}

	resp := make([]WorkoutPlanResponse, len(workouts))
	for i, w := range workouts {
		resp[i] = WorkoutPlanResponse{
			ID:        w.ID.Hex(),
			Title:     w.Title,
			Content:   w.Content,
			CreatedAt: w.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyDiets lists the acting member's diet plans.
func (h *PlanHandler) GetMyDiets(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	diets, err := h.planService.GetMyDiets(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve diet plans")
		}
		return
	}

	resp := make([]DietPlanResponse, len(diets))
	for i, d := range diets {
		resp[i] = DietPlanResponse{
			ID:        d.ID.Hex(),
			Title:     d.Title,
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteWorkout removes one workout plan owned by the acting member (admins
// may delete any).
func (h *PlanHandler) DeleteWorkout(c *gin.Context) {
	actorID, actorRole, ok := actorFromContext(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	if err := h.planService.DeleteWorkout(c.Request.Context(), actorID, actorRole, planID); err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPlanDeleteForbidden):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrProfileNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout plan")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AskCoach answers a free-form fitness question with rule-based advice.
func (h *PlanHandler) AskCoach(c *gin.Context) {
	var req CoachQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	answer, err := h.planService.AnswerCoachQuestion(req.Question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to answer question")
		}
		return
	}

	c.JSON(http.StatusOK, CoachAnswerResponse{Answer: answer})
}

// actorFromContext pulls the authenticated user's ID and role out of the Gin
// context. It aborts the request itself on failure.
func actorFromContext(c *gin.Context) (primitive.ObjectID, domain.Role, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return primitive.NilObjectID, "", false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID format in token")
		return primitive.NilObjectID, "", false
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user role from token")
		return primitive.NilObjectID, "", false
	}
	return userID, role, true
}
