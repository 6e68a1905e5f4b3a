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

// MemberHandler holds the member service dependency.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// --- Request/Response Structs ---

type UpdateProfileRequest struct {
	Phone           string  `json:"phone"`
	Age             int     `json:"age" binding:"omitempty,min=10,max=100"`
	HeightCm        int     `json:"heightCm" binding:"omitempty,min=50,max=260"`
	WeightKg        float64 `json:"weightKg" binding:"omitempty,min=20,max=400"`
	Gender          string  `json:"gender"`
	Goal            string  `json:"goal"`
	ExperienceLevel string  `json:"experienceLevel"`
}

type ProfileResponse struct {
	ID                string  `json:"id"`
	Phone             string  `json:"phone,omitempty"`
	Age               int     `json:"age,omitempty"`
	HeightCm          int     `json:"heightCm,omitempty"`
	WeightKg          float64 `json:"weightKg,omitempty"`
	Gender            string  `json:"gender,omitempty"`
	Goal              string  `json:"goal,omitempty"`
	ExperienceLevel   string  `json:"experienceLevel,omitempty"`
	IsPaymentApproved bool    `json:"isPaymentApproved"`
}

type AddProgressRequest struct {
	Date       time.Time `json:"date" binding:"required"`
	WeightKg   float64   `json:"weightKg" binding:"required,min=20,max=400"`
	BodyFatPct float64   `json:"bodyFatPct" binding:"omitempty,min=1,max=75"`
	Notes      string    `json:"notes"`
}

type PhotoUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmPhotoRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Caption     string `json:"caption"`
}

// --- Handler Methods ---

// GetMyProfile returns the acting member's profile.
func (h *MemberHandler) GetMyProfile(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	profile, err := h.memberService.GetMyProfile(c.Request.Context(), actorID)
	if err != nil {
		h.mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfileToResponse(profile))
}

// UpdateMyProfile replaces the editable profile attributes.
func (h *MemberHandler) UpdateMyProfile(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.memberService.UpdateMyProfile(c.Request.Context(), actorID, service.ProfileUpdate{
		Phone:           req.Phone,
		Age:             req.Age,
		HeightCm:        req.HeightCm,
		WeightKg:        req.WeightKg,
		Gender:          req.Gender,
		Goal:            req.Goal,
		ExperienceLevel: req.ExperienceLevel,
	})
	if err != nil {
		h.mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfileToResponse(profile))
}

// GetDashboard returns the aggregated analytics view.
func (h *MemberHandler) GetDashboard(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	dash, err := h.memberService.GetDashboard(c.Request.Context(), actorID)
	if err != nil {
		h.mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// AddProgress records one progress sample.
func (h *MemberHandler) AddProgress(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req AddProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.memberService.AddProgress(c.Request.Context(), actorID, req.Date, req.WeightKg, req.BodyFatPct, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProgressEntry) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			h.mapProfileError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetProgress lists the member's progress entries, oldest first.
func (h *MemberHandler) GetProgress(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	entries, err := h.memberService.GetProgress(c.Request.Context(), actorID)
	if err != nil {
		h.mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetProgressSeries returns the weight chart series.
func (h *MemberHandler) GetProgressSeries(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	points, err := h.memberService.GetProgressSeries(c.Request.Context(), actorID)
	if err != nil {
		h.mapProfileError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// RequestPhotoUpload returns a pre-signed PUT URL for a new progress photo.
func (h *MemberHandler) RequestPhotoUpload(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.memberService.RequestPhotoUploadURL(c.Request.Context(), actorID, req.FileName, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhotoContentType):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUploadURLError):
			abortWithError(c, http.StatusInternalServerError, "Could not generate upload URL")
		default:
			h.mapProfileError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload records photo metadata after the client uploaded the
// object to the pre-signed URL.
func (h *MemberHandler) ConfirmPhotoUpload(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req ConfirmPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	photo, err := h.memberService.ConfirmPhotoUpload(c.Request.Context(), actorID, req.ObjectKey, req.FileName, req.ContentType, req.Size, req.Caption)
	if err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			abortWithError(c, http.StatusBadRequest, "Object key does not belong to this member")
		} else {
			h.mapProfileError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// GetMyPhotos lists the member's photos with temporary download URLs.
func (h *MemberHandler) GetMyPhotos(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	photos, err := h.memberService.GetMyPhotos(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, service.ErrDownloadURLError) {
			abortWithError(c, http.StatusInternalServerError, "Could not generate download URLs")
		} else {
			h.mapProfileError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, photos)
}

// DeletePhoto removes a photo and its stored object.
func (h *MemberHandler) DeletePhoto(c *gin.Context) {
	actorID, _, ok := actorFromContext(c)
	if !ok {
		return
	}

	photoID, err := primitive.ObjectIDFromHex(c.Param("photoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}

	if err := h.memberService.DeletePhoto(c.Request.Context(), actorID, photoID); err != nil {
		if errors.Is(err, service.ErrPhotoNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			h.mapProfileError(c, err)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMembers returns every member profile for the admin roster.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	profiles, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve members")
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = mapProfileToResponse(&profiles[i])
	}
	c.JSON(http.StatusOK, resp)
}

// mapProfileError translates common member-service errors.
func (h *MemberHandler) mapProfileError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrProfileNotFound) {
		abortWithError(c, http.StatusNotFound, err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
}

func mapProfileToResponse(profile *domain.MemberProfile) ProfileResponse {
	if profile == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		ID:                profile.ID.Hex(),
		Phone:             profile.Phone,
		Age:               profile.Age,
		HeightCm:          profile.HeightCm,
		WeightKg:          profile.WeightKg,
		Gender:            profile.Gender,
		Goal:              profile.Goal,
		ExperienceLevel:   profile.ExperienceLevel,
		IsPaymentApproved: profile.IsPaymentApproved,
	}
}
