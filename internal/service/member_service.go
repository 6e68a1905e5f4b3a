package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"gymdash/internal/domain"
	"gymdash/internal/repository"
	"gymdash/internal/storage"

	"github.com/google/uuid" // For generating unique identifiers for S3 keys
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidPhotoContentType = errors.New("invalid or missing image content type")
	ErrPhotoNotFound           = errors.New("progress photo not found")
	ErrUploadURLError          = errors.New("failed to generate upload URL")
	ErrDownloadURLError        = errors.New("failed to generate download URL")
	ErrInvalidProgressEntry    = errors.New("progress entry requires a date")
)

// ProfileUpdate carries the editable profile attributes.
type ProfileUpdate struct {
	Phone           string
	Age             int
	HeightCm        int
	WeightKg        float64
	Gender          string
	Goal            string
	ExperienceLevel string
}

// PhotoUploadResponse structure for returning URL and object key
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// PhotoView is photo metadata enriched with a temporary download URL.
type PhotoView struct {
	domain.ProgressPhoto
	DownloadURL string `json:"downloadUrl"`
}

// ProgressPoint is one (date, weight) sample for charting.
type ProgressPoint struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weightKg"`
}

// WeeklyActivityDay marks whether the member logged progress on one of the
// last seven days.
type WeeklyActivityDay struct {
	Label  string    `json:"label"` // Mon, Tue...
	Date   time.Time `json:"date"`
	Active bool      `json:"active"`
}

// MacroSplit is the goal-based macro percentage suggestion.
type MacroSplit struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Dashboard aggregates everything the member dashboard renders.
type Dashboard struct {
	Profile             *domain.MemberProfile  `json:"profile"`
	Workouts            []domain.WorkoutPlan   `json:"workouts"` // latest 10
	Diets               []domain.DietPlan      `json:"diets"`    // latest 5
	Progress            []domain.ProgressEntry `json:"progress"` // latest 20, newest first
	BMI                 float64                `json:"bmi,omitempty"`
	BMIStatus           string                 `json:"bmiStatus,omitempty"`
	StartWeightKg       float64                `json:"startWeightKg,omitempty"`
	CurrentWeightKg     float64                `json:"currentWeightKg,omitempty"`
	WeightChangeKg      float64                `json:"weightChangeKg"`
	GoalProgressPercent int                    `json:"goalProgressPercent"`
	WeeklyActivity      []WeeklyActivityDay    `json:"weeklyActivity"`
	Macros              MacroSplit             `json:"macros"`
	Achievements        []string               `json:"achievements"`
	Photos              []PhotoView            `json:"photos"` // latest 6
}

// --- Service Interface ---
type MemberService interface {
	GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*domain.MemberProfile, error)
	UpdateMyProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.MemberProfile, error)

	AddProgress(ctx context.Context, userID primitive.ObjectID, date time.Time, weightKg, bodyFatPct float64, notes string) (*domain.ProgressEntry, error)
	GetProgress(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error)
	GetProgressSeries(ctx context.Context, userID primitive.ObjectID) ([]ProgressPoint, error)

	RequestPhotoUploadURL(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*PhotoUploadResponse, error)
	ConfirmPhotoUpload(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64, caption string) (*domain.ProgressPhoto, error)
	GetMyPhotos(ctx context.Context, userID primitive.ObjectID) ([]PhotoView, error)
	DeletePhoto(ctx context.Context, userID, photoID primitive.ObjectID) error

	GetDashboard(ctx context.Context, userID primitive.ObjectID) (*Dashboard, error)

	// ListMembers returns every member profile for the admin roster view.
	ListMembers(ctx context.Context) ([]domain.MemberProfile, error)
}

// --- Service Implementation ---

type memberService struct {
	profileRepo  repository.MemberProfileRepository
	planRepo     repository.PlanRepository
	progressRepo repository.ProgressRepository
	photoRepo    repository.ProgressPhotoRepository
	fileStorage  storage.FileStorage
}

// NewMemberService creates a new instance of memberService.
func NewMemberService(
	profileRepo repository.MemberProfileRepository,
	planRepo repository.PlanRepository,
	progressRepo repository.ProgressRepository,
	photoRepo repository.ProgressPhotoRepository,
	fileStorage storage.FileStorage,
) MemberService {
	return &memberService{
		profileRepo:  profileRepo,
		planRepo:     planRepo,
		progressRepo: progressRepo,
		photoRepo:    photoRepo,
		fileStorage:  fileStorage,
	}
}

func (s *memberService) profileForUser(ctx context.Context, userID primitive.ObjectID) (*domain.MemberProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// === Profile ===

func (s *memberService) GetMyProfile(ctx context.Context, userID primitive.ObjectID) (*domain.MemberProfile, error) {
	return s.profileForUser(ctx, userID)
}

func (s *memberService) UpdateMyProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.MemberProfile, error) {
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Phone = update.Phone
	profile.Age = update.Age
	profile.HeightCm = update.HeightCm
	profile.WeightKg = update.WeightKg
	profile.Gender = update.Gender
	profile.Goal = update.Goal
	profile.ExperienceLevel = update.ExperienceLevel

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListMembers returns all member profiles. Admin only; route-level role
// checks enforce that.
func (s *memberService) ListMembers(ctx context.Context) ([]domain.MemberProfile, error) {
	return s.profileRepo.List(ctx)
}

// === Progress ===

func (s *memberService) AddProgress(ctx context.Context, userID primitive.ObjectID, date time.Time, weightKg, bodyFatPct float64, notes string) (*domain.ProgressEntry, error) {
	if date.IsZero() {
		return nil, ErrInvalidProgressEntry
	}
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entry := &domain.ProgressEntry{
		MemberID:   profile.ID,
		Date:       date,
		WeightKg:   weightKg,
		BodyFatPct: bodyFatPct,
		Notes:      notes,
	}
	if _, err := s.progressRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *memberService) GetProgress(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressEntry, error) {
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.progressRepo.GetByMemberID(ctx, profile.ID)
}

func (s *memberService) GetProgressSeries(ctx context.Context, userID primitive.ObjectID) ([]ProgressPoint, error) {
	entries, err := s.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	points := make([]ProgressPoint, 0, len(entries))
	for _, entry := range entries {
		points = append(points, ProgressPoint{Date: entry.Date, WeightKg: entry.WeightKg})
	}
	return points, nil
}

// === Progress photos ===

// RequestPhotoUploadURL generates a pre-signed URL for a member to upload a
// progress photo directly to the bucket.
func (s *memberService) RequestPhotoUploadURL(ctx context.Context, userID primitive.ObjectID, fileName, contentType string) (*PhotoUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidPhotoContentType
	}
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Unique object key: progress_photos/<profile>/<uuid><ext>
	ext := path.Ext(fileName)
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	objectKey := path.Join("progress_photos", profile.ID.Hex(), uuid.NewString()+ext)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadURLError, err)
	}

	return &PhotoUploadResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhotoUpload records metadata after the client PUT the object.
func (s *memberService) ConfirmPhotoUpload(ctx context.Context, userID primitive.ObjectID, objectKey, fileName, contentType string, size int64, caption string) (*domain.ProgressPhoto, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required to confirm an upload")
	}
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Only accept keys inside the member's own prefix.
	if !strings.HasPrefix(objectKey, path.Join("progress_photos", profile.ID.Hex())+"/") {
		return nil, ErrPhotoNotFound
	}

	photo := &domain.ProgressPhoto{
		MemberID:    profile.ID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		Caption:     caption,
	}
	if _, err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *memberService) GetMyPhotos(ctx context.Context, userID primitive.ObjectID) ([]PhotoView, error) {
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.GetByMemberID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return s.withDownloadURLs(ctx, photos)
}

func (s *memberService) withDownloadURLs(ctx context.Context, photos []domain.ProgressPhoto) ([]PhotoView, error) {
	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, photo.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownloadURLError, err)
		}
		views = append(views, PhotoView{ProgressPhoto: photo, DownloadURL: url})
	}
	return views, nil
}

// DeletePhoto removes the object and its metadata. Metadata goes last so a
// failed S3 delete leaves the record for a retry.
func (s *memberService) DeletePhoto(ctx context.Context, userID, photoID primitive.ObjectID) error {
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return err
	}
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	if photo.MemberID != profile.ID {
		return ErrPhotoNotFound
	}

	if err := s.fileStorage.DeleteObject(ctx, photo.S3ObjectKey); err != nil {
		return err
	}
	if err := s.photoRepo.Delete(ctx, photoID, profile.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPhotoNotFound
		}
		return err
	}
	return nil
}

// === Dashboard analytics ===

// GetDashboard assembles the member's analytics view: BMI, weight change,
// goal progress, weekly activity, macros, and achievement badges.
func (s *memberService) GetDashboard(ctx context.Context, userID primitive.ObjectID) (*Dashboard, error) {
	profile, err := s.profileForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.planRepo.GetWorkoutsByMemberID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	diets, err := s.planRepo.GetDietsByMemberID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.progressRepo.GetByMemberID(ctx, profile.ID) // oldest first
	if err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.GetByMemberID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Profile:        profile,
		Workouts:       limitWorkouts(workouts, 10),
		Diets:          limitDiets(diets, 5),
		Progress:       recentEntries(entries, 20),
		WeeklyActivity: weeklyActivity(entries, time.Now().UTC()),
		Macros:         macrosForGoal(profile.Goal),
	}

	var startWeight, currentWeight float64
	if len(entries) > 0 {
		startWeight = entries[0].WeightKg
		currentWeight = entries[len(entries)-1].WeightKg
		dash.StartWeightKg = startWeight
		dash.CurrentWeightKg = currentWeight
		if startWeight > 0 && currentWeight > 0 {
			dash.WeightChangeKg = currentWeight - startWeight // positive = gain
		}
	}

	weight := currentWeight
	if weight == 0 {
		weight = profile.WeightKg
	}
	if profile.HeightCm > 0 && weight > 0 {
		heightM := float64(profile.HeightCm) / 100.0
		bmi := weight / (heightM * heightM)
		dash.BMI = float64(int(bmi*10+0.5)) / 10 // one decimal
		dash.BMIStatus = bmiStatus(dash.BMI)
	}

	dash.GoalProgressPercent = goalProgressPercent(profile.Goal, startWeight, currentWeight)
	dash.Achievements = achievements(len(entries), len(workouts), dash.BMI)

	if len(photos) > 6 {
		photos = photos[:6]
	}
	views, err := s.withDownloadURLs(ctx, photos)
	if err != nil {
		return nil, err
	}
	dash.Photos = views

	return dash, nil
}

func limitWorkouts(plans []domain.WorkoutPlan, n int) []domain.WorkoutPlan {
	if len(plans) > n {
		return plans[:n]
	}
	return plans
}

func limitDiets(plans []domain.DietPlan, n int) []domain.DietPlan {
	if len(plans) > n {
		return plans[:n]
	}
	return plans
}

// recentEntries returns the newest n entries, newest first.
func recentEntries(entries []domain.ProgressEntry, n int) []domain.ProgressEntry {
	recent := make([]domain.ProgressEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, entries[i])
	}
	return recent
}

func bmiStatus(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// goalProgressPercent estimates progress toward the member's goal from the
// overall weight change. Assumed targets: 8 kg loss, 5 kg gain.
func goalProgressPercent(goal string, startWeight, currentWeight float64) int {
	if startWeight == 0 || currentWeight == 0 {
		return 0
	}
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "loss") || strings.Contains(g, "fat"):
		const target = 8.0
		loss := startWeight - currentWeight
		if loss < 0 {
			loss = 0
		}
		return capPercent(int(loss / target * 100))
	case strings.Contains(g, "gain") || strings.Contains(g, "muscle"):
		const target = 5.0
		gain := currentWeight - startWeight
		if gain < 0 {
			gain = 0
		}
		return capPercent(int(gain / target * 100))
	}
	return 0
}

func capPercent(p int) int {
	if p > 100 {
		return 100
	}
	return p
}

// weeklyActivity builds the last-7-day calendar, marking days with at least
// one progress entry.
func weeklyActivity(entries []domain.ProgressEntry, now time.Time) []WeeklyActivityDay {
	logged := make(map[string]bool, len(entries))
	for _, entry := range entries {
		logged[entry.Date.UTC().Format("2006-01-02")] = true
	}

	today := now.Truncate(24 * time.Hour)
	days := make([]WeeklyActivityDay, 0, 7)
	for i := 6; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		days = append(days, WeeklyActivityDay{
			Label:  d.Format("Mon"),
			Date:   d,
			Active: logged[d.Format("2006-01-02")],
		})
	}
	return days
}

// macrosForGoal suggests a macro split from the goal keywords.
func macrosForGoal(goal string) MacroSplit {
	g := strings.ToLower(goal)
	switch {
	case strings.Contains(g, "loss") || strings.Contains(g, "fat"):
		return MacroSplit{Protein: 40, Carbs: 30, Fat: 30}
	case strings.Contains(g, "gain") || strings.Contains(g, "muscle"):
		return MacroSplit{Protein: 35, Carbs: 45, Fat: 20}
	default:
		return MacroSplit{Protein: 30, Carbs: 45, Fat: 25}
	}
}

// achievements awards badges for logging streaks, plan generation, and a
// healthy BMI.
func achievements(progressCount, workoutCount int, bmi float64) []string {
	var badges []string
	if progressCount >= 1 {
		badges = append(badges, "First Step: Logged your progress")
	}
	if progressCount >= 7 {
		badges = append(badges, "Consistency: 7+ progress updates")
	}
	if progressCount >= 30 {
		badges = append(badges, "Committed: 30+ progress logs")
	}
	if workoutCount > 0 {
		badges = append(badges, "AI Explorer: Generated workout plan")
	}
	if bmi >= 18.5 && bmi <= 24.9 {
		badges = append(badges, "Healthy BMI Range")
	}
	return badges
}
