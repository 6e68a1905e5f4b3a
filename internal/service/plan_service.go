package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"gymdash/internal/aiplan"
	"gymdash/internal/domain"
	"gymdash/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrProfileNotFound     = errors.New("member profile not found")
	ErrPaymentNotApproved  = errors.New("payment not approved: make a payment and wait for admin approval")
	ErrGenerateNotAllowed  = errors.New("only admins can generate plans for other members")
	ErrPlanNotFound        = errors.New("plan not found")
	ErrPlanDeleteForbidden = errors.New("plan does not belong to this member")
	ErrPlanPersistence     = errors.New("failed to save generated plan")
	ErrEmptyQuestion       = errors.New("question cannot be empty")
)

// PlanRequester produces a generation outcome for a member profile.
// Satisfied by *aiplan.Requester; tests substitute a fake.
type PlanRequester interface {
	Request(ctx context.Context, profile *domain.MemberProfile) aiplan.Outcome
}

// --- Service Interface ---
type PlanService interface {
	// GenerateAndSave runs the full generation pipeline for a member and
	// returns the number of WorkoutPlan records created.
	GenerateAndSave(ctx context.Context, actorUserID primitive.ObjectID, actorRole domain.Role, targetProfileID *primitive.ObjectID) (int, error)

	GetMyWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	GetMyDiets(ctx context.Context, userID primitive.ObjectID) ([]domain.DietPlan, error)
	DeleteWorkout(ctx context.Context, actorUserID primitive.ObjectID, actorRole domain.Role, planID primitive.ObjectID) error

	// AnswerCoachQuestion returns rule-based coaching advice.
	AnswerCoachQuestion(question string) (string, error)
}

// --- Service Implementation ---

// planService orchestrates the generation pipeline: requester, normalizers,
// and persistence, with a fallback chain that guarantees the member ends up
// with some usable plan whenever any write at all is possible.
type planService struct {
	requester   PlanRequester
	profileRepo repository.MemberProfileRepository
	planRepo    repository.PlanRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	requester PlanRequester,
	profileRepo repository.MemberProfileRepository,
	planRepo repository.PlanRepository,
) PlanService {
	return &planService{
		requester:   requester,
		profileRepo: profileRepo,
		planRepo:    planRepo,
	}
}

// GenerateAndSave requests a plan for the target member, normalizes the
// outcome, and persists it. Members generate for themselves; admins may
// target any member profile. The member's payment must be approved.
//
// Failure policy: every recoverable condition (provider failure, malformed
// or misshapen payload, normalization panic) is absorbed and converted into
// persisted content. Only a double failure - the primary write AND the
// simplified last-resort write both rejected by the store - surfaces as an
// error.
func (s *planService) GenerateAndSave(ctx context.Context, actorUserID primitive.ObjectID, actorRole domain.Role, targetProfileID *primitive.ObjectID) (int, error) {
	profile, err := s.resolveTarget(ctx, actorUserID, actorRole, targetProfileID)
	if err != nil {
		return 0, err
	}

	if !profile.IsPaymentApproved {
		return 0, ErrPaymentNotApproved
	}

	outcome := s.requester.Request(ctx, profile)

	created, err := s.persistOutcome(ctx, profile, outcome)
	if err == nil {
		return created, nil
	}
	log.Printf("ERROR: primary plan persistence failed for member %s: %v", profile.ID.Hex(), err)

	// Last resort: one simplified pair carrying the raw payload, so a
	// requester call that returned an outcome never ends in zero records.
	workout := domain.WorkoutPlan{
		MemberID: profile.ID,
		Title:    "AI Plan (error)",
		Content:  rawOutcomeText(outcome),
	}
	diet := domain.DietPlan{
		MemberID: profile.ID,
		Title:    "AI Diet (error)",
		Content:  "Refer to AI Plan (error)",
	}
	if _, lastErr := s.planRepo.CreateGeneration(ctx, []domain.WorkoutPlan{workout}, &diet); lastErr != nil {
		log.Printf("ERROR: last-resort plan persistence failed for member %s: %v", profile.ID.Hex(), lastErr)
		return 0, fmt.Errorf("%w: %v", ErrPlanPersistence, lastErr)
	}
	return 1, nil
}

// persistOutcome branches on the outcome variant, builds the record set, and
// writes it. A panic inside normalization is converted into an error so the
// caller's last-resort path can still run.
func (s *planService) persistOutcome(ctx context.Context, profile *domain.MemberProfile, outcome aiplan.Outcome) (created int, err error) {
	defer func() {
		if r := recover(); r != nil {
			created = 0
			err = fmt.Errorf("plan normalization panicked: %v", r)
		}
	}()

	switch o := outcome.(type) {
	case aiplan.Structured:
		return s.persistStructured(ctx, profile, o)
	case aiplan.FreeText:
		return s.persistFreeText(ctx, profile, o)
	default:
		return 0, fmt.Errorf("unknown generation outcome %T", outcome)
	}
}

// persistStructured normalizes a structured payload into per-day records.
// A shape error or any normalization failure degrades to persisting the raw
// payload as an opaque error blob; the member still receives records.
func (s *planService) persistStructured(ctx context.Context, profile *domain.MemberProfile, o aiplan.Structured) (int, error) {
	records, err := aiplan.NormalizePlan(o.Data)
	if err != nil || len(records) == 0 {
		if err != nil {
			log.Printf("WARN: structured plan rejected for member %s, degrading to blob: %v", profile.ID.Hex(), err)
		}
		workout := domain.WorkoutPlan{
			MemberID: profile.ID,
			Title:    "AI Plan (error)",
			Content:  rawOutcomeText(o),
		}
		diet := domain.DietPlan{
			MemberID: profile.ID,
			Title:    "AI Diet (error)",
			Content:  "Refer to AI Plan (error)",
		}
		if _, err := s.planRepo.CreateGeneration(ctx, []domain.WorkoutPlan{workout}, &diet); err != nil {
			return 0, err
		}
		return 1, nil
	}

	workouts := make([]domain.WorkoutPlan, 0, len(records))
	var dietBlocks []string
	for _, record := range records {
		workouts = append(workouts, domain.WorkoutPlan{
			MemberID: profile.ID,
			Title:    fmt.Sprintf("Day %d - AI Workout", record.Day),
			Content:  record.WorkoutText,
		})
		if record.DietText != "" {
			dietBlocks = append(dietBlocks, fmt.Sprintf("Day %d:\n%s", record.Day, record.DietText))
		}
	}

	dietContent := strings.Join(dietBlocks, "\n\n")
	if dietContent == "" {
		dietContent = "Refer to workouts for diet."
	}
	diet := domain.DietPlan{
		MemberID: profile.ID,
		Title:    "AI Diet (parsed JSON)",
		Content:  dietContent,
	}

	if _, err := s.planRepo.CreateGeneration(ctx, workouts, &diet); err != nil {
		return 0, err
	}
	return len(workouts), nil
}

// persistFreeText segments prose output into per-day records, or stores a
// single aggregate record when no day markers are recoverable.
func (s *planService) persistFreeText(ctx context.Context, profile *domain.MemberProfile, o aiplan.FreeText) (int, error) {
	segments := aiplan.SegmentByDay(o.Text)

	if len(segments) == 1 && segments[0].Day == 0 {
		workout := domain.WorkoutPlan{
			MemberID: profile.ID,
			Title:    "AI Plan",
			Content:  o.Text,
		}
		// No reliable diet parse for an unsegmented blob.
		diet := domain.DietPlan{
			MemberID: profile.ID,
			Title:    "AI Diet",
			Content:  "See AI Plan",
		}
		if _, err := s.planRepo.CreateGeneration(ctx, []domain.WorkoutPlan{workout}, &diet); err != nil {
			return 0, err
		}
		return 1, nil
	}

	workouts := make([]domain.WorkoutPlan, 0, len(segments))
	for _, segment := range segments {
		workouts = append(workouts, domain.WorkoutPlan{
			MemberID: profile.ID,
			Title:    fmt.Sprintf("Day %d - AI Plan", segment.Day),
			Content:  segment.Content,
		})
	}

	// Diet lines come from the original full text, not per-day fragments.
	dietContent := strings.Join(aiplan.ExtractDietLines(o.Text), "\n")
	if dietContent == "" {
		dietContent = "Refer to day-wise plans for diet."
	}
	diet := domain.DietPlan{
		MemberID: profile.ID,
		Title:    "AI Diet (parsed)",
		Content:  dietContent,
	}

	if _, err := s.planRepo.CreateGeneration(ctx, workouts, &diet); err != nil {
		return 0, err
	}
	return len(workouts), nil
}

// resolveTarget finds the profile a generation run applies to: the actor's
// own profile, or an admin-specified one.
func (s *planService) resolveTarget(ctx context.Context, actorUserID primitive.ObjectID, actorRole domain.Role, targetProfileID *primitive.ObjectID) (*domain.MemberProfile, error) {
	if targetProfileID != nil && *targetProfileID != primitive.NilObjectID {
		if actorRole != domain.RoleAdmin {
			return nil, ErrGenerateNotAllowed
		}
		profile, err := s.profileRepo.GetByID(ctx, *targetProfileID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProfileNotFound
			}
			return nil, err
		}
		return profile, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A profile is created with every account; its absence is a
			// precondition violation, not something to repair here.
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// rawOutcomeText stringifies an outcome for opaque-blob persistence.
func rawOutcomeText(outcome aiplan.Outcome) string {
	switch o := outcome.(type) {
	case aiplan.Structured:
		raw, err := json.Marshal(o.Data)
		if err != nil {
			return fmt.Sprintf("%v", o.Data)
		}
		return string(raw)
	case aiplan.FreeText:
		return o.Text
	default:
		return fmt.Sprintf("%v", outcome)
	}
}

// === Plan viewing / deletion ===

// GetMyWorkouts lists the acting member's workout plans, newest first.
func (s *planService) GetMyWorkouts(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.planRepo.GetWorkoutsByMemberID(ctx, profile.ID)
}

// GetMyDiets lists the acting member's diet plans, newest first.
func (s *planService) GetMyDiets(ctx context.Context, userID primitive.ObjectID) ([]domain.DietPlan, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return s.planRepo.GetDietsByMemberID(ctx, profile.ID)
}

// DeleteWorkout removes a workout plan. Only the owning member or an admin
// may delete.
func (s *planService) DeleteWorkout(ctx context.Context, actorUserID primitive.ObjectID, actorRole domain.Role, planID primitive.ObjectID) error {
	plan, err := s.planRepo.GetWorkoutByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if actorRole != domain.RoleAdmin {
		profile, err := s.profileRepo.GetByUserID(ctx, actorUserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrProfileNotFound
			}
			return err
		}
		if plan.MemberID != profile.ID {
			return ErrPlanDeleteForbidden
		}
	}

	return s.planRepo.DeleteWorkout(ctx, planID)
}

// === Coach Q&A ===

// coachRules map question keywords to canned advice, checked in order.
var coachRules = []struct {
	keywords []string
	answer   string
}{
	{
		keywords: []string{"weight loss", "fat"},
		answer: "For effective weight loss: focus on a small calorie deficit, " +
			"3-5 days of cardio, and 2-3 days of strength training weekly. " +
			"Keep protein high and track your progress consistently.",
	},
	{
		keywords: []string{"muscle", "bulk"},
		answer: "For muscle gain: train each muscle group 2x per week with progressive overload, " +
			"sleep 7-8 hours, and aim for a slight calorie surplus with high protein.",
	},
	{
		keywords: []string{"cardio"},
		answer: "Cardio suggestion: 20-30 minutes, 3-4 times per week. " +
			"Mix steady-state with one HIIT session if you are comfortable.",
	},
	{
		keywords: []string{"diet", "food", "meal"},
		answer: "Basic diet guideline: include a lean protein, complex carb, and vegetables in each meal. " +
			"Limit sugary drinks and processed foods. Drink plenty of water.",
	},
}

const coachDefaultAnswer = "Great question! For best results, combine regular strength training, some cardio, " +
	"good sleep, and a balanced diet. Start simple and stay consistent."

// AnswerCoachQuestion returns keyword-matched coaching advice.
func (s *planService) AnswerCoachQuestion(question string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return "", ErrEmptyQuestion
	}
	for _, rule := range coachRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(q, keyword) {
				return rule.answer, nil
			}
		}
	}
	return coachDefaultAnswer, nil
}
