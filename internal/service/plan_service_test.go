package service

import (
	"context"
	"errors"
	"testing"

	"gymdash/internal/aiplan"
	"gymdash/internal/domain"
	"gymdash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Fakes ---

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.MemberProfile // by profile ID
}

func newFakeProfileRepo(profiles ...*domain.MemberProfile) *fakeProfileRepo {
	repo := &fakeProfileRepo{profiles: make(map[primitive.ObjectID]*domain.MemberProfile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *domain.MemberProfile) (primitive.ObjectID, error) {
	profile.ID = primitive.NewObjectID()
	f.profiles[profile.ID] = profile
	return profile.ID, nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.MemberProfile, error) {
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.MemberProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *domain.MemberProfile) error {
	if _, ok := f.profiles[profile.ID]; !ok {
		return repository.ErrNotFound
	}
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) SetPaymentApproved(_ context.Context, id primitive.ObjectID, approved bool) error {
	p, ok := f.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.IsPaymentApproved = approved
	return nil
}

func (f *fakeProfileRepo) List(_ context.Context) ([]domain.MemberProfile, error) {
	var out []domain.MemberProfile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

type fakePlanRepo struct {
	workouts []domain.WorkoutPlan
	diets    []domain.DietPlan

	failNextCreates int // CreateGeneration fails this many times
	createCalls     int
}

func (f *fakePlanRepo) CreateGeneration(_ context.Context, workouts []domain.WorkoutPlan, diet *domain.DietPlan) ([]primitive.ObjectID, error) {
	f.createCalls++
	if f.failNextCreates > 0 {
		f.failNextCreates--
		return nil, errors.New("store rejected write")
	}
	ids := make([]primitive.ObjectID, 0, len(workouts))
	for i := range workouts {
		workouts[i].ID = primitive.NewObjectID()
		ids = append(ids, workouts[i].ID)
		f.workouts = append(f.workouts, workouts[i])
	}
	diet.ID = primitive.NewObjectID()
	f.diets = append(f.diets, *diet)
	return ids, nil
}

func (f *fakePlanRepo) GetWorkoutByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			return &f.workouts[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePlanRepo) GetWorkoutsByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, w := range f.workouts {
		if w.MemberID == memberID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) GetDietsByMemberID(_ context.Context, memberID primitive.ObjectID) ([]domain.DietPlan, error) {
	var out []domain.DietPlan
	for _, d := range f.diets {
		if d.MemberID == memberID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) DeleteWorkout(_ context.Context, id primitive.ObjectID) error {
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			f.workouts = append(f.workouts[:i], f.workouts[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fixedRequester always returns the same outcome.
type fixedRequester struct {
	outcome aiplan.Outcome
}

func (f fixedRequester) Request(_ context.Context, _ *domain.MemberProfile) aiplan.Outcome {
	return f.outcome
}

// --- Helpers ---

func approvedProfile() *domain.MemberProfile {
	return &domain.MemberProfile{
		ID:                primitive.NewObjectID(),
		UserID:            primitive.NewObjectID(),
		Age:               28,
		HeightCm:          175,
		WeightKg:          80,
		Goal:              "Fat Loss",
		ExperienceLevel:   "Beginner",
		IsPaymentApproved: true,
	}
}

// --- Tests ---

func TestGenerateAndSaveWithoutProviderCreatesOnePair(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	svc := NewPlanService(aiplan.NewRequesterWithProvider(nil), profileRepo, planRepo)

	created, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, planRepo.workouts, 1)
	require.Len(t, planRepo.diets, 1)
	assert.Equal(t, "AI Plan", planRepo.workouts[0].Title)
	assert.NotEmpty(t, planRepo.workouts[0].Content)
	assert.NotEmpty(t, planRepo.diets[0].Content)
}

func TestGenerateAndSaveRequiresPaymentApproval(t *testing.T) {
	profile := approvedProfile()
	profile.IsPaymentApproved = false
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	svc := NewPlanService(aiplan.NewRequesterWithProvider(nil), profileRepo, planRepo)

	_, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	assert.ErrorIs(t, err, ErrPaymentNotApproved)
	assert.Zero(t, planRepo.createCalls)
}

func TestGenerateAndSaveStructuredPlan(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	outcome := aiplan.Structured{Data: map[string]any{
		"member": map[string]any{},
		"plan": []any{
			map[string]any{"workout": []any{map[string]any{"name": "Squat", "sets": float64(3)}}, "diet": map[string]any{"breakfast": "Oats"}},
			map[string]any{"workout": []any{map[string]any{"name": "Run"}}},
			map[string]any{"workout": []any{map[string]any{"name": "Deadlift"}}},
		},
	}}
	svc := NewPlanService(fixedRequester{outcome}, profileRepo, planRepo)

	created, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, created)
	require.Len(t, planRepo.workouts, 3)
	assert.Equal(t, "Day 1 - AI Workout", planRepo.workouts[0].Title)
	assert.Equal(t, "Day 2 - AI Workout", planRepo.workouts[1].Title)
	assert.Equal(t, "Day 3 - AI Workout", planRepo.workouts[2].Title)
	assert.Contains(t, planRepo.workouts[0].Content, "Squat")

	require.Len(t, planRepo.diets, 1)
	assert.Contains(t, planRepo.diets[0].Content, "Day 1:")
	assert.Contains(t, planRepo.diets[0].Content, "Breakfast: Oats")
}

func TestGenerateAndSaveShapeErrorDegradesToBlob(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	// Missing 'member' key: structurally parseable but misshapen.
	outcome := aiplan.Structured{Data: map[string]any{"plan": []any{}}}
	svc := NewPlanService(fixedRequester{outcome}, profileRepo, planRepo)

	created, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, planRepo.workouts, 1)
	assert.Equal(t, "AI Plan (error)", planRepo.workouts[0].Title)
	assert.Contains(t, planRepo.workouts[0].Content, "plan")
	require.Len(t, planRepo.diets, 1)
	assert.Equal(t, "AI Diet (error)", planRepo.diets[0].Title)
}

func TestGenerateAndSaveFreeTextSegmentation(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	text := "Day 1: squats\nBreakfast: eggs\nDay 2: cardio\nDinner: chicken"
	svc := NewPlanService(fixedRequester{aiplan.FreeText{Text: text}}, profileRepo, planRepo)

	created, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	require.Len(t, planRepo.workouts, 2)
	assert.Equal(t, "Day 1 - AI Plan", planRepo.workouts[0].Title)
	assert.Equal(t, "Day 2 - AI Plan", planRepo.workouts[1].Title)

	// Diet lines come from the full original text.
	require.Len(t, planRepo.diets, 1)
	assert.Equal(t, "Breakfast: eggs\nDinner: chicken", planRepo.diets[0].Content)
}

func TestGenerateAndSaveUnsegmentedProse(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	svc := NewPlanService(fixedRequester{aiplan.FreeText{Text: "Just keep moving."}}, profileRepo, planRepo)

	created, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, planRepo.workouts, 1)
	assert.Equal(t, "AI Plan", planRepo.workouts[0].Title)
	assert.Equal(t, "Just keep moving.", planRepo.workouts[0].Content)
	require.Len(t, planRepo.diets, 1)
	assert.Equal(t, "See AI Plan", planRepo.diets[0].Content)
}

func TestGenerateAndSaveLastResortOnPersistenceFailure(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{failNextCreates: 1}
	svc := NewPlanService(fixedRequester{aiplan.FreeText{Text: "Day 1: squats"}}, profileRepo, planRepo)

	created, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, planRepo.workouts, 1)
	assert.Equal(t, "AI Plan (error)", planRepo.workouts[0].Title)
	assert.Contains(t, planRepo.workouts[0].Content, "Day 1: squats")
}

func TestGenerateAndSaveDoubleFailureSurfaces(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{failNextCreates: 2}
	svc := NewPlanService(fixedRequester{aiplan.FreeText{Text: "anything"}}, profileRepo, planRepo)

	_, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)

	assert.ErrorIs(t, err, ErrPlanPersistence)
	assert.Equal(t, 2, planRepo.createCalls)
	assert.Empty(t, planRepo.workouts)
}

func TestGenerateAndSaveAdminTargeting(t *testing.T) {
	member := approvedProfile()
	admin := approvedProfile()
	profileRepo := newFakeProfileRepo(member, admin)
	planRepo := &fakePlanRepo{}
	svc := NewPlanService(aiplan.NewRequesterWithProvider(nil), profileRepo, planRepo)

	// A member may not target another member's profile.
	_, err := svc.GenerateAndSave(context.Background(), admin.UserID, domain.RoleMember, &member.ID)
	assert.ErrorIs(t, err, ErrGenerateNotAllowed)

	// An admin may.
	created, err := svc.GenerateAndSave(context.Background(), admin.UserID, domain.RoleAdmin, &member.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, member.ID, planRepo.workouts[0].MemberID)
}

func TestGenerateAndSaveAppendsOnRepeatRuns(t *testing.T) {
	profile := approvedProfile()
	profileRepo := newFakeProfileRepo(profile)
	planRepo := &fakePlanRepo{}
	svc := NewPlanService(aiplan.NewRequesterWithProvider(nil), profileRepo, planRepo)

	_, err := svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)
	require.NoError(t, err)
	_, err = svc.GenerateAndSave(context.Background(), profile.UserID, domain.RoleMember, nil)
	require.NoError(t, err)

	// Append-only by design: two runs, two full record sets.
	assert.Len(t, planRepo.workouts, 2)
	assert.Len(t, planRepo.diets, 2)
}

func TestDeleteWorkoutOwnership(t *testing.T) {
	owner := approvedProfile()
	other := approvedProfile()
	profileRepo := newFakeProfileRepo(owner, other)
	planRepo := &fakePlanRepo{
		workouts: []domain.WorkoutPlan{{ID: primitive.NewObjectID(), MemberID: owner.ID, Title: "AI Plan"}},
	}
	svc := NewPlanService(aiplan.NewRequesterWithProvider(nil), profileRepo, planRepo)
	planID := planRepo.workouts[0].ID

	err := svc.DeleteWorkout(context.Background(), other.UserID, domain.RoleMember, planID)
	assert.ErrorIs(t, err, ErrPlanDeleteForbidden)

	err = svc.DeleteWorkout(context.Background(), other.UserID, domain.RoleAdmin, planID)
	assert.NoError(t, err)
	assert.Empty(t, planRepo.workouts)
}

func TestAnswerCoachQuestion(t *testing.T) {
	svc := NewPlanService(aiplan.NewRequesterWithProvider(nil), newFakeProfileRepo(), &fakePlanRepo{})

	answer, err := svc.AnswerCoachQuestion("How do I approach weight loss?")
	require.NoError(t, err)
	assert.Contains(t, answer, "calorie deficit")

	answer, err = svc.AnswerCoachQuestion("best MEAL ideas?")
	require.NoError(t, err)
	assert.Contains(t, answer, "lean protein")

	answer, err = svc.AnswerCoachQuestion("anything else?")
	require.NoError(t, err)
	assert.Contains(t, answer, "stay consistent")

	_, err = svc.AnswerCoachQuestion("   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}
