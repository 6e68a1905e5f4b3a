package aiplan

import (
	"context"
	"errors"
	"testing"

	"gymdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns a canned reply or error.
type fakeProvider struct {
	reply string
	err   error

	gotSystem string
	gotUser   string
}

func (f *fakeProvider) Complete(_ context.Context, system, user string) (string, error) {
	f.gotSystem = system
	f.gotUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testProfile() *domain.MemberProfile {
	return &domain.MemberProfile{
		Age:             30,
		HeightCm:        180,
		WeightKg:        82.5,
		Goal:            "Muscle Gain",
		ExperienceLevel: "Intermediate",
	}
}

func TestRequestWithoutCredentialIsDeterministic(t *testing.T) {
	r := NewRequesterWithProvider(nil)

	first := r.Request(context.Background(), testProfile())
	second := r.Request(context.Background(), testProfile())

	ft, ok := first.(FreeText)
	require.True(t, ok, "expected FreeText outcome")
	assert.Equal(t, first, second)
	assert.Contains(t, ft.Text, "Muscle Gain")
	assert.Contains(t, ft.Text, "7-day sample workout overview")
}

func TestRequestProviderErrorKeepsDiagnosticsAndFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	r := NewRequesterWithProvider(provider)

	outcome := r.Request(context.Background(), testProfile())

	ft, ok := outcome.(FreeText)
	require.True(t, ok, "expected FreeText outcome")
	assert.Contains(t, ft.Text, "AI provider error: connection refused")
	// The error context is never the member's only content.
	assert.Contains(t, ft.Text, "7-day sample workout overview")
}

func TestRequestStrictJSONParse(t *testing.T) {
	provider := &fakeProvider{reply: `{"member":{"age":30},"plan":[{"day":1}]}`}
	r := NewRequesterWithProvider(provider)

	outcome := r.Request(context.Background(), testProfile())

	structured, ok := outcome.(Structured)
	require.True(t, ok, "expected Structured outcome")
	assert.Contains(t, structured.Data, "member")
	assert.Contains(t, structured.Data, "plan")
}

func TestRequestRecoversJSONFromSurroundingProse(t *testing.T) {
	provider := &fakeProvider{reply: "Sure! Here is your plan:\n```json\n{\"member\":{},\"plan\":[]}\n```\nEnjoy."}
	r := NewRequesterWithProvider(provider)

	outcome := r.Request(context.Background(), testProfile())

	structured, ok := outcome.(Structured)
	require.True(t, ok, "expected Structured outcome after substring recovery")
	assert.Contains(t, structured.Data, "plan")
}

func TestRequestNonJSONBecomesAnnotatedFreeText(t *testing.T) {
	provider := &fakeProvider{reply: "I cannot produce JSON today, sorry."}
	r := NewRequesterWithProvider(provider)

	outcome := r.Request(context.Background(), testProfile())

	ft, ok := outcome.(FreeText)
	require.True(t, ok, "expected FreeText outcome")
	assert.Contains(t, ft.Text, "non-JSON")
	assert.Contains(t, ft.Text, "I cannot produce JSON today, sorry.")
}

func TestRequestBracesButStillInvalidJSON(t *testing.T) {
	provider := &fakeProvider{reply: "plan: {day one, day two}"}
	r := NewRequesterWithProvider(provider)

	outcome := r.Request(context.Background(), testProfile())

	ft, ok := outcome.(FreeText)
	require.True(t, ok, "expected FreeText outcome")
	assert.Contains(t, ft.Text, "plan: {day one, day two}")
}

func TestRequestPromptIsBuiltFromProfile(t *testing.T) {
	provider := &fakeProvider{reply: `{"member":{},"plan":[]}`}
	r := NewRequesterWithProvider(provider)

	r.Request(context.Background(), testProfile())

	assert.Contains(t, provider.gotUser, "Age: 30")
	assert.Contains(t, provider.gotUser, "Height_cm: 180")
	assert.Contains(t, provider.gotUser, "Goal: Muscle Gain")
	assert.Contains(t, provider.gotSystem, "'member' and 'plan'")
}
