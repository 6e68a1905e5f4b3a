// internal/aiplan/requester.go
package aiplan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gymdash/internal/config"
	"gymdash/internal/domain"
)

// systemInstruction pins the JSON shape we ask the provider for. Kept simple
// and forgiving: the normalizer tolerates missing fields anyway.
const systemInstruction = `You are a fitness coach. Output ONLY valid JSON (no explanatory text) matching the schema described. If you cannot provide the full fields, include them where possible but keep valid JSON.

Schema:
{
  "member": {"age": int, "height_cm": int|null, "weight_kg": number|null, "goal": string},
  "plan": [
    { "day": 1, "workout": [{"name":"Squat","sets":3,"reps":"8-12","notes":"..."}], "diet": {"breakfast":"...","lunch":"...","dinner":"...","snacks":"..."} },
    ... up to 7 items
  ]
}

Important: ALWAYS return a JSON object with top-level keys 'member' and 'plan'. Do not return markdown or any surrounding text. Use simple strings and numbers.`

// Requester asks the external provider for a structured fitness plan and
// classifies the raw result into an Outcome. It performs no persistence.
type Requester struct {
	provider      ChatProvider
	hasCredential bool
}

// NewRequester builds a Requester from configuration. An empty API key means
// no provider is configured: Request then returns the deterministic fallback
// plan without any external call.
func NewRequester(cfg config.AIConfig) *Requester {
	if cfg.APIKey == "" {
		return &Requester{}
	}
	return &Requester{
		provider:      NewHTTPChatProvider(cfg),
		hasCredential: true,
	}
}

// NewRequesterWithProvider builds a Requester around an explicit provider.
func NewRequesterWithProvider(provider ChatProvider) *Requester {
	return &Requester{provider: provider, hasCredential: provider != nil}
}

// Request builds the prompt from the member profile, performs at most one
// provider call, and classifies the result. Every failure mode collapses
// into a FreeText outcome; Request never returns an error.
func (r *Requester) Request(ctx context.Context, profile *domain.MemberProfile) Outcome {
	if !r.hasCredential {
		return FreeText{Text: FallbackPlanText(profile)}
	}

	raw, err := r.provider.Complete(ctx, systemInstruction, buildPrompt(profile))
	if err != nil {
		log.Printf("ERROR: AI provider call failed: %v", err)
		// Keep the error context for diagnostics, but never make it the
		// member's only content.
		return FreeText{Text: fmt.Sprintf("AI provider error: %v\n\n%s", err, FallbackPlanText(profile))}
	}

	raw = strings.TrimSpace(raw)

	// Attempt strict parse first; the model sometimes wraps the JSON in
	// prose or markdown fences, so retry on the outermost brace span.
	if parsed, ok := tryParseObject(raw); ok {
		return Structured{Data: parsed}
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		if parsed, ok := tryParseObject(raw[start : end+1]); ok {
			return Structured{Data: parsed}
		}
	}

	// Never silently discard the payload.
	return FreeText{Text: "AI provider returned non-JSON output. Raw output:\n" + raw}
}

func tryParseObject(raw string) (map[string]any, bool) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}
	if parsed == nil {
		return nil, false
	}
	return parsed, true
}

// buildPrompt renders the per-member user prompt. Deterministic for a given
// profile.
func buildPrompt(profile *domain.MemberProfile) string {
	return fmt.Sprintf(
		"Generate a 7-day structured workout+diet plan for a user with the following profile:\n"+
			"Age: %d\nHeight_cm: %d\nWeight_kg: %g\nGoal: %s\nExperience: %s\n\n"+
			"Follow the schema exactly and output valid JSON only.",
		profile.Age, profile.HeightCm, profile.WeightKg, profile.Goal, profile.ExperienceLevel,
	)
}

// FallbackPlanText is the fully pre-written 7-day generic plan used whenever
// no provider is configured or the provider call fails. Deterministic for a
// given profile.
func FallbackPlanText(profile *domain.MemberProfile) string {
	goal := profile.Goal
	if goal == "" {
		goal = "General Fitness"
	}
	experience := profile.ExperienceLevel
	if experience == "" {
		experience = "Beginner"
	}
	age := "N/A"
	if profile.Age > 0 {
		age = fmt.Sprintf("%d", profile.Age)
	}
	height := "N/A"
	if profile.HeightCm > 0 {
		height = fmt.Sprintf("%d cm", profile.HeightCm)
	}
	weight := "N/A"
	if profile.WeightKg > 0 {
		weight = fmt.Sprintf("%g kg", profile.WeightKg)
	}

	return fmt.Sprintf(
		"AI Unavailable - fallback plan generated.\n\n"+
			"Profile - Goal: %s, Experience: %s, Age: %s, Height: %s, Weight: %s\n\n"+
			"7-day sample workout overview:\n"+
			"1) Full-body (squats, push-ups, bent-over rows, planks), 3 sets each.\n"+
			"2) Cardio (30 min brisk walk or bike).\n"+
			"3) Upper body (dumbbell press, rows, shoulder press), 3 sets.\n"+
			"4) Rest or light stretching.\n"+
			"5) Lower body (lunges, deadlifts, calf raises), 3 sets.\n"+
			"6) HIIT 20 minutes (work/rest intervals).\n"+
			"7) Mobility and active recovery.\n\n"+
			"Sample diet tips:\n"+
			"- Breakfast: Oats / eggs / fruits.\n"+
			"- Lunch: Protein + veg + complex carbs.\n"+
			"- Dinner: Lighter protein + veg.\n"+
			"- Snacks: Nuts, yogurt, fruit.\n\n"+
			"Note: This is a generic fallback plan.",
		goal, experience, age, height, weight,
	)
}
