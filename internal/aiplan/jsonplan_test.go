package aiplan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseJSON is a test helper mirroring what the requester hands to the normalizer.
func parseJSON(t *testing.T, raw string) map[string]any {
	t.Helper()
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	return parsed
}

func TestValidatePlan(t *testing.T) {
	tests := []struct {
		name    string
		parsed  map[string]any
		wantErr string
	}{
		{
			name:    "nil map",
			parsed:  nil,
			wantErr: "top-level JSON must be an object",
		},
		{
			name:    "missing plan key",
			parsed:  map[string]any{"member": map[string]any{}},
			wantErr: "missing 'plan' or 'member' keys",
		},
		{
			name:    "missing member key",
			parsed:  map[string]any{"plan": []any{}},
			wantErr: "missing 'plan' or 'member' keys",
		},
		{
			name:    "plan is not a list",
			parsed:  map[string]any{"member": map[string]any{}, "plan": "monday"},
			wantErr: "'plan' must be a list",
		},
		{
			name:   "empty plan list is valid",
			parsed: map[string]any{"member": map[string]any{}, "plan": []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlan(tt.parsed)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
			assert.Equal(t, tt.wantErr, shapeErr.Reason)
		})
	}
}

func TestNormalizePlanRoundTrip(t *testing.T) {
	parsed := parseJSON(t, `{"member":{},"plan":[{"day":1,"workout":[{"name":"Squat","sets":3,"reps":"8-12"}],"diet":{"breakfast":"Oats"}}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 1, records[0].Day)
	assert.Contains(t, records[0].WorkoutText, "Squat")
	assert.Contains(t, records[0].WorkoutText, "sets: 3")
	assert.Contains(t, records[0].WorkoutText, "reps: 8-12")
	assert.Equal(t, "Breakfast: Oats", records[0].DietText)
}

func TestNormalizePlanPositionalDayFallback(t *testing.T) {
	parsed := parseJSON(t, `{"member":{},"plan":[{"workout":[]},{"workout":[]},{"workout":[]}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 1, records[0].Day)
	assert.Equal(t, 2, records[1].Day)
	assert.Equal(t, 3, records[2].Day)
}

func TestNormalizePlanMixedDayDeclarations(t *testing.T) {
	// Entries without a day field get the 1-based position among processed
	// entries, even when that collides with a declared day. Preserved as-is.
	parsed := parseJSON(t, `{"member":{},"plan":[{"day":5},{}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 5, records[0].Day)
	assert.Equal(t, 2, records[1].Day)
}

func TestNormalizePlanCaseVariantDayKey(t *testing.T) {
	parsed := parseJSON(t, `{"member":{},"plan":[{"Day":4}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 4, records[0].Day)
}

func TestNormalizePlanExerciseFallbacks(t *testing.T) {
	parsed := parseJSON(t, `{"member":{},"plan":[{"day":1,"workout":[{"exercise":"Bench Press","repetition":"10"},{"notes":"slow tempo"}]}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 1)

	lines := records[0].WorkoutText
	assert.Contains(t, lines, "Bench Press")
	assert.Contains(t, lines, "reps: 10")
	assert.Contains(t, lines, "Exercise")
	assert.Contains(t, lines, "(slow tempo)")
}

func TestNormalizePlanRawWorkoutStringFallback(t *testing.T) {
	parsed := parseJSON(t, `{"member":{},"plan":[{"day":1,"workout":"30 minutes of cycling"}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "30 minutes of cycling", records[0].WorkoutText)
}

func TestNormalizePlanDietVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "map with fixed label order",
			raw:  `{"member":{},"plan":[{"diet":{"snacks":"Nuts","breakfast":"Oats","dinner":"Fish"}}]}`,
			want: "Breakfast: Oats\nDinner: Fish\nSnacks: Nuts",
		},
		{
			name: "map with empty values skipped",
			raw:  `{"member":{},"plan":[{"diet":{"breakfast":"","lunch":"Salad"}}]}`,
			want: "Lunch: Salad",
		},
		{
			name: "non-map diet stringified",
			raw:  `{"member":{},"plan":[{"diet":"eat clean"}]}`,
			want: "eat clean",
		},
		{
			name: "absent diet",
			raw:  `{"member":{},"plan":[{}]}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := NormalizePlan(parseJSON(t, tt.raw))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].DietText)
		})
	}
}

func TestNormalizePlanRejectsMalformedEntries(t *testing.T) {
	_, err := NormalizePlan(parseJSON(t, `{"member":{},"plan":["not an object"]}`))
	require.Error(t, err)

	_, err = NormalizePlan(parseJSON(t, `{"member":{},"plan":[{"workout":["not an object"]}]}`))
	require.Error(t, err)
}

func TestNormalizePlanOrderFollowsInput(t *testing.T) {
	// Output order matches input plan order; no reordering by day number.
	parsed := parseJSON(t, `{"member":{},"plan":[{"day":7},{"day":2}]}`)

	records, err := NormalizePlan(parsed)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 7, records[0].Day)
	assert.Equal(t, 2, records[1].Day)
}
