// internal/aiplan/jsonplan.go
package aiplan

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ShapeError reports a structurally parseable payload that does not match
// the expected plan shape. Normalization never proceeds past one.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "invalid plan shape: " + e.Reason
}

// DayRecord is the canonical per-day unit produced from a structured payload:
// one day's workout text and diet text, ready for persistence.
type DayRecord struct {
	Day         int
	WorkoutText string
	DietText    string
}

// Candidate keys per logical field, evaluated first-match-wins. The model is
// permissive about field names; the alternates observed in practice are
// listed here rather than scattered through conditionals.
var (
	dayKeys  = []string{"day", "Day"}
	nameKeys = []string{"name", "exercise"}
	repsKeys = []string{"reps", "repetition"}
)

// workoutLineSeparator joins the name/sets/reps/notes parts of one exercise line.
const workoutLineSeparator = " | "

// ValidatePlan checks the top-level shape: a key-value object carrying both
// a 'member' and a 'plan' key, where 'plan' is a list (possibly empty).
func ValidatePlan(parsed map[string]any) error {
	if parsed == nil {
		return &ShapeError{Reason: "top-level JSON must be an object"}
	}
	_, hasMember := parsed["member"]
	_, hasPlan := parsed["plan"]
	if !hasMember || !hasPlan {
		return &ShapeError{Reason: "missing 'plan' or 'member' keys"}
	}
	if _, ok := parsed["plan"].([]any); !ok {
		return &ShapeError{Reason: "'plan' must be a list"}
	}
	return nil
}

// NormalizePlan maps a validated payload into ordered DayRecords. Entries
// keep their input order; day numbers come from the entry's day field or,
// when absent, the 1-based position among entries processed so far (no
// collision resolution against declared day values).
func NormalizePlan(parsed map[string]any) ([]DayRecord, error) {
	if err := ValidatePlan(parsed); err != nil {
		return nil, err
	}

	planList := parsed["plan"].([]any)
	records := make([]DayRecord, 0, len(planList))

	for i, raw := range planList {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("plan entry %d is not an object", i)
		}

		day, ok := lookupDay(entry)
		if !ok {
			day = len(records) + 1
		}

		workoutText, err := buildWorkoutText(entry)
		if err != nil {
			return nil, fmt.Errorf("plan entry %d: %w", i, err)
		}

		records = append(records, DayRecord{
			Day:         day,
			WorkoutText: workoutText,
			DietText:    buildDietText(entry["diet"]),
		})
	}
	return records, nil
}

// buildWorkoutText renders the entry's workout list into display lines, one
// exercise per line. Absent or empty lists fall back to a raw 'workout'
// string field, else empty.
func buildWorkoutText(entry map[string]any) (string, error) {
	list, ok := entry["workout"].([]any)
	if !ok || len(list) == 0 {
		if s, ok := entry["workout"].(string); ok {
			return s, nil
		}
		return "", nil
	}

	lines := make([]string, 0, len(list))
	for i, raw := range list {
		exercise, ok := raw.(map[string]any)
		if !ok {
			return "", fmt.Errorf("workout item %d is not an object", i)
		}

		name, ok := lookupDisplay(exercise, nameKeys)
		if !ok {
			name = "Exercise"
		}
		parts := []string{name}
		if sets, ok := displayValue(exercise["sets"]); ok {
			parts = append(parts, "sets: "+sets)
		}
		if reps, ok := lookupDisplay(exercise, repsKeys); ok {
			parts = append(parts, "reps: "+reps)
		}
		if notes, ok := displayValue(exercise["notes"]); ok {
			parts = append(parts, "("+notes+")")
		}
		lines = append(lines, strings.Join(parts, workoutLineSeparator))
	}
	return strings.Join(lines, "\n"), nil
}

// dietOrder fixes the label order of diet map rendering.
var dietOrder = []struct {
	key   string
	label string
}{
	{"breakfast", "Breakfast"},
	{"lunch", "Lunch"},
	{"dinner", "Dinner"},
	{"snacks", "Snacks"},
}

// buildDietText renders the entry's diet value: a map becomes one labeled
// line per present non-empty meal, any other non-empty value is stringified
// directly, absent/empty yields "".
func buildDietText(diet any) string {
	if diet == nil {
		return ""
	}
	if m, ok := diet.(map[string]any); ok {
		var lines []string
		for _, meal := range dietOrder {
			if value, ok := displayValue(m[meal.key]); ok {
				lines = append(lines, meal.label+": "+value)
			}
		}
		return strings.Join(lines, "\n")
	}
	if value, ok := displayValue(diet); ok {
		return value
	}
	return ""
}

// lookupDay resolves the entry's declared day number, if any.
func lookupDay(entry map[string]any) (int, bool) {
	for _, key := range dayKeys {
		switch v := entry[key].(type) {
		case float64:
			if v > 0 {
				return int(v), true
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// lookupDisplay resolves a field through its candidate keys, first match wins.
func lookupDisplay(m map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		if value, ok := displayValue(m[key]); ok {
			return value, true
		}
	}
	return "", false
}

// displayValue renders a JSON value for display. Nil, empty strings, and
// zero numbers report not-present.
func displayValue(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		trimmed := strings.TrimSpace(value)
		return trimmed, trimmed != ""
	case float64:
		if value == 0 {
			return "", false
		}
		if value == math.Trunc(value) {
			return strconv.FormatInt(int64(value), 10), true
		}
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(value), value
	default:
		s := fmt.Sprintf("%v", value)
		return s, s != ""
	}
}
