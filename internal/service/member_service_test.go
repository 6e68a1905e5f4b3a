package service

import (
	"testing"
	"time"

	"gymdash/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBMIStatusBands(t *testing.T) {
	assert.Equal(t, "Underweight", bmiStatus(17.0))
	assert.Equal(t, "Normal", bmiStatus(22.0))
	assert.Equal(t, "Overweight", bmiStatus(27.5))
	assert.Equal(t, "Obese", bmiStatus(31.2))
}

func TestGoalProgressPercent(t *testing.T) {
	// Fat loss toward the assumed 8 kg target.
	assert.Equal(t, 50, goalProgressPercent("Fat Loss", 84, 80))
	// Muscle gain toward the assumed 5 kg target, capped at 100.
	assert.Equal(t, 100, goalProgressPercent("Muscle Gain", 70, 80))
	// Moving away from the goal counts as zero, not negative.
	assert.Equal(t, 0, goalProgressPercent("Fat Loss", 80, 84))
	// No samples yet.
	assert.Equal(t, 0, goalProgressPercent("Fat Loss", 0, 0))
	// Unrecognized goal.
	assert.Equal(t, 0, goalProgressPercent("General Fitness", 84, 80))
}

func TestMacrosForGoal(t *testing.T) {
	assert.Equal(t, MacroSplit{Protein: 40, Carbs: 30, Fat: 30}, macrosForGoal("Weight Loss"))
	assert.Equal(t, MacroSplit{Protein: 35, Carbs: 45, Fat: 20}, macrosForGoal("muscle gain"))
	assert.Equal(t, MacroSplit{Protein: 30, Carbs: 45, Fat: 25}, macrosForGoal(""))
}

func TestWeeklyActivity(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) // a Sunday
	entries := []domain.ProgressEntry{
		{Date: time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC)},
		{Date: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}, // outside the window
	}

	days := weeklyActivity(entries, now)

	assert.Len(t, days, 7)
	assert.Equal(t, "Mon", days[0].Label)
	assert.Equal(t, "Sun", days[6].Label)
	assert.True(t, days[6].Active)  // today
	assert.True(t, days[3].Active)  // Thursday the 12th
	assert.False(t, days[0].Active) // Monday the 9th
}

func TestRecentEntriesNewestFirst(t *testing.T) {
	entries := []domain.ProgressEntry{
		{WeightKg: 84}, {WeightKg: 83}, {WeightKg: 82},
	}
	recent := recentEntries(entries, 2)
	assert.Len(t, recent, 2)
	assert.Equal(t, 82.0, recent[0].WeightKg)
	assert.Equal(t, 83.0, recent[1].WeightKg)
}

func TestAchievements(t *testing.T) {
	badges := achievements(8, 3, 22.0)
	assert.Contains(t, badges, "First Step: Logged your progress")
	assert.Contains(t, badges, "Consistency: 7+ progress updates")
	assert.Contains(t, badges, "AI Explorer: Generated workout plan")
	assert.Contains(t, badges, "Healthy BMI Range")
	assert.NotContains(t, badges, "Committed: 30+ progress logs")

	assert.Empty(t, achievements(0, 0, 0))
}
