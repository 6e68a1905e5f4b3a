package aiplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentByDay(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []DaySegment
	}{
		{
			name: "two colon markers",
			text: "Day 1: a\nDay 2: b",
			want: []DaySegment{{Day: 1, Content: "a"}, {Day: 2, Content: "b"}},
		},
		{
			name: "dash separator and mixed case",
			text: "DAY 3 - push day\nday 4- pull day",
			want: []DaySegment{{Day: 3, Content: "push day"}, {Day: 4, Content: "pull day"}},
		},
		{
			name: "marker mid-line",
			text: "Intro text Day 1: squats and rows",
			want: []DaySegment{{Day: 1, Content: "squats and rows"}},
		},
		{
			name: "no markers yields sentinel",
			text: "  just some plan text  ",
			want: []DaySegment{{Day: 0, Content: "just some plan text"}},
		},
		{
			name: "empty input yields empty sentinel",
			text: "",
			want: []DaySegment{{Day: 0, Content: ""}},
		},
		{
			name: "two digit day numbers",
			text: "Day 10: a\nDay 11: b",
			want: []DaySegment{{Day: 10, Content: "a"}, {Day: 11, Content: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentByDay(tt.text))
		})
	}
}

func TestSegmentByDayContentBoundaries(t *testing.T) {
	text := "Day 1: morning run\nsome details here\nDay 2: lifting\nfinal notes"
	segments := SegmentByDay(text)

	require.Len(t, segments, 2)
	assert.Equal(t, "morning run\nsome details here", segments[0].Content)
	assert.Equal(t, "lifting\nfinal notes", segments[1].Content)
}

func TestExtractDietLines(t *testing.T) {
	text := "Breakfast: eggs\nRandom note\n\n  Dinner: chicken  \nDo 3 sets of squats"
	lines := ExtractDietLines(text)

	assert.Equal(t, []string{"Breakfast: eggs", "Dinner: chicken"}, lines)
}

func TestExtractDietLinesCaseInsensitiveTokens(t *testing.T) {
	text := "Post-workout SNACK: banana\nhave lunch at noon\nstretching"
	lines := ExtractDietLines(text)

	assert.Equal(t, []string{"Post-workout SNACK: banana", "have lunch at noon"}, lines)
}

func TestExtractDietLinesNoneFound(t *testing.T) {
	assert.Empty(t, ExtractDietLines("squats\nrows\nplanks"))
}
