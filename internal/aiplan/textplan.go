// internal/aiplan/textplan.go
package aiplan

import (
	"regexp"
	"strconv"
	"strings"
)

// dayMarkerRegex recognizes "Day N:" / "day 12 -" style markers anywhere in
// the text: the literal token "day" (any case), 1-2 digits, then a colon or
// dash separator.
var dayMarkerRegex = regexp.MustCompile(`(?i)day\s*(\d{1,2})\s*[:\-–]\s*`)

// DaySegment is one per-day chunk of free-text plan output. Day 0 is the
// sentinel for "unsegmented": no marker was found and Content holds the
// entire trimmed input.
type DaySegment struct {
	Day     int
	Content string
}

// SegmentByDay splits free-text plan output into ordered per-day chunks.
// Content for marker i is the text between the end of marker i and the start
// of marker i+1 (or end-of-text), trimmed. With no markers it returns the
// single sentinel segment.
func SegmentByDay(text string) []DaySegment {
	matches := dayMarkerRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []DaySegment{{Day: 0, Content: strings.TrimSpace(text)}}
	}

	segments := make([]DaySegment, 0, len(matches))
	for i, match := range matches {
		day, _ := strconv.Atoi(text[match[2]:match[3]])
		start := match[1] // end of this marker
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0] // start of the next marker
		}
		segments = append(segments, DaySegment{
			Day:     day,
			Content: strings.TrimSpace(text[start:end]),
		})
	}
	return segments
}

// dietTokens mark a line as diet-relevant.
var dietTokens = []string{"breakfast", "lunch", "dinner", "snack", "snacks"}

// ExtractDietLines scans the text line by line and keeps trimmed non-empty
// lines mentioning a meal keyword, in original order.
func ExtractDietLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, token := range dietTokens {
			if strings.Contains(lower, token) {
				lines = append(lines, trimmed)
				break
			}
		}
	}
	return lines
}
