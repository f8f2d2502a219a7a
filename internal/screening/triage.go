package screening

import (
	"strings"

	"github.com/jmokaya/mindscreen/internal/domain"
)

// Keyword sets used to pick an instrument from the user's stated
// primary concern.
var (
	depressionKeywords = []string{"sad", "depressed", "depression", "down", "hopeless", "empty", "worthless"}
	anxietyKeywords    = []string{"anxious", "anxiety", "worried", "worry", "nervous", "panic", "fear"}
)

// SelectTool picks the screening instrument for a triage answer by
// counting case-insensitive keyword matches. Strictly more depression
// matches selects PHQ-9, strictly more anxiety matches selects GAD-7,
// and a tie (including zero/zero) falls back to the general-purpose
// GHQ-12.
func SelectTool(message string) domain.ScreeningTool {
	lower := strings.ToLower(message)

	depression := 0
	for _, kw := range depressionKeywords {
		if strings.Contains(lower, kw) {
			depression++
		}
	}
	anxiety := 0
	for _, kw := range anxietyKeywords {
		if strings.Contains(lower, kw) {
			anxiety++
		}
	}

	switch {
	case depression > anxiety:
		return domain.ToolPHQ9
	case anxiety > depression:
		return domain.ToolGAD7
	default:
		return domain.ToolGHQ12
	}
}
