// Package llm holds the collaborator boundary: prompt construction,
// response parsing, and the deterministic local fallback used whenever
// the external service is unavailable or returns something unusable.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmokaya/mindscreen/internal/domain"
)

// scoreBuckets maps answer keywords to the 0-3 frequency scale, checked
// in order so the strongest frequency wins.
var scoreBuckets = []struct {
	score    int
	keywords []string
}{
	{3, []string{"always", "constantly", "every day"}},
	{2, []string{"often", "frequently", "most days"}},
	{1, []string{"sometimes", "occasionally", "few times"}},
	{0, []string{"never", "not at all", "rarely"}},
}

var fallbackWordings = map[domain.WordingTag]string{
	domain.TagGreeting:        "Hello, and welcome. This is a confidential space to check in on how you've been feeling. Could you tell me your name?",
	domain.TagBackgroundCheck: "Before we begin, could you share your name so I can address you properly?",
	domain.TagTriage:          "Thank you. What has been troubling you most lately, in your own words?",
	domain.TagPHQ9Screening:   "Over the last 2 weeks, how often have you been bothered by the following? %s",
	domain.TagGAD7Screening:   "Over the last 2 weeks, how often have you been bothered by the following? %s",
	domain.TagGHQ12Screening:  "Over the last few weeks, have you: %s",
	domain.TagResults:         "Thank you for completing the screening. Your total score is %d, which falls in the %s range. This is a screening signal, not a diagnosis. If these feelings persist, please consider speaking with a mental-health professional.",
}

// Fallback is the always-available local collaborator. Scoring uses
// fixed keyword buckets and wording uses canned templates, so behavior
// is deterministic and needs no network.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) IsConfigured() bool { return true }

// ScoreAnswer maps an answer to 0-3 by keyword bucket. Text matching no
// bucket scores 1, the conservative default for an ambiguous answer.
func (f *Fallback) ScoreAnswer(_ context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	lower := strings.ToLower(req.Answer)
	for _, bucket := range scoreBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return &domain.ScoreResult{
					Score:     bucket.score,
					Rationale: fmt.Sprintf("matched %q", kw),
				}, nil
			}
		}
	}
	return &domain.ScoreResult{Score: 1, Rationale: "no frequency keyword matched"}, nil
}

// GenerateWording returns the canned text for the context tag.
func (f *Fallback) GenerateWording(_ context.Context, req domain.WordingRequest) (string, error) {
	template, ok := fallbackWordings[req.Tag]
	if !ok {
		return "I'm here with you. How can I help?", nil
	}

	var text string
	switch req.Tag {
	case domain.TagPHQ9Screening, domain.TagGAD7Screening, domain.TagGHQ12Screening:
		text = fmt.Sprintf(template, req.QuestionText)
	case domain.TagResults:
		text = fmt.Sprintf(template, req.TotalScore, string(req.Severity))
	default:
		text = template
	}

	if req.UserName != "" && req.Tag == domain.TagTriage {
		text = fmt.Sprintf("Thank you, %s. What has been troubling you most lately, in your own words?", req.UserName)
	}
	return text, nil
}
