package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmokaya/mindscreen/internal/domain"
)

// BuildWordingPrompt creates the prompt asking the model to phrase the
// next conversational turn for the given context.
func BuildWordingPrompt(req domain.WordingRequest) string {
	var sb strings.Builder

	sb.WriteString(`You are a warm, professional mental-health screening assistant.
You never diagnose, you never give medical advice, and you keep responses
to two or three short sentences.

`)
	if req.UserName != "" {
		fmt.Fprintf(&sb, "The user's name is %s.\n", req.UserName)
	}
	if req.UserMessage != "" {
		fmt.Fprintf(&sb, "The user just said: %q\n", req.UserMessage)
	}

	switch req.Tag {
	case domain.TagGreeting:
		sb.WriteString("Greet the user, explain this is a confidential screening conversation, and ask for their name.")
	case domain.TagBackgroundCheck:
		sb.WriteString("Gently ask the user for their name so you can address them personally.")
	case domain.TagTriage:
		sb.WriteString("Thank the user and ask what has been troubling them most lately, in their own words.")
	case domain.TagPHQ9Screening, domain.TagGAD7Screening, domain.TagGHQ12Screening:
		fmt.Fprintf(&sb, `Acknowledge the user's last answer briefly, then ask screening question %d.
Over the last 2 weeks, how often have they been bothered by the following:
%q
Ask it conversationally without changing its meaning.`, req.QuestionNumber, req.QuestionText)
	case domain.TagResults:
		fmt.Fprintf(&sb, `The screening is complete. The total score is %d, which falls in the %q band.
Explain this gently, stress that it is a screening signal and not a diagnosis,
and encourage speaking with a professional.`, req.TotalScore, string(req.Severity))
	default:
		sb.WriteString("Respond supportively and ask how you can help.")
	}

	return sb.String()
}

// BuildScorePrompt creates the prompt asking the model to map a
// free-text answer onto the instrument's 0-3 frequency scale.
func BuildScorePrompt(req domain.ScoreRequest) string {
	return fmt.Sprintf(`You are scoring one answer from a standardized mental-health screening.

Question: %q
Answer: %q

Map the answer to the 0-3 frequency scale:
0 = not at all
1 = several days
2 = more than half the days
3 = nearly every day

Respond in exactly this format:
SCORE: <0-3>
EXPLANATION: <one short sentence>`, req.QuestionText, req.Answer)
}

// ParseScoreResponse extracts the SCORE/EXPLANATION pair from model
// output. Missing or out-of-range scores are an error so the caller
// falls back to the local scorer.
func ParseScoreResponse(content string) (*domain.ScoreResult, error) {
	var (
		score     = -1
		rationale string
	)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(strings.ToUpper(line), "SCORE:"):
			raw := strings.TrimSpace(line[len("SCORE:"):])
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("unparsable score %q: %w", raw, err)
			}
			score = n
		case strings.HasPrefix(strings.ToUpper(line), "EXPLANATION:"):
			rationale = strings.TrimSpace(line[len("EXPLANATION:"):])
		}
	}

	if score < 0 || score > 3 {
		return nil, fmt.Errorf("score missing or out of range in response %q", content)
	}

	return &domain.ScoreResult{Score: score, Rationale: rationale}, nil
}
