// Package safety implements deterministic crisis detection over free
// text: a general classifier for crisis trigger phrases and a
// specialized classifier for the suicidal-ideation screening item.
package safety

import (
	"regexp"
	"strings"

	"github.com/jmokaya/mindscreen/internal/domain"
)

// DefaultNegationMaxLen is the length bound under which a clear
// negative answer to the ideation item overrides any positive pattern.
// The bound is a heuristic carried over from the source system, not a
// clinical rule, so it stays configurable.
const DefaultNegationMaxLen = 20

// Verdict is the outcome of classifying one piece of text. Message is
// the classifier's own concern statement; the full crisis response with
// emergency contacts is assembled elsewhere.
type Verdict struct {
	Level            domain.CrisisLevel
	Triggered        []string
	Message          string
	RequiresOverride bool
}

const criticalMessage = "What you've shared raises serious concern for your safety."

const warningMessage = "What you've shared suggests things have been difficult lately."

var defaultCriticalTriggers = []string{
	"suicide", "suicidal", "kill myself", "end my life",
	"self-harm", "hurt myself", "cut myself", "harm myself",
	"want to die", "better off dead", "no point living",
	"hurt others", "kill someone", "harm others", "end it all",
	"take my own life", "not worth living", "kill them",
}

var defaultWarningIndicators = []string{
	"hopeless", "worthless", "trapped", "burden",
	"desperate", "overwhelmed", "can't cope", "give up",
	"no way out", "pointless", "useless", "hate myself",
}

var ideationPositivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(yes|sometimes|often|nearly every day|several days)\b`),
	regexp.MustCompile(`\b(more than half|have thought|been thinking)\b`),
	regexp.MustCompile(`\b(crossed my mind|considered|considering|thinking about)\b`),
	regexp.MustCompile(`\b(thoughts? of|idea of|wanting to)\b.*\b(die|death|harm)\b`),
}

var ideationNegativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(no|never|not at all|haven't|don't)\b`),
	regexp.MustCompile(`\b(absolutely not|definitely not|of course not)\b`),
}

// Monitor classifies text against fixed trigger lists. It holds no
// mutable state after construction and is safe for concurrent use.
type Monitor struct {
	criticalTriggers  []string
	warningIndicators []string
	negationMaxLen    int
}

// Option customizes a Monitor at construction time.
type Option func(*Monitor)

// WithExtraTriggers appends deployment-specific critical trigger words.
func WithExtraTriggers(words []string) Option {
	return func(m *Monitor) {
		m.criticalTriggers = append(m.criticalTriggers, words...)
	}
}

// WithExtraWarnings appends deployment-specific warning indicators.
func WithExtraWarnings(words []string) Option {
	return func(m *Monitor) {
		m.warningIndicators = append(m.warningIndicators, words...)
	}
}

// WithNegationMaxLen overrides the short-answer bound for the ideation
// classifier's negation override.
func WithNegationMaxLen(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.negationMaxLen = n
		}
	}
}

// NewMonitor builds a Monitor with the default trigger lists.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		criticalTriggers:  append([]string(nil), defaultCriticalTriggers...),
		warningIndicators: append([]string(nil), defaultWarningIndicators...),
		negationMaxLen:    DefaultNegationMaxLen,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Classify maps text to a crisis verdict. Critical triggers always win:
// any critical match yields CRITICAL with RequiresOverride set,
// collecting every matched trigger in list order. Otherwise any warning
// indicator yields WARNING. Empty or unmatched text yields NONE. The
// function is pure; identical input always produces an identical
// verdict.
func (m *Monitor) Classify(text string) Verdict {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Verdict{Level: domain.CrisisNone}
	}

	var critical []string
	for _, trigger := range m.criticalTriggers {
		if strings.Contains(normalized, strings.ToLower(trigger)) {
			critical = append(critical, trigger)
		}
	}
	if len(critical) > 0 {
		return Verdict{
			Level:            domain.CrisisCritical,
			Triggered:        critical,
			Message:          criticalMessage,
			RequiresOverride: true,
		}
	}

	var warnings []string
	for _, indicator := range m.warningIndicators {
		if strings.Contains(normalized, strings.ToLower(indicator)) {
			warnings = append(warnings, indicator)
		}
	}
	if len(warnings) > 0 {
		return Verdict{Level: domain.CrisisWarning, Triggered: warnings, Message: warningMessage}
	}

	return Verdict{Level: domain.CrisisNone}
}

// ClassifyIdeationAnswer decides whether an answer to the
// suicidal-ideation screening item reads as positive. A clear negative
// ("no", "never", "not at all", ...) on a short answer returns false
// immediately; otherwise any positive pattern (frequency words,
// "been thinking", "crossed my mind", thoughts-of-death phrasing)
// returns true. Ambiguous or empty text defaults to false.
func (m *Monitor) ClassifyIdeationAnswer(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return false
	}

	for _, pattern := range ideationNegativePatterns {
		if pattern.MatchString(normalized) && len(normalized) < m.negationMaxLen {
			return false
		}
	}

	for _, pattern := range ideationPositivePatterns {
		if pattern.MatchString(normalized) {
			return true
		}
	}

	return false
}
