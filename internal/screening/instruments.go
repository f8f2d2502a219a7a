// Package screening defines the supported screening instruments: their
// question sets, scoring scales, and severity thresholds.
package screening

import "github.com/jmokaya/mindscreen/internal/domain"

// Question is one item of a screening instrument.
type Question struct {
	ID   string
	Text string
}

// Instrument is a fixed ordered questionnaire with its severity bands.
type Instrument struct {
	Tool               domain.ScreeningTool
	Name               string
	Questions          []Question
	SelfHarmQuestionID string
	WordingTag         domain.WordingTag
}

// MaxScore is the highest total the instrument can produce (items * 3).
func (i *Instrument) MaxScore() int {
	return len(i.Questions) * 3
}

// Severity maps a total score to the instrument's severity band using
// inclusive upper bounds.
func (i *Instrument) Severity(total int) domain.Severity {
	switch i.Tool {
	case domain.ToolPHQ9:
		switch {
		case total <= 4:
			return domain.SeverityMinimal
		case total <= 9:
			return domain.SeverityMild
		case total <= 14:
			return domain.SeverityModerate
		case total <= 19:
			return domain.SeverityModeratelySevere
		default:
			return domain.SeveritySevere
		}
	case domain.ToolGAD7:
		switch {
		case total <= 4:
			return domain.SeverityMinimal
		case total <= 9:
			return domain.SeverityMild
		case total <= 14:
			return domain.SeverityModerate
		default:
			return domain.SeveritySevere
		}
	default: // GHQ-12
		switch {
		case total <= 11:
			return domain.SeverityMinimal
		case total <= 15:
			return domain.SeverityMild
		case total <= 20:
			return domain.SeverityModerate
		default:
			return domain.SeveritySevere
		}
	}
}

var phq9 = Instrument{
	Tool:               domain.ToolPHQ9,
	Name:               "PHQ-9",
	SelfHarmQuestionID: "phq9_9",
	WordingTag:         domain.TagPHQ9Screening,
	Questions: []Question{
		{ID: "phq9_1", Text: "Little interest or pleasure in doing things"},
		{ID: "phq9_2", Text: "Feeling down, depressed, or hopeless"},
		{ID: "phq9_3", Text: "Trouble falling or staying asleep, or sleeping too much"},
		{ID: "phq9_4", Text: "Feeling tired or having little energy"},
		{ID: "phq9_5", Text: "Poor appetite or overeating"},
		{ID: "phq9_6", Text: "Feeling bad about yourself — or that you are a failure or have let yourself or your family down"},
		{ID: "phq9_7", Text: "Trouble concentrating on things, such as reading the newspaper or watching television"},
		{ID: "phq9_8", Text: "Moving or speaking so slowly that other people could have noticed. Or the opposite — being so fidgety or restless that you have been moving around a lot more than usual"},
		{ID: "phq9_9", Text: "Thoughts that you would be better off dead, or of hurting yourself"},
	},
}

var gad7 = Instrument{
	Tool:       domain.ToolGAD7,
	Name:       "GAD-7",
	WordingTag: domain.TagGAD7Screening,
	Questions: []Question{
		{ID: "gad7_1", Text: "Feeling nervous, anxious, or on edge"},
		{ID: "gad7_2", Text: "Not being able to stop or control worrying"},
		{ID: "gad7_3", Text: "Worrying too much about different things"},
		{ID: "gad7_4", Text: "Trouble relaxing"},
		{ID: "gad7_5", Text: "Being so restless that it is hard to sit still"},
		{ID: "gad7_6", Text: "Becoming easily annoyed or irritable"},
		{ID: "gad7_7", Text: "Feeling afraid, as if something awful might happen"},
	},
}

var ghq12 = Instrument{
	Tool:       domain.ToolGHQ12,
	Name:       "GHQ-12",
	WordingTag: domain.TagGHQ12Screening,
	Questions: []Question{
		{ID: "ghq12_1", Text: "Been able to concentrate on whatever you're doing"},
		{ID: "ghq12_2", Text: "Lost much sleep over worry"},
		{ID: "ghq12_3", Text: "Felt that you are playing a useful part in things"},
		{ID: "ghq12_4", Text: "Felt capable of making decisions about things"},
		{ID: "ghq12_5", Text: "Felt constantly under strain"},
		{ID: "ghq12_6", Text: "Felt you couldn't overcome your difficulties"},
		{ID: "ghq12_7", Text: "Been able to enjoy your normal day-to-day activities"},
		{ID: "ghq12_8", Text: "Been able to face up to your problems"},
		{ID: "ghq12_9", Text: "Been feeling unhappy and depressed"},
		{ID: "ghq12_10", Text: "Been losing confidence in yourself"},
		{ID: "ghq12_11", Text: "Been thinking of yourself as a worthless person"},
		{ID: "ghq12_12", Text: "Been feeling reasonably happy, all things considered"},
	},
}

var instruments = map[domain.ScreeningTool]*Instrument{
	domain.ToolPHQ9:  &phq9,
	domain.ToolGAD7:  &gad7,
	domain.ToolGHQ12: &ghq12,
}

// ByTool returns the instrument for the given tool, or nil when the
// tool is unset or unknown.
func ByTool(tool domain.ScreeningTool) *Instrument {
	return instruments[tool]
}
