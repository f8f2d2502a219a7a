package domain

import "context"

// MessageResult is the fixed structure returned for every processed
// message. Optional fields are pointers or omitempty values so each
// outcome kind carries exactly the fields that apply: CrisisLevel is
// present only when CrisisDetected, score/severity only once results
// are computed.
type MessageResult struct {
	AIText         string        `json:"ai_response"`
	Phase          Phase         `json:"current_phase"`
	CrisisDetected bool          `json:"crisis_detected"`
	CrisisLevel    CrisisLevel   `json:"crisis_level,omitempty"`
	Advisory       string        `json:"advisory,omitempty"`
	SelectedTool   ScreeningTool `json:"selected_tool,omitempty"`
	QuestionNumber int           `json:"question_number,omitempty"`
	TotalScore     *int          `json:"total_score,omitempty"`
	Severity       Severity      `json:"severity_level,omitempty"`
	Completed      bool          `json:"completed,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// WordingTag names the conversational context the collaborator should
// phrase a prompt for. Tags drive wording only, never state transitions.
type WordingTag string

const (
	TagGreeting        WordingTag = "greeting"
	TagBackgroundCheck WordingTag = "background_check"
	TagTriage          WordingTag = "triage"
	TagPHQ9Screening   WordingTag = "phq9_screening"
	TagGAD7Screening   WordingTag = "gad7_screening"
	TagGHQ12Screening  WordingTag = "ghq12_screening"
	TagResults         WordingTag = "results_explanation"
	TagCrisisResponse  WordingTag = "crisis_response"
)

// WordingRequest asks the collaborator to phrase the next prompt.
type WordingRequest struct {
	Tag            WordingTag
	UserMessage    string
	UserName       string
	QuestionText   string
	QuestionNumber int
	TotalScore     int
	Severity       Severity
	Tool           ScreeningTool
}

// ScoreRequest asks the collaborator to map a free-text answer onto the
// 0-3 screening scale.
type ScoreRequest struct {
	Answer       string
	QuestionText string
	Tool         ScreeningTool
}

// ScoreResult is the collaborator's scoring of a single answer.
type ScoreResult struct {
	Score     int
	Rationale string
}

// Collaborator is the outbound boundary to the external
// text-generation/scoring service. Either call may fail; callers must
// fall back to the local deterministic implementations.
type Collaborator interface {
	Name() string
	IsConfigured() bool
	GenerateWording(ctx context.Context, req WordingRequest) (string, error)
	ScoreAnswer(ctx context.Context, req ScoreRequest) (*ScoreResult, error)
}

// CrisisMessenger supplies crisis and warning text from the
// emergency-resource configuration. CrisisMessage must always return
// non-empty text, configured or not.
type CrisisMessenger interface {
	CrisisMessage(countryHint string) string
	WarningMessage() string
}
