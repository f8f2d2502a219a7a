package domain

// Phase is the conversation state the session is currently in.
type Phase string

const (
	PhaseGreeting       Phase = "greeting"
	PhaseTriage         Phase = "triage"
	PhaseScreening      Phase = "screening"
	PhaseResults        Phase = "results"
	PhaseCrisisResponse Phase = "crisis_response"
	PhaseUnknown        Phase = "unknown"
)

// Known reports whether the phase is one the state machine handles
// normally. Anything else is routed through the unknown-phase recovery
// path.
func (p Phase) Known() bool {
	switch p {
	case PhaseGreeting, PhaseTriage, PhaseScreening, PhaseResults, PhaseCrisisResponse:
		return true
	}
	return false
}

// ScreeningTool identifies which screening instrument is active.
type ScreeningTool string

const (
	ToolNone  ScreeningTool = ""
	ToolPHQ9  ScreeningTool = "phq9"
	ToolGAD7  ScreeningTool = "gad7"
	ToolGHQ12 ScreeningTool = "ghq12"
)

// CrisisLevel is the safety classifier verdict level.
type CrisisLevel string

const (
	CrisisNone     CrisisLevel = "NONE"
	CrisisWarning  CrisisLevel = "WARNING"
	CrisisCritical CrisisLevel = "CRITICAL"
)

// Severity is the band a total screening score falls into.
type Severity string

const (
	SeverityMinimal          Severity = "minimal"
	SeverityMild             Severity = "mild"
	SeverityModerate         Severity = "moderate"
	SeverityModeratelySevere Severity = "moderately_severe"
	SeveritySevere           Severity = "severe"
)
