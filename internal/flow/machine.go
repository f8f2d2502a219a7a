// Package flow implements the conversation phase state machine. Step is
// a pure function from current session state and classifier verdicts to
// a side-effect bundle; it never touches the store, the collaborator,
// or the clock, so the orchestrator can run it under a session lock
// without blocking on anything.
package flow

import (
	"strings"

	"github.com/jmokaya/mindscreen/internal/domain"
	"github.com/jmokaya/mindscreen/internal/safety"
	"github.com/jmokaya/mindscreen/internal/screening"
)

// Transition is the side-effect bundle one input produces. The
// orchestrator applies the mutation fields atomically, resolves wording
// from either the collaborator or the crisis messenger, and copies the
// presentation fields into the message result.
type Transition struct {
	NextPhase domain.Phase

	// Session mutations. Zero values mean "leave unchanged".
	SetUserName    string
	SetTool        domain.ScreeningTool
	AppendResponse *domain.Response
	SetCrisis      bool
	SetCompleted   bool

	// Wording is the request handed to the collaborator. When
	// UseCrisisMessage is set the collaborator is bypassed and the
	// emergency-resource message is used verbatim.
	Wording          domain.WordingRequest
	UseCrisisMessage bool

	// Presentation fields for the message result.
	CrisisLevel    domain.CrisisLevel
	QuestionNumber int
	TotalScore     *int
	Severity       domain.Severity
	Completed      bool
}

// Machine sequences greeting, triage, screening, and results, and
// routes any critical safety verdict into the absorbing crisis phase.
type Machine struct{}

func NewMachine() *Machine {
	return &Machine{}
}

// PendingQuestion returns the next unanswered question of the session's
// instrument, or false when the session is not mid-screening. The
// orchestrator uses it to resolve a score before calling Step.
func (m *Machine) PendingQuestion(sess *domain.Session) (screening.Question, *screening.Instrument, bool) {
	if sess.Phase != domain.PhaseScreening {
		return screening.Question{}, nil, false
	}
	inst := screening.ByTool(sess.SelectedTool)
	if inst == nil {
		return screening.Question{}, nil, false
	}
	answered := len(sess.Responses)
	if answered >= len(inst.Questions) {
		return screening.Question{}, nil, false
	}
	return inst.Questions[answered], inst, true
}

// Step computes the transition for one input. verdict is the safety
// classification of the raw input. score is the resolved 0-3 score for
// the pending screening question (nil outside a scorable screening
// turn), and ideationPositive is the ideation classifier's reading of
// the same answer when the pending question is the instrument's
// self-harm item.
//
// Precedence is fixed: a CRITICAL verdict pre-empts every phase,
// including RESULTS; a WARNING verdict never changes the transition
// (the orchestrator attaches the advisory). An unrecognized phase
// recovers to GREETING.
func (m *Machine) Step(sess *domain.Session, input string, verdict safety.Verdict, score *domain.ScoreResult, ideationPositive bool) Transition {
	if verdict.Level == domain.CrisisCritical {
		return m.crisisTransition(sess)
	}

	switch sess.Phase {
	case domain.PhaseGreeting:
		return m.stepGreeting(sess, input)
	case domain.PhaseTriage:
		return m.stepTriage(sess, input)
	case domain.PhaseScreening:
		return m.stepScreening(sess, input, score, ideationPositive)
	case domain.PhaseResults:
		return m.stepResults(sess)
	case domain.PhaseCrisisResponse:
		// Absorbing: every input re-presents the crisis resources.
		return m.crisisTransition(sess)
	default:
		return Transition{
			NextPhase: domain.PhaseGreeting,
			Wording: domain.WordingRequest{
				Tag:      domain.TagGreeting,
				UserName: sess.UserName,
			},
		}
	}
}

func (m *Machine) crisisTransition(sess *domain.Session) Transition {
	return Transition{
		NextPhase:        domain.PhaseCrisisResponse,
		SetCrisis:        true,
		UseCrisisMessage: true,
		Wording:          domain.WordingRequest{Tag: domain.TagCrisisResponse, UserName: sess.UserName},
		CrisisLevel:      domain.CrisisCritical,
	}
}

// stepGreeting captures the first whitespace-delimited token as the
// user's name and moves to triage. Without a name to extract the phase
// holds and the prompt is asked again.
func (m *Machine) stepGreeting(sess *domain.Session, input string) Transition {
	name := sess.UserName
	setName := ""
	if name == "" {
		fields := strings.Fields(input)
		if len(fields) == 0 {
			return Transition{
				NextPhase: domain.PhaseGreeting,
				Wording:   domain.WordingRequest{Tag: domain.TagBackgroundCheck},
			}
		}
		name = fields[0]
		setName = name
	}

	return Transition{
		NextPhase:   domain.PhaseTriage,
		SetUserName: setName,
		Wording: domain.WordingRequest{
			Tag:         domain.TagTriage,
			UserName:    name,
			UserMessage: input,
		},
	}
}

// stepTriage selects the instrument from the stated concern and
// presents its first question.
func (m *Machine) stepTriage(sess *domain.Session, input string) Transition {
	tool := screening.SelectTool(input)
	inst := screening.ByTool(tool)

	return Transition{
		NextPhase:      domain.PhaseScreening,
		SetTool:        tool,
		QuestionNumber: 1,
		Wording: domain.WordingRequest{
			Tag:            inst.WordingTag,
			UserName:       sess.UserName,
			UserMessage:    input,
			QuestionText:   inst.Questions[0].Text,
			QuestionNumber: 1,
			Tool:           tool,
		},
	}
}

func (m *Machine) stepScreening(sess *domain.Session, input string, score *domain.ScoreResult, ideationPositive bool) Transition {
	inst := screening.ByTool(sess.SelectedTool)
	if inst == nil {
		// Screening without an instrument is unreachable through normal
		// flow; recover the same way as an unknown phase.
		return Transition{
			NextPhase: domain.PhaseGreeting,
			Wording:   domain.WordingRequest{Tag: domain.TagGreeting, UserName: sess.UserName},
		}
	}

	answered := len(sess.Responses)
	if answered >= len(inst.Questions) {
		return m.completeScreening(sess, inst, nil)
	}
	question := inst.Questions[answered]

	// Blank input is an acknowledgment, not an answer. The pending
	// question is presented again without recording anything.
	if strings.TrimSpace(input) == "" || score == nil {
		return Transition{
			NextPhase:      domain.PhaseScreening,
			QuestionNumber: answered + 1,
			Wording: domain.WordingRequest{
				Tag:            inst.WordingTag,
				UserName:       sess.UserName,
				QuestionText:   question.Text,
				QuestionNumber: answered + 1,
				Tool:           inst.Tool,
			},
		}
	}

	response := &domain.Response{
		QuestionID: question.ID,
		RawText:    input,
		Score:      clampScore(score.Score),
	}

	// The self-harm item short-circuits into the crisis phase on any
	// positive signal. The response is still recorded so the score is
	// preserved for review; a positive ideation reading never records
	// less than 1.
	if question.ID == inst.SelfHarmQuestionID && (response.Score > 0 || ideationPositive) {
		if ideationPositive && response.Score < 1 {
			response.Score = 1
		}
		t := m.crisisTransition(sess)
		t.AppendResponse = response
		return t
	}

	if answered+1 < len(inst.Questions) {
		next := inst.Questions[answered+1]
		return Transition{
			NextPhase:      domain.PhaseScreening,
			AppendResponse: response,
			QuestionNumber: answered + 2,
			Wording: domain.WordingRequest{
				Tag:            inst.WordingTag,
				UserName:       sess.UserName,
				UserMessage:    input,
				QuestionText:   next.Text,
				QuestionNumber: answered + 2,
				Tool:           inst.Tool,
			},
		}
	}

	return m.completeScreening(sess, inst, response)
}

// completeScreening totals the recorded scores (plus the final response
// when it is being appended in the same turn), maps the total to a
// severity band, and marks the session complete.
func (m *Machine) completeScreening(sess *domain.Session, inst *screening.Instrument, final *domain.Response) Transition {
	total := sess.TotalScore()
	if final != nil {
		total += final.Score
	}
	severity := inst.Severity(total)

	return Transition{
		NextPhase:      domain.PhaseResults,
		AppendResponse: final,
		SetCompleted:   true,
		TotalScore:     &total,
		Severity:       severity,
		Completed:      true,
		Wording: domain.WordingRequest{
			Tag:        domain.TagResults,
			UserName:   sess.UserName,
			TotalScore: total,
			Severity:   severity,
			Tool:       inst.Tool,
		},
	}
}

// stepResults handles follow-up input after results were delivered.
// Nothing is re-scored; the session stays complete.
func (m *Machine) stepResults(sess *domain.Session) Transition {
	total := sess.TotalScore()
	var severity domain.Severity
	if inst := screening.ByTool(sess.SelectedTool); inst != nil {
		severity = inst.Severity(total)
	}

	return Transition{
		NextPhase:  domain.PhaseResults,
		TotalScore: &total,
		Severity:   severity,
		Completed:  true,
		Wording: domain.WordingRequest{
			Tag:        domain.TagResults,
			UserName:   sess.UserName,
			TotalScore: total,
			Severity:   severity,
			Tool:       sess.SelectedTool,
		},
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 3 {
		return 3
	}
	return n
}
