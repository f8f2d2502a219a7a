package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jmokaya/mindscreen/internal/domain"
	"github.com/jmokaya/mindscreen/internal/flow"
	"github.com/jmokaya/mindscreen/internal/safety"
	"github.com/jmokaya/mindscreen/internal/session"
)

// ConversationService orchestrates one screening conversation turn:
// session lookup, safety classification, the phase state machine, the
// external wording/scoring collaborator, and the atomic write-back.
type ConversationService struct {
	store        *session.Store
	monitor      *safety.Monitor
	machine      *flow.Machine
	collaborator domain.Collaborator
	fallback     domain.Collaborator
	crisis       domain.CrisisMessenger
	llmTimeout   time.Duration
	now          func() time.Time
}

// NewConversationService wires the orchestrator. collaborator may be
// the fallback itself when no external provider is configured.
func NewConversationService(
	store *session.Store,
	monitor *safety.Monitor,
	collaborator domain.Collaborator,
	fallback domain.Collaborator,
	crisis domain.CrisisMessenger,
	llmTimeout time.Duration,
) *ConversationService {
	if llmTimeout <= 0 {
		llmTimeout = 20 * time.Second
	}
	return &ConversationService{
		store:        store,
		monitor:      monitor,
		machine:      flow.NewMachine(),
		collaborator: collaborator,
		fallback:     fallback,
		crisis:       crisis,
		llmTimeout:   llmTimeout,
		now:          time.Now,
	}
}

// StartSession creates a session in the greeting phase and returns its
// id with the opening prompt.
func (s *ConversationService) StartSession(ctx context.Context, userName, country string) (string, string, error) {
	sess, err := s.store.Create(userName, country)
	if err != nil {
		return "", "", err
	}

	greeting := s.wording(ctx, domain.WordingRequest{
		Tag:      domain.TagGreeting,
		UserName: userName,
	})

	if err := s.store.AppendConversation(sess.ID, "", greeting, sess.Phase); err != nil {
		return "", "", err
	}

	log.Info().Str("session_id", sess.ID).Msg("session started")
	return sess.ID, greeting, nil
}

// ProcessMessage runs one conversation turn. The session is read once,
// all external calls happen against that snapshot without holding any
// lock, and the resulting side-effect bundle is committed atomically.
// A cancelled context commits nothing.
func (s *ConversationService) ProcessMessage(ctx context.Context, sessionID, text string) (*domain.MessageResult, error) {
	snapshot, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	verdict := s.monitor.Classify(text)

	// Resolve the answer score before stepping so the machine stays
	// pure and no session lock spans the collaborator call.
	var (
		score            *domain.ScoreResult
		ideationPositive bool
	)
	if verdict.Level != domain.CrisisCritical && strings.TrimSpace(text) != "" {
		if question, inst, ok := s.machine.PendingQuestion(snapshot); ok {
			score = s.scoreAnswer(ctx, domain.ScoreRequest{
				Answer:       text,
				QuestionText: question.Text,
				Tool:         inst.Tool,
			})
			if question.ID == inst.SelfHarmQuestionID {
				ideationPositive = s.monitor.ClassifyIdeationAnswer(text)
			}
		}
	}

	transition := s.machine.Step(snapshot, text, verdict, score, ideationPositive)

	var aiText string
	if transition.UseCrisisMessage {
		aiText = s.crisis.CrisisMessage(snapshot.Country)
	} else {
		aiText = s.wording(ctx, transition.Wording)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	committed, err := s.store.Apply(sessionID, func(cur *domain.Session) error {
		// The transition was computed from the snapshot. If another
		// turn advanced the session in the meantime, committing would
		// double-record its answer, so the losing turn is abandoned.
		if cur.Phase != snapshot.Phase || len(cur.Responses) != len(snapshot.Responses) {
			return domain.ErrConcurrentTurn
		}
		cur.Phase = transition.NextPhase
		if transition.SetUserName != "" && cur.UserName == "" {
			cur.UserName = transition.SetUserName
		}
		if transition.SetTool != domain.ToolNone && cur.SelectedTool == domain.ToolNone {
			cur.SelectedTool = transition.SetTool
		}
		if transition.AppendResponse != nil {
			r := *transition.AppendResponse
			r.CreatedAt = s.now()
			cur.Responses = append(cur.Responses, r)
		}
		if transition.SetCrisis {
			cur.CrisisDetected = true
		}
		if transition.SetCompleted {
			cur.Completed = true
		}
		cur.History = append(cur.History, domain.ConversationTurn{
			UserMessage: text,
			AIMessage:   aiText,
			Phase:       transition.NextPhase,
			CreatedAt:   s.now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &domain.MessageResult{
		AIText:         aiText,
		Phase:          committed.Phase,
		CrisisDetected: committed.CrisisDetected,
		SelectedTool:   committed.SelectedTool,
		QuestionNumber: transition.QuestionNumber,
		TotalScore:     transition.TotalScore,
		Severity:       transition.Severity,
		Completed:      transition.Completed,
	}
	if committed.CrisisDetected {
		result.CrisisLevel = domain.CrisisCritical
	}
	if verdict.Level == domain.CrisisWarning && !committed.CrisisDetected {
		result.Advisory = s.crisis.WarningMessage()
	}

	if transition.SetCrisis {
		log.Warn().
			Str("session_id", sessionID).
			Strs("triggers", verdict.Triggered).
			Msg("crisis response activated")
	}

	return result, nil
}

// GetSummary returns the administrative view of a session.
func (s *ConversationService) GetSummary(sessionID string) (*domain.SessionSummary, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	return &domain.SessionSummary{
		SessionID:         sess.ID,
		UserName:          sess.UserName,
		Phase:             sess.Phase,
		SelectedTool:      sess.SelectedTool,
		QuestionsAnswered: len(sess.Responses),
		TotalScore:        sess.TotalScore(),
		CrisisDetected:    sess.CrisisDetected,
		Completed:         sess.Completed,
		CreatedAt:         sess.CreatedAt,
		LastActivityAt:    sess.LastActivityAt,
	}, nil
}

// GetHistory returns the ordered transcript.
func (s *ConversationService) GetHistory(sessionID string) ([]domain.ConversationTurn, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.History, nil
}

// DeleteSession removes the session and all its data.
func (s *ConversationService) DeleteSession(sessionID string) error {
	return s.store.Delete(sessionID)
}

// ResetSession is the administrative escape hatch: it clears crisis and
// screening state back to the greeting phase. This is the only way out
// of the crisis phase.
func (s *ConversationService) ResetSession(sessionID string) error {
	_, err := s.store.Apply(sessionID, func(cur *domain.Session) error {
		cur.Phase = domain.PhaseGreeting
		cur.SelectedTool = domain.ToolNone
		cur.Responses = nil
		cur.CrisisDetected = false
		cur.Completed = false
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Str("session_id", sessionID).Msg("session reset")
	return nil
}

// Shutdown clears all sessions and stops the background reaper.
func (s *ConversationService) Shutdown() {
	s.store.Shutdown()
}

// scoreAnswer resolves a score through the collaborator, falling back
// to the local scorer on any failure. The fallback scorer cannot fail.
func (s *ConversationService) scoreAnswer(ctx context.Context, req domain.ScoreRequest) *domain.ScoreResult {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	if s.collaborator != nil && s.collaborator.IsConfigured() {
		result, err := s.collaborator.ScoreAnswer(callCtx, req)
		if err == nil && result != nil {
			return result
		}
		log.Error().Err(err).Str("provider", s.collaborator.Name()).Msg("collaborator scoring failed, using fallback")
	}

	result, _ := s.fallback.ScoreAnswer(ctx, req)
	return result
}

// wording resolves the turn's text through the collaborator, falling
// back to the canned wording on any failure.
func (s *ConversationService) wording(ctx context.Context, req domain.WordingRequest) string {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	if s.collaborator != nil && s.collaborator.IsConfigured() {
		text, err := s.collaborator.GenerateWording(callCtx, req)
		if err == nil && text != "" {
			return text
		}
		log.Error().Err(err).Str("provider", s.collaborator.Name()).Msg("collaborator wording failed, using fallback")
	}

	text, _ := s.fallback.GenerateWording(ctx, req)
	return text
}
