package domain

import "time"

// Session holds the full mutable state of one screening conversation.
// All mutation goes through the session store; callers only ever see
// copies.
type Session struct {
	ID             string             `json:"id"`
	UserName       string             `json:"user_name,omitempty"`
	Country        string             `json:"country,omitempty"`
	Phase          Phase              `json:"phase"`
	SelectedTool   ScreeningTool      `json:"selected_tool,omitempty"`
	Responses      []Response         `json:"responses"`
	History        []ConversationTurn `json:"history"`
	CrisisDetected bool               `json:"crisis_detected"`
	Completed      bool               `json:"completed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastActivityAt time.Time          `json:"last_activity_at"`
}

// Response is one scored answer to a screening question.
type Response struct {
	QuestionID string    `json:"question_id"`
	RawText    string    `json:"raw_text"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationTurn is one user/assistant exchange in the transcript.
type ConversationTurn struct {
	UserMessage string    `json:"user_message"`
	AIMessage   string    `json:"ai_message"`
	Phase       Phase     `json:"phase"`
	CreatedAt   time.Time `json:"created_at"`
}

// TotalScore sums the scores recorded so far.
func (s *Session) TotalScore() int {
	total := 0
	for _, r := range s.Responses {
		total += r.Score
	}
	return total
}

// Clone returns a deep copy so store internals never leak to callers.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Responses = make([]Response, len(s.Responses))
	copy(cp.Responses, s.Responses)
	cp.History = make([]ConversationTurn, len(s.History))
	copy(cp.History, s.History)
	return &cp
}

// SessionSummary is the lightweight administrative view of a session.
type SessionSummary struct {
	SessionID         string        `json:"session_id"`
	UserName          string        `json:"user_name,omitempty"`
	Phase             Phase         `json:"current_phase"`
	SelectedTool      ScreeningTool `json:"selected_tool,omitempty"`
	QuestionsAnswered int           `json:"questions_answered"`
	TotalScore        int           `json:"total_score"`
	CrisisDetected    bool          `json:"crisis_detected"`
	Completed         bool          `json:"completed"`
	CreatedAt         time.Time     `json:"created_at"`
	LastActivityAt    time.Time     `json:"last_activity_at"`
}
