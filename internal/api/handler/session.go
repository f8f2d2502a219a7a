package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jmokaya/mindscreen/internal/api/response"
	"github.com/jmokaya/mindscreen/internal/domain"
	"github.com/jmokaya/mindscreen/internal/service"
)

var validate = validator.New()

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	conversationService *service.ConversationService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(conversationService *service.ConversationService) *SessionHandler {
	return &SessionHandler{conversationService: conversationService}
}

// CreateSessionRequest is the payload for starting a conversation.
type CreateSessionRequest struct {
	UserName string `json:"user_name" validate:"omitempty,max=100"`
	Country  string `json:"country" validate:"omitempty,max=56"`
}

// Create starts a new screening session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	sessionID, greeting, err := h.conversationService.StartSession(r.Context(), req.UserName, req.Country)
	if err != nil {
		response.InternalError(w, "failed to start session")
		return
	}

	response.Created(w, map[string]any{
		"session_id":  sessionID,
		"ai_response": greeting,
	})
}

// Get returns the session summary
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, err := h.conversationService.GetSummary(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "failed to load session")
		return
	}

	response.OK(w, summary)
}

// History returns the ordered conversation transcript
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	history, err := h.conversationService.GetHistory(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "failed to load history")
		return
	}

	response.OK(w, map[string]any{
		"session_id": sessionID,
		"history":    history,
	})
}

// Delete removes the session and all its data
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.conversationService.DeleteSession(sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "failed to delete session")
		return
	}

	response.NoContent(w)
}

// Reset clears the session back to the greeting phase
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.conversationService.ResetSession(sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "failed to reset session")
		return
	}

	summary, err := h.conversationService.GetSummary(sessionID)
	if err != nil {
		response.InternalError(w, "failed to load session")
		return
	}

	response.OK(w, summary)
}
