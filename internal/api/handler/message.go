package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmokaya/mindscreen/internal/api/response"
	"github.com/jmokaya/mindscreen/internal/domain"
	"github.com/jmokaya/mindscreen/internal/service"
)

// MessageHandler handles conversation turn endpoints
type MessageHandler struct {
	conversationService *service.ConversationService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(conversationService *service.ConversationService) *MessageHandler {
	return &MessageHandler{conversationService: conversationService}
}

// MessageRequest is one user turn. An empty message is valid: during
// screening it re-presents the pending question.
type MessageRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

// Send processes one conversation turn
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	result, err := h.conversationService.ProcessMessage(r.Context(), sessionID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, domain.ErrConcurrentTurn) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "failed to process message")
		return
	}

	response.OK(w, result)
}
