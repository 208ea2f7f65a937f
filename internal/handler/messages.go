package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/middleware"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/internal/service"
	"github.com/plantpals/messaging/pkg/logger"
)

// MessageHandler handles message history and send endpoints.
type MessageHandler struct {
	store      backend.Store
	dispatcher *service.Dispatcher
	logger     *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(store backend.Store, dispatcher *service.Dispatcher, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		store:      store,
		dispatcher: dispatcher,
		logger:     log,
	}
}

// List handles GET /api/v1/conversations/{id}/messages
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	messages, err := h.store.MessageHistory(ctx, conversationID)
	if err != nil {
		h.logger.Error("failed to get message history")
		writeServiceError(w, &service.FetchFailedError{Resource: "message history", Cause: err})
		return
	}
	if messages == nil {
		messages = []model.Message{}
	}

	writeJSON(w, http.StatusOK, &model.ListMessagesResponse{Messages: messages})
}

// Send handles POST /api/v1/conversations/{id}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetActorID(ctx)
	conversationID := chi.URLParam(r, "id")

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.dispatcher.Send(ctx, conversationID, actorID, req.Content)
	if err != nil {
		h.logger.Error("failed to send message")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, &model.SendMessageResponse{Message: msg})
}
