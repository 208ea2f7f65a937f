// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"
	"time"

	"github.com/plantpals/messaging/internal/middleware"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/internal/service"
	"github.com/plantpals/messaging/pkg/logger"
)

// ConversationHandler handles conversation directory endpoints.
type ConversationHandler struct {
	directory *service.Directory
	unread    service.UnreadDeriver
	logger    *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(directory *service.Directory, unread service.UnreadDeriver, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		directory: directory,
		unread:    unread,
		logger:    log,
	}
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetActorID(ctx)
	if actorID == "" {
		writeServiceError(w, service.ErrNotAuthenticated)
		return
	}

	summaries, err := h.directory.List(ctx, actorID)
	if err != nil {
		h.logger.Error("failed to list conversations")
		writeServiceError(w, err)
		return
	}
	if summaries == nil {
		summaries = []model.ConversationSummary{}
	}

	writeJSON(w, http.StatusOK, &model.ListConversationsResponse{
		Conversations: summaries,
		Total:         len(summaries),
	})
}

// Unread handles GET /api/v1/conversations/unread
func (h *ConversationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := middleware.GetActorID(ctx)
	if actorID == "" {
		writeServiceError(w, service.ErrNotAuthenticated)
		return
	}

	summaries, err := h.directory.List(ctx, actorID)
	if err != nil {
		h.logger.Error("failed to list conversations for unread count")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &model.UnreadCountResponse{
		Unread: h.unread.Count(summaries, actorID, time.Now()),
	})
}
