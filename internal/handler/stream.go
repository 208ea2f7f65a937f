package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/middleware"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/internal/service"
	"github.com/plantpals/messaging/pkg/logger"
	"github.com/plantpals/messaging/pkg/metrics"
)

// StreamHandler serves the per-conversation SSE live stream: it subscribes
// to live inserts first, replays history, then forwards live events,
// deduplicating by message id across the replay/live boundary.
type StreamHandler struct {
	store    backend.Store
	realtime backend.Realtime
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(store backend.Store, realtime backend.Realtime, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		store:    store,
		realtime: realtime,
		logger:   log,
	}
}

// Stream handles GET /api/v1/conversations/{id}/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	log := h.logger.WithConversation(conversationID)

	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Subscribe before replaying so an insert that lands mid-replay is not
	// lost; the seen-set drops it if the replay already carried it.
	sub, err := h.realtime.SubscribeMessages(ctx, conversationID)
	if err != nil {
		log.Error("failed to subscribe to live inserts")
		writeServiceError(w, &service.FetchFailedError{Resource: "message subscription", Cause: err})
		return
	}
	defer sub.Close()

	history, err := h.store.MessageHistory(ctx, conversationID)
	if err != nil {
		log.Error("failed to replay message history")
		writeServiceError(w, &service.FetchFailedError{Resource: "message history", Cause: err})
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSEEvent(w, flusher, "connected", map[string]string{
		"conversation_id": conversationID,
	})

	seen := make(map[string]struct{}, len(history))
	for i := range history {
		seen[history[i].ID] = struct{}{}
		sendSSEEvent(w, flusher, "message", &history[i])
	}

	sendSSEEvent(w, flusher, "replay_complete", &model.ReplayCompleteEvent{
		MessageCount: len(history),
	})

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("SSE client disconnected")
			return

		case msg, open := <-sub.Events():
			if !open {
				sendSSEEvent(w, flusher, "error", &model.ErrorEvent{
					Code:    "subscription_closed",
					Message: "live subscription closed",
				})
				return
			}
			if _, dup := seen[msg.ID]; dup {
				metrics.DuplicateEventsTotal.Inc()
				continue
			}
			seen[msg.ID] = struct{}{}
			sendSSEEvent(w, flusher, "message", &msg)

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{
				Timestamp: time.Now(),
			})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
