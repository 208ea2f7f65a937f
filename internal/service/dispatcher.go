package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/pkg/logger"
	"github.com/plantpals/messaging/pkg/metrics"
)

// Dispatcher submits outbound messages. On success the created record is
// handed to the active stream immediately, published to the realtime
// channel for other consumers, and the sender's directory entry is
// invalidated so its lastMessage catches up on the next listing.
type Dispatcher struct {
	store     backend.Store
	realtime  backend.Realtime
	directory *Directory
	stream    *Stream
	logger    *logger.Logger
}

// NewDispatcher creates a message dispatcher. stream may be nil when no
// live view needs updating (server-side send paths).
func NewDispatcher(store backend.Store, realtime backend.Realtime, directory *Directory, stream *Stream, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		realtime:  realtime,
		directory: directory,
		stream:    stream,
		logger:    log,
	}
}

// Send persists a message from senderID in the given conversation.
// Content that trims to nothing is rejected before any network call, as is
// a missing sender identity. On persistence failure the error carries the
// cause and no local state changes; the caller keeps the typed content.
func (d *Dispatcher) Send(ctx context.Context, conversationID, senderID, content string) (*model.Message, error) {
	if senderID == "" {
		return nil, ErrNotAuthenticated
	}
	if conversationID == "" {
		return nil, ErrNoActiveConversation
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	msg, err := d.store.InsertMessage(ctx, conversationID, senderID, content)
	if err != nil {
		return nil, &SendFailedError{Cause: err}
	}
	metrics.MessagesSentTotal.Inc()

	// Durability already holds; a failed fan-out only delays other
	// consumers until their next history load.
	if err := d.realtime.Publish(ctx, msg); err != nil {
		d.logger.Warn("failed to publish message event",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}

	if d.stream != nil {
		d.stream.Integrate(*msg)
	}
	d.directory.Invalidate(senderID)

	return msg, nil
}
