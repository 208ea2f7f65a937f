package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/pkg/logger"
	"github.com/plantpals/messaging/pkg/metrics"
)

// StreamState is the lifecycle state of a Stream.
type StreamState string

const (
	// StreamIdle means no conversation is selected.
	StreamIdle StreamState = "idle"
	// StreamLoading means the history fetch has not completed yet.
	StreamLoading StreamState = "loading"
	// StreamLive means history is loaded and live inserts are flowing.
	StreamLive StreamState = "live"
)

// Stream maintains the live, deduplicated, time-ordered message list for
// at most one active conversation. It is the sole writer of that list: the
// subscription goroutine and the dispatcher both funnel through the same
// idempotent insert path.
//
// Every selection change bumps an epoch. History results and live events
// carry the epoch they were started under and are discarded on mismatch,
// so a fetch that resolves after the consumer has moved on cannot leak
// into the now-active conversation.
type Stream struct {
	store    backend.Store
	realtime backend.Realtime
	logger   *logger.Logger

	mu             sync.Mutex
	state          StreamState
	conversationID string
	epoch          uint64
	messages       []model.Message
	seen           map[string]struct{}
	sub            backend.Subscription
}

// NewStream creates an idle message stream.
func NewStream(store backend.Store, realtime backend.Realtime, log *logger.Logger) *Stream {
	return &Stream{
		store:    store,
		realtime: realtime,
		logger:   log,
		state:    StreamIdle,
	}
}

// Select makes conversationID the active conversation: any prior
// subscription is torn down first, then the stream subscribes to live
// inserts and loads the authoritative history. Subscribing before fetching
// means a message inserted during the fetch arrives on the live channel
// and the history merge deduplicates it, so nothing is lost in the gap.
//
// An empty conversationID clears the selection. A history fetch that is
// superseded by a newer Select resolves into nothing.
func (s *Stream) Select(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	s.teardownLocked()
	if conversationID == "" {
		s.mu.Unlock()
		return nil
	}
	s.epoch++
	epoch := s.epoch
	s.conversationID = conversationID
	s.state = StreamLoading
	s.seen = make(map[string]struct{})
	s.mu.Unlock()

	sub, err := s.realtime.SubscribeMessages(ctx, conversationID)
	if err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.teardownLocked()
		}
		s.mu.Unlock()
		return &FetchFailedError{Resource: "message subscription", Cause: err}
	}

	s.mu.Lock()
	if s.epoch != epoch {
		// Superseded while subscribing.
		s.mu.Unlock()
		sub.Close()
		return nil
	}
	s.sub = sub
	metrics.LiveSubscriptionsActive.Inc()
	s.mu.Unlock()

	go s.consume(epoch, sub)

	history, err := s.store.MessageHistory(ctx, conversationID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		metrics.StaleResultsTotal.Inc()
		return nil
	}
	if err != nil {
		s.teardownLocked()
		return &FetchFailedError{Resource: "message history", Cause: err}
	}
	for i := range history {
		s.insertLocked(history[i])
	}
	s.state = StreamLive
	return nil
}

// Clear returns the stream to idle, releasing the subscription.
func (s *Stream) Clear() {
	s.mu.Lock()
	s.teardownLocked()
	s.mu.Unlock()
}

// Close releases all resources. The stream may be reused after Close.
func (s *Stream) Close() {
	s.Clear()
}

// Messages returns a copy of the active conversation's ordered message
// list; empty when no conversation is selected.
func (s *Stream) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// State returns the stream's lifecycle state.
func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ConversationID returns the active conversation id, empty when idle.
func (s *Stream) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Integrate inserts a message the dispatcher just persisted, without
// waiting for the live echo. It is the same idempotent path the
// subscription uses, so the echo deduplicates when it arrives. Messages
// for a conversation other than the active one are ignored.
func (s *Stream) Integrate(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StreamIdle || msg.ConversationID != s.conversationID {
		return
	}
	s.insertLocked(msg)
}

func (s *Stream) consume(epoch uint64, sub backend.Subscription) {
	for msg := range sub.Events() {
		s.mu.Lock()
		if s.epoch != epoch {
			metrics.StaleResultsTotal.Inc()
			s.mu.Unlock()
			continue
		}
		if msg.ConversationID != s.conversationID {
			s.logger.Warn("dropping event for wrong conversation",
				zap.String("got", msg.ConversationID),
				zap.String("want", s.conversationID))
			s.mu.Unlock()
			continue
		}
		s.insertLocked(msg)
		s.mu.Unlock()
	}
}

// insertLocked adds msg in ascending sent-time order unless its id is
// already present. Append is the common case; out-of-order arrivals are
// placed positionally.
func (s *Stream) insertLocked(msg model.Message) {
	if _, dup := s.seen[msg.ID]; dup {
		metrics.DuplicateEventsTotal.Inc()
		return
	}
	s.seen[msg.ID] = struct{}{}

	if n := len(s.messages); n == 0 || s.messages[n-1].Before(&msg) {
		s.messages = append(s.messages, msg)
		return
	}
	i := 0
	for ; i < len(s.messages); i++ {
		if msg.Before(&s.messages[i]) {
			break
		}
	}
	s.messages = append(s.messages, model.Message{})
	copy(s.messages[i+1:], s.messages[i:])
	s.messages[i] = msg
}

func (s *Stream) teardownLocked() {
	s.epoch++
	if s.sub != nil {
		if err := s.sub.Close(); err != nil {
			s.logger.Warn("failed to close subscription", zap.Error(err))
		}
		s.sub = nil
		metrics.LiveSubscriptionsActive.Dec()
	}
	s.state = StreamIdle
	s.conversationID = ""
	s.messages = nil
	s.seen = nil
}
