package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/model"
)

const (
	// SubjectPrefix is the prefix for all conversation subjects.
	SubjectPrefix = "plantpals.conversations"

	// eventBuffer bounds the per-subscription delivery channel.
	eventBuffer = 64
)

// MessageSubject returns the subject carrying insert events for a
// conversation.
func MessageSubject(conversationID string) string {
	return fmt.Sprintf("%s.%s.messages", SubjectPrefix, conversationID)
}

// Realtime implements backend.Realtime on top of core NATS pub/sub.
// History is authoritative in the store; NATS only carries live inserts.
type Realtime struct {
	client *Client
}

// NewRealtime creates a realtime adapter over an established client.
func NewRealtime(client *Client) *Realtime {
	return &Realtime{client: client}
}

// Publish fans a created message out to subscribers of its conversation.
func (r *Realtime) Publish(ctx context.Context, msg *model.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := r.client.conn.Publish(MessageSubject(msg.ConversationID), data); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// SubscribeMessages opens a subscription scoped to one conversation.
func (r *Realtime) SubscribeMessages(ctx context.Context, conversationID string) (backend.Subscription, error) {
	sub := &subscription{
		events: make(chan model.Message, eventBuffer),
	}

	natsSub, err := r.client.conn.Subscribe(MessageSubject(conversationID), func(m *nats.Msg) {
		var msg model.Message
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			r.client.logger.Warn("dropping undecodable message event",
				zap.String("subject", m.Subject), zap.Error(err))
			return
		}
		sub.deliver(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	sub.natsSub = natsSub

	return sub, nil
}

type subscription struct {
	natsSub *nats.Subscription
	events  chan model.Message

	mu     sync.Mutex
	closed bool
}

func (s *subscription) Events() <-chan model.Message {
	return s.events
}

func (s *subscription) deliver(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- msg:
	default:
		// Slow consumer; the stream reconciles against history on the next
		// selection, so dropping here loses nothing durable.
	}
}

func (s *subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.natsSub.Unsubscribe()
	close(s.events)
	return err
}
