package service

import (
	"context"
	"time"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/cache"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/pkg/logger"
)

// Session binds the messaging components to one authenticated actor and
// exposes the consumer surface: list conversations, select one, read its
// live message list, send, and derive the unread badge.
type Session struct {
	actorID    string
	directory  *Directory
	stream     *Stream
	dispatcher *Dispatcher
	unread     UnreadDeriver
	now        func() time.Time
}

// SessionConfig carries session tuning knobs.
type SessionConfig struct {
	// DirectoryTTL is the directory cache lifetime; zero means the default.
	DirectoryTTL time.Duration
	// UnreadWindow is the unread recency window; zero means the default.
	UnreadWindow time.Duration
	// Clock overrides the time source, for tests.
	Clock func() time.Time
}

// NewSession creates a session for actorID. An empty actorID is allowed;
// every operation then behaves as unauthenticated.
func NewSession(actorID string, store backend.Store, realtime backend.Realtime, c *cache.Cache, log *logger.Logger, cfg SessionConfig) *Session {
	directory := NewDirectory(store, c, log, cfg.DirectoryTTL)
	stream := NewStream(store, realtime, log)
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Session{
		actorID:    actorID,
		directory:  directory,
		stream:     stream,
		dispatcher: NewDispatcher(store, realtime, directory, stream, log),
		unread:     NewUnreadDeriver(cfg.UnreadWindow),
		now:        now,
	}
}

// ActorID returns the session's actor identity.
func (s *Session) ActorID() string {
	return s.actorID
}

// Conversations returns the actor's conversation summaries, newest
// activity first.
func (s *Session) Conversations(ctx context.Context) ([]model.ConversationSummary, error) {
	return s.directory.List(ctx, s.actorID)
}

// Select makes conversationID the active conversation; empty clears the
// selection.
func (s *Session) Select(ctx context.Context, conversationID string) error {
	if s.actorID == "" {
		return ErrNotAuthenticated
	}
	return s.stream.Select(ctx, conversationID)
}

// Messages returns the active conversation's ordered message list.
func (s *Session) Messages() []model.Message {
	return s.stream.Messages()
}

// Send submits content to the active conversation.
func (s *Session) Send(ctx context.Context, content string) (*model.Message, error) {
	return s.dispatcher.Send(ctx, s.stream.ConversationID(), s.actorID, content)
}

// UnreadCount returns how many conversations have unseen activity.
func (s *Session) UnreadCount(ctx context.Context) (int, error) {
	summaries, err := s.directory.List(ctx, s.actorID)
	if err != nil {
		return 0, err
	}
	return s.unread.Count(summaries, s.actorID, s.now()), nil
}

// Close releases the session's live resources.
func (s *Session) Close() {
	s.stream.Close()
}
