// Package backend defines the contracts with the persistence and push
// collaborators. The messaging core only ever talks to the backend through
// these interfaces; adapters live in subpackages and internal/nats.
package backend

import (
	"context"
	"errors"

	"github.com/plantpals/messaging/internal/model"
)

// Role scopes a conversation listing to one side of the swap.
type Role string

const (
	// RoleRequester selects conversations the actor initiated.
	RoleRequester Role = "requester"
	// RoleOwner selects conversations initiated toward the actor's plants.
	RoleOwner Role = "owner"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the durable side of the backend. Conversations and messages are
// owned exclusively by the store; the core holds eventually-consistent
// in-memory copies.
type Store interface {
	// ListConversations returns the conversations where the actor plays the
	// given role, joined with the plant and both participant profiles.
	ListConversations(ctx context.Context, actorID string, role Role) ([]model.Conversation, error)

	// LatestMessage returns the most recent message of a conversation, or
	// nil when the conversation has no messages.
	LatestMessage(ctx context.Context, conversationID string) (*model.Message, error)

	// MessageHistory returns all messages of a conversation ordered
	// ascending by sent time, ids breaking ties.
	MessageHistory(ctx context.Context, conversationID string) ([]model.Message, error)

	// InsertMessage persists a new message and returns the created record
	// with its server-assigned id and timestamp.
	InsertMessage(ctx context.Context, conversationID, senderID, content string) (*model.Message, error)
}

// Subscription is a live feed of message-insert events for one
// conversation. Close is idempotent; after Close the Events channel is
// closed and no further events are delivered.
type Subscription interface {
	Events() <-chan model.Message
	Close() error
}

// Realtime is the push side of the backend.
type Realtime interface {
	// SubscribeMessages opens a subscription scoped to one conversation.
	SubscribeMessages(ctx context.Context, conversationID string) (Subscription, error)

	// Publish fans a created message out to subscribers. Callers publish
	// after the durable write succeeds.
	Publish(ctx context.Context, msg *model.Message) error
}
