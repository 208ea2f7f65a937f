// Package model defines data structures for the swap messaging core.
package model

import (
	"time"
)

// Status is the lifecycle status of a swap negotiation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Profile is the public display info of a participant.
type Profile struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Plant identifies the plant under negotiation.
type Plant struct {
	ID       string  `json:"id"`
	OwnerID  string  `json:"owner_id"`
	Name     string  `json:"name"`
	ImageURL *string `json:"image_url,omitempty"`
}

// Conversation is one swap negotiation thread. Its id is shared with the
// swap request record it wraps. The requester and the plant owner are the
// only two participants.
type Conversation struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Plant     Plant     `json:"plant"`
	Requester Profile   `json:"requester"`
	Owner     Profile   `json:"owner"`
}

// Counterpart returns the participant who is not the given actor.
func (c *Conversation) Counterpart(actorID string) Profile {
	if c.Requester.ID == actorID {
		return c.Owner
	}
	return c.Requester
}

// ConversationSummary is the directory's listing view: a conversation plus
// the counterpart identity and the most recent message, if any. It is
// recomputed on every directory refresh and never persisted.
type ConversationSummary struct {
	Conversation
	Counterpart Profile  `json:"counterpart"`
	LastMessage *Message `json:"last_message,omitempty"`
}

// EffectiveTime is the timestamp the directory sorts by: the last message's
// send time when present, the conversation's update time otherwise.
func (s *ConversationSummary) EffectiveTime() time.Time {
	if s.LastMessage != nil {
		return s.LastMessage.SentAt
	}
	return s.UpdatedAt
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}
