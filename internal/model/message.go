package model

import (
	"time"
)

// Message is one chat entry within a conversation. Messages are immutable
// once created; ids are server-assigned and creation-ordered.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
	Read           bool      `json:"read,omitempty"`

	// Denormalized sender display info, populated on read.
	Sender *Profile `json:"sender,omitempty"`
}

// Before reports whether m sorts before other in a conversation's message
// list: ascending sent time, ids as the tiebreak.
func (m *Message) Before(other *Message) bool {
	if m.SentAt.Equal(other.SentAt) {
		return m.ID < other.ID
	}
	return m.SentAt.Before(other.SentAt)
}

// SendMessageRequest is the request to send a new message.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessageResponse is the response after sending a message.
type SendMessageResponse struct {
	Message *Message `json:"message"`
}

// ListMessagesResponse is the response for a conversation's history.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// UnreadCountResponse is the response for the unread badge count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
