package service

import (
	"time"

	"github.com/plantpals/messaging/internal/model"
)

// DefaultUnreadWindow is how far back a counterpart's message still counts
// as new activity.
const DefaultUnreadWindow = 24 * time.Hour

// UnreadDeriver computes the "has new activity" signal from directory
// output. There is no persisted read state, so this is a time-window
// heuristic, not authoritative: a conversation is unread when its last
// message came from the counterpart within the window.
type UnreadDeriver struct {
	Window time.Duration
}

// NewUnreadDeriver creates a deriver; a non-positive window gets the
// default.
func NewUnreadDeriver(window time.Duration) UnreadDeriver {
	if window <= 0 {
		window = DefaultUnreadWindow
	}
	return UnreadDeriver{Window: window}
}

// IsUnread reports whether one conversation counts as unread for actorID
// at the given instant.
func (u UnreadDeriver) IsUnread(s *model.ConversationSummary, actorID string, now time.Time) bool {
	if s.LastMessage == nil {
		return false
	}
	if s.LastMessage.SenderID == actorID {
		return false
	}
	return now.Sub(s.LastMessage.SentAt) <= u.Window
}

// Count returns how many conversations satisfy the unread rule.
func (u UnreadDeriver) Count(summaries []model.ConversationSummary, actorID string, now time.Time) int {
	n := 0
	for i := range summaries {
		if u.IsUnread(&summaries[i], actorID, now) {
			n++
		}
	}
	return n
}
