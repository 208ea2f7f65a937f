package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plantpals/messaging/internal/model"
)

func TestUnreadDeriver_IsUnread(t *testing.T) {
	now := time.Now()
	u := NewUnreadDeriver(24 * time.Hour)

	summary := func(senderID string, sentAt time.Time) *model.ConversationSummary {
		msg := testMessage("m1", "c1", senderID, sentAt)
		return &model.ConversationSummary{
			Conversation: testConversation("c1", "alice", "bob", sentAt),
			LastMessage:  &msg,
		}
	}

	tests := []struct {
		name    string
		summary *model.ConversationSummary
		want    bool
	}{
		{
			name:    "recent counterpart message is unread",
			summary: summary("bob", now.Add(-time.Hour)),
			want:    true,
		},
		{
			name:    "own message is never unread regardless of timestamp",
			summary: summary("alice", now.Add(-time.Second)),
			want:    false,
		},
		{
			name:    "counterpart message outside the window is not unread",
			summary: summary("bob", now.Add(-25*time.Hour)),
			want:    false,
		},
		{
			name: "conversation without messages is not unread",
			summary: &model.ConversationSummary{
				Conversation: testConversation("c1", "alice", "bob", now),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.IsUnread(tt.summary, "alice", now))
		})
	}
}

func TestUnreadDeriver_Count(t *testing.T) {
	now := time.Now()
	u := NewUnreadDeriver(24 * time.Hour)

	mine := testMessage("m1", "c1", "alice", now)
	theirsFresh := testMessage("m2", "c2", "bob", now.Add(-time.Hour))
	theirsStale := testMessage("m3", "c3", "carol", now.Add(-48*time.Hour))

	summaries := []model.ConversationSummary{
		{Conversation: testConversation("c1", "alice", "bob", now), LastMessage: &mine},
		{Conversation: testConversation("c2", "alice", "bob", now), LastMessage: &theirsFresh},
		{Conversation: testConversation("c3", "alice", "carol", now), LastMessage: &theirsStale},
		{Conversation: testConversation("c4", "alice", "dave", now)},
	}

	assert.Equal(t, 1, u.Count(summaries, "alice", now))
}

func TestNewUnreadDeriver_DefaultsWindow(t *testing.T) {
	assert.Equal(t, DefaultUnreadWindow, NewUnreadDeriver(0).Window)
	assert.Equal(t, time.Hour, NewUnreadDeriver(time.Hour).Window)
}
