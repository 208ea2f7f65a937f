package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/cache"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/pkg/logger"
)

func newTestSession(actorID string, store *fakeStore, rt *fakeRealtime) *Session {
	return NewSession(actorID, store, rt, cache.New(), logger.NewNop(), SessionConfig{})
}

func TestSession_FirstMessageScenario(t *testing.T) {
	store := newFakeStore()
	rt := newFakeRealtime()
	s := newTestSession("alice", store, rt)
	defer s.Close()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.Select(ctx, "c123"))
	require.Empty(t, s.Messages())

	sent, err := s.Send(ctx, "Is this still available?")
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Is this still available?", msgs[0].Content)
	assert.NotEmpty(t, msgs[0].ID)
	assert.True(t, msgs[0].SentAt.After(before))

	// A live insert with a different id appends after it.
	other := testMessage("m-other", "c123", "bob", time.Now())
	rt.lastSub().emit(other)
	assert.Eventually(t, func() bool {
		return len(s.Messages()) == 2
	}, waitFor, 10*time.Millisecond)
	msgs = s.Messages()
	assert.Equal(t, []string{sent.ID, "m-other"}, messageIDs(msgs))
	assertOrdered(t, msgs)

	// A duplicate replay of the first message's id changes nothing.
	rt.lastSub().emit(*sent)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{sent.ID, "m-other"}, messageIDs(s.Messages()))
}

func TestSession_SendWithoutSelection(t *testing.T) {
	s := newTestSession("alice", newFakeStore(), newFakeRealtime())
	defer s.Close()

	_, err := s.Send(context.Background(), "hello")

	assert.ErrorIs(t, err, ErrNoActiveConversation)
}

func TestSession_UnauthenticatedBehavior(t *testing.T) {
	s := newTestSession("", newFakeStore(), newFakeRealtime())
	ctx := context.Background()

	summaries, err := s.Conversations(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	assert.ErrorIs(t, s.Select(ctx, "c1"), ErrNotAuthenticated)

	_, err = s.Send(ctx, "hello")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_UnreadCount(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.conversations[backend.RoleRequester] = []model.Conversation{
		testConversation("c1", "alice", "bob", now),
		testConversation("c2", "alice", "carol", now),
	}
	theirs := testMessage("m1", "c1", "bob", now.Add(-time.Hour))
	mine := testMessage("m2", "c2", "alice", now.Add(-time.Minute))
	store.latest["c1"] = &theirs
	store.latest["c2"] = &mine

	s := NewSession("alice", store, newFakeRealtime(), cache.New(), logger.NewNop(), SessionConfig{
		UnreadWindow: 24 * time.Hour,
		Clock:        func() time.Time { return now },
	})
	defer s.Close()

	count, err := s.UnreadCount(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSession_SwitchingConversations(t *testing.T) {
	now := time.Now()
	store := newFakeStore()
	store.history["a"] = []model.Message{testMessage("a1", "a", "bob", now)}
	store.history["b"] = []model.Message{testMessage("b1", "b", "carol", now)}
	s := newTestSession("alice", store, newFakeRealtime())
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Select(ctx, "a"))
	assert.Equal(t, []string{"a1"}, messageIDs(s.Messages()))

	require.NoError(t, s.Select(ctx, "b"))
	assert.Equal(t, []string{"b1"}, messageIDs(s.Messages()))

	require.NoError(t, s.Select(ctx, ""))
	assert.Empty(t, s.Messages())
}
