package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/model"
)

// fakeStore is an in-memory backend.Store with per-call error and blocking
// controls.
type fakeStore struct {
	mu sync.Mutex

	conversations map[backend.Role][]model.Conversation
	listErr       map[backend.Role]error

	latest    map[string]*model.Message
	latestErr map[string]error

	history     map[string][]model.Message
	historyErr  map[string]error
	historyGate map[string]chan struct{}

	inserted  []model.Message
	insertErr error

	listCalls    int
	latestCalls  int
	historyCalls int
	insertCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: make(map[backend.Role][]model.Conversation),
		listErr:       make(map[backend.Role]error),
		latest:        make(map[string]*model.Message),
		latestErr:     make(map[string]error),
		history:       make(map[string][]model.Message),
		historyErr:    make(map[string]error),
		historyGate:   make(map[string]chan struct{}),
	}
}

func (f *fakeStore) ListConversations(ctx context.Context, actorID string, role backend.Role) ([]model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.listErr[role]; err != nil {
		return nil, err
	}
	return append([]model.Conversation(nil), f.conversations[role]...), nil
}

func (f *fakeStore) LatestMessage(ctx context.Context, conversationID string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++
	if err := f.latestErr[conversationID]; err != nil {
		return nil, err
	}
	return f.latest[conversationID], nil
}

func (f *fakeStore) MessageHistory(ctx context.Context, conversationID string) ([]model.Message, error) {
	f.mu.Lock()
	gate := f.historyGate[conversationID]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if err := f.historyErr[conversationID]; err != nil {
		return nil, err
	}
	return append([]model.Message(nil), f.history[conversationID]...), nil
}

func (f *fakeStore) InsertMessage(ctx context.Context, conversationID, senderID, content string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	msg := model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		SentAt:         time.Now().UTC(),
	}
	f.inserted = append(f.inserted, msg)
	f.history[conversationID] = append(f.history[conversationID], msg)
	f.latest[conversationID] = &msg
	return &msg, nil
}

// fakeSub is a channel-backed subscription with idempotent Close.
type fakeSub struct {
	conversationID string
	events         chan model.Message

	mu     sync.Mutex
	closed bool
}

func (s *fakeSub) Events() <-chan model.Message {
	return s.events
}

func (s *fakeSub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.events)
	return nil
}

func (s *fakeSub) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// emit injects an event directly, bypassing Publish.
func (s *fakeSub) emit(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.events <- msg
}

// fakeRealtime hands out fakeSubs and fans published messages out to
// matching open subscriptions.
type fakeRealtime struct {
	mu         sync.Mutex
	subs       []*fakeSub
	published  []model.Message
	subErr     error
	publishErr error
}

func newFakeRealtime() *fakeRealtime {
	return &fakeRealtime{}
}

func (f *fakeRealtime) SubscribeMessages(ctx context.Context, conversationID string) (backend.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return nil, f.subErr
	}
	sub := &fakeSub{
		conversationID: conversationID,
		events:         make(chan model.Message, 16),
	}
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeRealtime) Publish(ctx context.Context, msg *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, *msg)
	for _, sub := range f.subs {
		if sub.conversationID == msg.ConversationID && !sub.isClosed() {
			sub.emit(*msg)
		}
	}
	return nil
}

func (f *fakeRealtime) lastSub() *fakeSub {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.subs) == 0 {
		return nil
	}
	return f.subs[len(f.subs)-1]
}

func testMessage(id, conversationID, senderID string, sentAt time.Time) model.Message {
	return model.Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        fmt.Sprintf("message %s", id),
		SentAt:         sentAt,
	}
}

func testConversation(id, requesterID, ownerID string, updatedAt time.Time) model.Conversation {
	return model.Conversation{
		ID:        id,
		Status:    model.StatusPending,
		CreatedAt: updatedAt.Add(-time.Hour),
		UpdatedAt: updatedAt,
		Plant: model.Plant{
			ID:      "plant-" + id,
			OwnerID: ownerID,
			Name:    "Monstera",
		},
		Requester: model.Profile{ID: requesterID, Username: "requester"},
		Owner:     model.Profile{ID: ownerID, Username: "owner"},
	}
}
