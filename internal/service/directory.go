package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/cache"
	"github.com/plantpals/messaging/internal/model"
	"github.com/plantpals/messaging/pkg/logger"
	"github.com/plantpals/messaging/pkg/metrics"
)

const (
	// DefaultDirectoryTTL is how long a directory listing stays fresh.
	// The listing is a point-in-time snapshot, not the live thread.
	DefaultDirectoryTTL = time.Minute

	conversationsResource = "conversations"
)

// Directory produces the merged, sorted list of conversation summaries for
// an actor. Results are cached per actor; the dispatcher invalidates the
// entry after a send so the next listing reflects it.
type Directory struct {
	store  backend.Store
	cache  *cache.Cache
	logger *logger.Logger
	ttl    time.Duration
}

// NewDirectory creates a conversation directory.
func NewDirectory(store backend.Store, c *cache.Cache, log *logger.Logger, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	return &Directory{
		store:  store,
		cache:  c,
		logger: log,
		ttl:    ttl,
	}
}

// List returns the actor's conversation summaries, newest activity first.
// An empty actor id yields an empty list without error. Any failure to
// fetch either conversation set aborts the listing; a failed last-message
// lookup degrades that one summary to "no last message".
func (d *Directory) List(ctx context.Context, actorID string) ([]model.ConversationSummary, error) {
	if actorID == "" {
		return nil, nil
	}

	key := cache.Key{Resource: conversationsResource, Params: actorID}
	if cached, ok := d.cache.Get(key); ok {
		metrics.DirectoryCacheHits.WithLabelValues("hit").Inc()
		return cached.([]model.ConversationSummary), nil
	}
	metrics.DirectoryCacheHits.WithLabelValues("miss").Inc()

	summaries, err := d.refresh(ctx, actorID)
	if err != nil {
		metrics.DirectoryListsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.DirectoryListsTotal.WithLabelValues("ok").Inc()

	d.cache.Set(key, summaries, d.ttl)
	return summaries, nil
}

// Invalidate drops the actor's cached listing so the next List refetches.
func (d *Directory) Invalidate(actorID string) {
	d.cache.Invalidate(cache.Key{Resource: conversationsResource, Params: actorID})
}

func (d *Directory) refresh(ctx context.Context, actorID string) ([]model.ConversationSummary, error) {
	sent, err := d.store.ListConversations(ctx, actorID, backend.RoleRequester)
	if err != nil {
		return nil, &FetchFailedError{Resource: "sent conversations", Cause: err}
	}

	received, err := d.store.ListConversations(ctx, actorID, backend.RoleOwner)
	if err != nil {
		return nil, &FetchFailedError{Resource: "received conversations", Cause: err}
	}

	// A user cannot request a swap on their own plant, so the two sets are
	// disjoint and a plain append is a union.
	conversations := make([]model.Conversation, 0, len(sent)+len(received))
	conversations = append(conversations, sent...)
	conversations = append(conversations, received...)

	summaries := make([]model.ConversationSummary, 0, len(conversations))
	for i := range conversations {
		conv := conversations[i]
		summary := model.ConversationSummary{
			Conversation: conv,
			Counterpart:  conv.Counterpart(actorID),
		}

		last, err := d.store.LatestMessage(ctx, conv.ID)
		if err != nil {
			// Enrichment only; the listing survives without it.
			d.logger.Warn("failed to fetch last message",
				zap.String("conversation_id", conv.ID), zap.Error(err))
		} else {
			summary.LastMessage = last
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].EffectiveTime().After(summaries[j].EffectiveTime())
	})

	return summaries, nil
}
