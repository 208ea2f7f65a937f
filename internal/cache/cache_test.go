package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New()
	key := Key{Resource: "conversations", Params: "alice"}

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, "value", time.Minute)
	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestCache_Expiry(t *testing.T) {
	now := time.Now()
	c := New(WithClock(func() time.Time { return now }))
	key := Key{Resource: "conversations", Params: "alice"}

	c.Set(key, "value", time.Minute)
	_, ok := c.Get(key)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok, "entry past its TTL must not be served")
	assert.Zero(t, c.Len(), "expired entry is evicted on access")
}

func TestCache_Invalidate(t *testing.T) {
	c := New()
	key := Key{Resource: "conversations", Params: "alice"}

	c.Set(key, "value", time.Minute)
	c.Invalidate(key)

	_, ok := c.Get(key)
	assert.False(t, ok)

	// Invalidating a missing key is a no-op.
	c.Invalidate(key)
}

func TestCache_InvalidateResource(t *testing.T) {
	c := New()
	c.Set(Key{Resource: "conversations", Params: "alice"}, 1, time.Minute)
	c.Set(Key{Resource: "conversations", Params: "bob"}, 2, time.Minute)
	c.Set(Key{Resource: "messages", Params: "c1"}, 3, time.Minute)

	c.InvalidateResource("conversations")

	_, ok := c.Get(Key{Resource: "conversations", Params: "alice"})
	assert.False(t, ok)
	_, ok = c.Get(Key{Resource: "conversations", Params: "bob"})
	assert.False(t, ok)
	got, ok := c.Get(Key{Resource: "messages", Params: "c1"})
	require.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestCache_DistinctParamsAreDistinctEntries(t *testing.T) {
	c := New()
	c.Set(Key{Resource: "conversations", Params: "alice"}, "a", time.Minute)
	c.Set(Key{Resource: "conversations", Params: "bob"}, "b", time.Minute)

	got, ok := c.Get(Key{Resource: "conversations", Params: "alice"})
	require.True(t, ok)
	assert.Equal(t, "a", got)
	assert.Equal(t, 2, c.Len())
}
