package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache[string]()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v"))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Del(ctx, "k"))
	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCache_TTL(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	c := NewMemoryCacheWithTTL[int](10 * time.Minute)
	c.now = func() time.Time { return clock }

	require.NoError(t, c.Set(ctx, "order", 1))
	clock = clock.Add(9 * time.Minute)
	exists, err := c.Exists(ctx, "order")
	require.NoError(t, err)
	assert.True(t, exists)

	clock = clock.Add(time.Minute)
	_, ok, err := c.Get(ctx, "order")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, c.entries)
}
