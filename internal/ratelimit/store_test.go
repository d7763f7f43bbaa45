package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEnforcesLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := store.Allow(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Limit)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := store.Allow(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}

func TestMemoryStoreKeysAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	res, err := store.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = store.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = store.Allow(ctx, "10.0.0.2", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "a different client is unaffected")
}

func TestMemoryStoreWindowSlides(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	res, err := store.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, res.Allowed)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	res, err = store.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	now = now.Add(61 * time.Second)
	res, err = store.Allow(ctx, "10.0.0.1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "the old entry aged out of the window")
}
