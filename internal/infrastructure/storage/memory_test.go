package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissingKey(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemory_SetGetRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v1"))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)

	// Set replaces the whole value
	require.NoError(t, store.Set(ctx, "k", "v2"))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)
}

func TestMemory_Delete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "k", "v")
			_, _ = store.Get(ctx, "k")
		}()
	}
	wg.Wait()

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}
