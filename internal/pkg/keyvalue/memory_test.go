package keyvalue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Load(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "key", []byte("value"), 0))

	value, found, err := store.Load(ctx, "key")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("value"), value)

	require.NoError(t, store.Delete(ctx, "key"))

	_, found, err = store.Load(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "key", []byte("value"), time.Millisecond))

	require.Eventually(t, func() bool {
		_, found, _ := store.Load(ctx, "key")
		return !found
	}, 100*time.Millisecond, 10*time.Millisecond, "entry did not expire")
}

func TestMemoryStore_DeleteAbsentKey(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Delete(context.Background(), "missing"))
}
