package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreGetMiss(t *testing.T) {
	store, _ := setupTestRedis(t)

	data, found, err := store.Get(context.Background(), "search:products:absent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestRedisStoreSetGet(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "search:products:abc", []byte(`{"total":3}`), time.Minute))

	data, found, err := store.Get(ctx, "search:products:abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"total":3}`), data)
}

func TestRedisStoreEntryExpires(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "search:products:abc", []byte("cached"), 2*time.Minute))

	mr.FastForward(3 * time.Minute)

	_, found, err := store.Get(ctx, "search:products:abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStoreDeleteByPrefix(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	// More keys than one scan batch, so deletion spans several DEL calls.
	for i := 0; i < 150; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("search:products:%03d", i), []byte("p"), time.Hour))
	}
	require.NoError(t, store.Set(ctx, "search:orders:abc", []byte("o"), time.Hour))

	require.NoError(t, store.DeleteByPrefix(ctx, "search:products:"))

	for i := 0; i < 150; i++ {
		assert.False(t, mr.Exists(fmt.Sprintf("search:products:%03d", i)))
	}
	assert.True(t, mr.Exists("search:orders:abc"))
}
