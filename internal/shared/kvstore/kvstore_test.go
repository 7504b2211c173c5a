package kvstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	key := "wms:test:" + time.Now().Format("150405.000000")

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, key, []byte("v1"), time.Minute))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, s.Del(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	exerciseStore(t, NewRedisStore(rdb))
}
