package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestKV(t *testing.T) *RedisKV {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisKV(client)
}

func TestRedisKV_SetGet(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "user-1", "project:p1", []byte(`{"id":"p1"}`)))

	data, err := kv.Get(ctx, "user-1", "project:p1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"p1"}`), data)
}

func TestRedisKV_GetMissing(t *testing.T) {
	kv := setupTestKV(t)

	_, err := kv.Get(context.Background(), "user-1", "project:absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisKV_ListByPrefix(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "user-1", "project:p1", []byte("a")))
	require.NoError(t, kv.Set(ctx, "user-1", "project:p2", []byte("b")))
	require.NoError(t, kv.Set(ctx, "user-1", "hosting:config", []byte("c")))

	entries, err := kv.List(ctx, "user-1", "project:")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKey := map[string]string{}
	for _, e := range entries {
		byKey[e.Key] = string(e.Value)
	}
	assert.Equal(t, "a", byKey["project:p1"])
	assert.Equal(t, "b", byKey["project:p2"])
}

func TestRedisKV_OwnersAreIsolated(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "user-1", "project:p1", []byte("mine")))

	_, err := kv.Get(ctx, "user-2", "project:p1")
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := kv.List(ctx, "user-2", "project:")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
