package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when QUIZ_TEST_REDIS_ADDR points at a disposable Redis.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("QUIZ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("QUIZ_TEST_REDIS_ADDR not set")
	}

	client, err := NewRedisClient(context.Background(), RedisOptions{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, time.Minute)
}

func TestRedisStore_SaveGetDelete(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	id := NewID()

	sess := sampleSession(id)
	sess.UserAnswers[0] = strPtr("B")
	require.NoError(t, store.Save(ctx, sess))
	t.Cleanup(func() { store.Delete(ctx, id) })

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, sess.CurrentIndex, got.CurrentIndex)
	require.NotNil(t, got.UserAnswers[0])
	assert.Equal(t, "B", *got.UserAnswers[0])
	assert.Nil(t, got.UserAnswers[1])

	ttl, err := store.client.TTL(ctx, RedisKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Ping(ctx))
}
