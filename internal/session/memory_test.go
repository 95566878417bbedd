package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/models"
)

func strPtr(s string) *string { return &s }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time           { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func sampleSession(id string) *models.QuizSession {
	return &models.QuizSession{
		ID:           id,
		CurrentIndex: 1,
		UserAnswers:  []*string{strPtr("A"), nil, strPtr("C")},
		CreatedAt:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	require.NoError(t, store.Save(ctx, sampleSession("s1")))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sampleSession("s1"), got)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	_, err := NewMemoryStore(time.Hour).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_IsolatesCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	sess := sampleSession("s1")
	require.NoError(t, store.Save(ctx, sess))

	sess.UserAnswers[1] = strPtr("changed after save")

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got.UserAnswers[1])

	got.CurrentIndex = 2
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.CurrentIndex)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore(time.Minute)
	store.now = clock.Now

	require.NoError(t, store.Save(ctx, sampleSession("s1")))

	clock.Advance(59 * time.Second)
	_, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	// Saving restarts the TTL.
	require.NoError(t, store.Save(ctx, sampleSession("s1")))
	clock.Advance(59 * time.Second)
	_, err = store.Get(ctx, "s1")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len(), "expired entry is evicted on read")
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	first := sampleSession("s1")
	second := sampleSession("s1")
	second.CurrentIndex = 2

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentIndex)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Save(ctx, sampleSession("s1")))

	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "s1"), "deleting twice is fine")

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Ping(ctx))
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := NewMemoryStore(time.Minute)
	store.now = clock.Now

	require.NoError(t, store.Save(ctx, sampleSession("old")))
	clock.Advance(30 * time.Second)
	require.NoError(t, store.Save(ctx, sampleSession("fresh")))
	clock.Advance(30 * time.Second)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}
