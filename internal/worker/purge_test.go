package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	return f.n, f.err
}

func TestPurgeSessionsJob(t *testing.T) {
	p := &fakePurger{n: 3}
	job := &PurgeSessionsJob{Store: p}

	assert.Equal(t, "purge_sessions", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(1), p.calls.Load())

	p.err = errors.New("locked")
	assert.Error(t, job.Run(context.Background()))
}

func TestEvery_SubmitsUntilCancelled(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start(context.Background())
	defer pool.Stop()

	p := &fakePurger{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Every(ctx, pool, 5*time.Millisecond, func() Job { return &PurgeSessionsJob{Store: p} })
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not exit")
	}
}

func TestEvery_ExitsWhenPoolStops(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start(context.Background())
	pool.Stop()

	done := make(chan struct{})
	go func() {
		Every(context.Background(), pool, time.Millisecond, func() Job { return &PurgeSessionsJob{Store: &fakePurger{}} })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not exit after pool stop")
	}
}
