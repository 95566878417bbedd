package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/quizflash/internal/logger"
)

// Purger removes expired sessions from a store.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeSessionsJob runs one expired-session sweep.
type PurgeSessionsJob struct {
	Store Purger
}

func (j *PurgeSessionsJob) Name() string { return "purge_sessions" }

func (j *PurgeSessionsJob) Run(ctx context.Context) error {
	n, err := j.Store.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("purged %d expired sessions", n)
	}
	return nil
}

// Every submits a job built by next on each tick until ctx is done.
// A tick is skipped when the previous job is still queued.
func Every(ctx context.Context, pool *Pool, interval time.Duration, next func() Job) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pool.QueueSize() > 0 {
				continue
			}
			err := pool.Submit(next())
			if errors.Is(err, ErrStopped) {
				return
			}
			if err != nil {
				logger.Default().WithPrefix("scheduler").Debug("tick skipped: %v", err)
			}
		}
	}
}
