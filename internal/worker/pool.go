package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vytor/quizflash/internal/logger"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("worker queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("worker pool is stopped")
)

type Job interface {
	Run(context.Context) error
	Name() string
}

type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 8
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i+1)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	workerLog := p.log.WithField("worker_id", id)
	workerLog.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			workerLog.Debug("worker shutting down (context cancelled)")
			return
		case job, ok := <-p.jobs:
			if !ok {
				workerLog.Debug("worker shutting down (queue closed)")
				return
			}

			jobLog := workerLog.WithField("job", job.Name())
			start := time.Now()
			if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
				jobLog.Error("job failed after %v: %v", time.Since(start), err)
			} else {
				jobLog.Debug("job completed in %v", time.Since(start))
			}
		}
	}
}

// Stop cancels running jobs and waits for every worker to exit. It is safe to call more than once.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.log.Info("stopping worker pool")
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.log.Info("worker pool stopped")
}

// Submit queues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}

	select {
	case p.jobs <- job:
		p.log.Debug("submitted job: %s", job.Name())
		return nil
	default:
		p.log.Warn("dropping job %s: queue full", job.Name())
		return ErrQueueFull
	}
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
