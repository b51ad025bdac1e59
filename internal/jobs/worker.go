package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/givenly/donor-api/pkg/logger"
)

// Job represents a background task
type Job func(ctx context.Context) error

// Worker runs asynchronous and scheduled background jobs. Reconciliation
// fan-outs dispatched here are idempotent, so a job that fails is safe
// to dispatch again.
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	asyncSem chan struct{}
}

// NewWorker creates a worker that runs at most maxConcurrent async jobs
// at a time.
func NewWorker(maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:      ctx,
		cancel:   cancel,
		asyncSem: make(chan struct{}, maxConcurrent),
	}
}

// EnqueueAsync runs a job in its own goroutine, bounded by the
// concurrency semaphore. The wait group is joined before the goroutine
// starts so Shutdown cannot miss a job dispatched just before it.
func (w *Worker) EnqueueAsync(job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.asyncSem <- struct{}{}
		defer func() { <-w.asyncSem }()

		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("[Worker] Async job panic: %v", r))
			}
		}()

		if err := job(w.ctx); err != nil {
			logger.Error(fmt.Sprintf("[Worker] Async job error: %v", err))
		}
	}()
}

// ScheduleEvery runs a job at fixed intervals, first run after the
// interval.
func (w *Worker) ScheduleEvery(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduledJob(job)
			}
		}
	}()
}

// ScheduleEveryImmediate runs a job once at startup, then at fixed
// intervals, so sweeps run soon after a restart instead of waiting a
// full interval.
func (w *Worker) ScheduleEveryImmediate(interval time.Duration, job Job) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runScheduledJob(job)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.ctx.Done():
				return
			case <-ticker.C:
				w.runScheduledJob(job)
			}
		}
	}()
}

func (w *Worker) runScheduledJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("[Scheduler] Job panic: %v", r))
		}
	}()
	start := time.Now()
	if err := job(w.ctx); err != nil {
		logger.Error(fmt.Sprintf("[Scheduler] Job error: %v", err))
	} else {
		logger.Info(fmt.Sprintf("[Scheduler] Job completed in %v", time.Since(start)))
	}
}

// Shutdown stops the schedulers and waits for in-flight jobs.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
}
