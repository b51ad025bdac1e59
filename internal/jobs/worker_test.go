package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAsync_RunsEveryJob(t *testing.T) {
	w := NewWorker(2)

	var ran int64
	for i := 0; i < 20; i++ {
		w.EnqueueAsync(func(ctx context.Context) error {
			atomic.AddInt64(&ran, 1)
			return nil
		})
	}

	w.Shutdown()

	assert.Equal(t, int64(20), atomic.LoadInt64(&ran))
}

func TestShutdown_WaitsForInFlightJobs(t *testing.T) {
	w := NewWorker(1)

	var finished int64
	w.EnqueueAsync(func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt64(&finished, 1)
		return nil
	})

	// Shutdown must not return until the job above completed: the wait
	// group is joined at dispatch time, not inside the goroutine.
	w.Shutdown()

	assert.Equal(t, int64(1), atomic.LoadInt64(&finished))
}

func TestEnqueueAsync_SurvivesFailuresAndPanics(t *testing.T) {
	w := NewWorker(1)

	var ran int64
	w.EnqueueAsync(func(ctx context.Context) error {
		return errors.New("transient failure")
	})
	w.EnqueueAsync(func(ctx context.Context) error {
		panic("bad job")
	})
	w.EnqueueAsync(func(ctx context.Context) error {
		atomic.AddInt64(&ran, 1)
		return nil
	})

	w.Shutdown()

	assert.Equal(t, int64(1), atomic.LoadInt64(&ran))
}

func TestScheduleEveryImmediate_RunsAtStartup(t *testing.T) {
	w := NewWorker(1)
	defer w.Shutdown()

	ran := make(chan struct{}, 1)
	w.ScheduleEveryImmediate(time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		require.Fail(t, "scheduled job did not run at startup")
	}
}
