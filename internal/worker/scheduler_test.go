package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

func TestScheduler_RunsJobUntilStopped(t *testing.T) {
	s := NewScheduler(time.Second, logger.NewNop())

	var runs atomic.Int32
	require.NoError(t, s.AddJob("expire_pending", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return errors.New("ignored")
	}))

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	stopped := runs.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	s := NewScheduler(0, logger.NewNop())

	started := make(chan struct{}, 1)
	require.NoError(t, s.AddJob("slow", "@every 1s", func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		return ctx.Err()
	}))

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(time.Second, logger.NewNop())

	err := s.AddJob("broken", "every five minutes", func(context.Context) error { return nil })
	assert.Error(t, err)
}
