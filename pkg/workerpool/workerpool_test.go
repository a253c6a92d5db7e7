package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nineties-server/pkg/workerpool"
)

func TestPool_Submit(t *testing.T) {
	t.Run("returns the task result", func(t *testing.T) {
		pool := workerpool.New(2)
		defer pool.Shutdown(context.Background())

		value, err := pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			return "hola", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "hola", value)
	})

	t.Run("returns the task error", func(t *testing.T) {
		pool := workerpool.New(1)
		defer pool.Shutdown(context.Background())

		taskErr := errors.New("boom")
		_, err := pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			return nil, taskErr
		})
		assert.ErrorIs(t, err, taskErr)
	})

	t.Run("limits concurrent tasks to the pool size", func(t *testing.T) {
		pool := workerpool.New(2)
		defer pool.Shutdown(context.Background())

		var running, maxRunning int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
					current := atomic.AddInt32(&running, 1)
					for {
						observed := atomic.LoadInt32(&maxRunning)
						if current <= observed || atomic.CompareAndSwapInt32(&maxRunning, observed, current) {
							break
						}
					}
					<-release
					atomic.AddInt32(&running, -1)
					return nil, nil
				})
			}()
		}

		// Даем задачам время занять слоты
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt32(&maxRunning), int32(2))
	})

	t.Run("slot wait is cancelled by caller context", func(t *testing.T) {
		pool := workerpool.New(1)
		defer pool.Shutdown(context.Background())

		release := make(chan struct{})
		go pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			<-release
			return nil, nil
		})
		time.Sleep(50 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := pool.Submit(ctx, func(ctx context.Context) (interface{}, error) {
			return nil, nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		close(release)
	})

	t.Run("panicking task does not kill the pool", func(t *testing.T) {
		pool := workerpool.New(1)
		defer pool.Shutdown(context.Background())

		_, err := pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			panic("se rompió")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "task panicked")

		value, err := pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, value)
	})
}

func TestPool_Shutdown(t *testing.T) {
	t.Run("rejects new tasks after shutdown", func(t *testing.T) {
		pool := workerpool.New(1)
		require.NoError(t, pool.Shutdown(context.Background()))

		_, err := pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			return nil, nil
		})
		assert.ErrorIs(t, err, workerpool.ErrPoolClosed)
	})

	t.Run("waits for running tasks", func(t *testing.T) {
		pool := workerpool.New(1)

		started := make(chan struct{})
		var finished atomic.Bool
		go pool.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
			close(started)
			time.Sleep(100 * time.Millisecond)
			finished.Store(true)
			return nil, nil
		})

		<-started
		require.NoError(t, pool.Shutdown(context.Background()))
		assert.True(t, finished.Load())
	})
}
