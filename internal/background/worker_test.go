package background

import (
	"context"
	"errors"
	"runtime"
	"runtime/pprof"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/empty"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xtest"
)

func TestWorkerContext(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		w := Worker{}
		require.NotNil(t, w.Context())
		require.NotNil(t, w.stop)
		require.NoError(t, w.Close(context.Background(), nil))
	})

	t.Run("Dedicated", func(t *testing.T) {
		type ctxkey struct{}
		ctx := context.WithValue(context.Background(), ctxkey{}, "2")
		w := NewWorker(ctx, "test-worker")
		require.Equal(t, "2", w.Context().Value(ctxkey{}))
		require.NoError(t, w.Close(ctx, nil))
	})

	t.Run("Stop", func(t *testing.T) {
		w := NewWorker(context.Background(), "test-worker")
		ctx := w.Context()
		require.NoError(t, ctx.Err())

		_ = w.Close(context.Background(), nil)
		require.Error(t, ctx.Err())
	})
}

func TestWorkerStart(t *testing.T) {
	t.Run("Started", func(t *testing.T) {
		w := NewWorker(xtest.Context(t), "test-worker")
		defer func() {
			_ = w.Close(context.Background(), nil)
		}()

		started := make(empty.Chan)
		w.Start("test", func(ctx context.Context) {
			close(started)
		})
		xtest.WaitChannelClosed(t, started)
	})
	t.Run("Labels", func(t *testing.T) {
		w := NewWorker(xtest.Context(t), "pool")
		defer func() {
			_ = w.Close(context.Background(), nil)
		}()

		labels := make(chan [2]string, 1)
		w.Start("leak-detector", func(ctx context.Context) {
			worker, _ := pprof.Label(ctx, "worker")
			task, _ := pprof.Label(ctx, "background")
			labels <- [2]string{worker, task}
		})
		require.Equal(t, [2]string{"pool", "leak-detector"}, <-labels)
	})
	t.Run("Stopped", func(t *testing.T) {
		ctx := xtest.Context(t)
		w := NewWorker(ctx, "test-worker")
		_ = w.Close(ctx, nil)

		started := make(empty.Chan)
		require.False(t, w.Start("test", func(ctx context.Context) {
			close(started)
		}))

		// expected: no close channel
		time.Sleep(time.Second / 100)
		select {
		case <-started:
			t.Fatal()
		default:
			// pass
		}
	})
}

func TestWorkerClose(t *testing.T) {
	t.Run("StopBackground", func(t *testing.T) {
		ctx := xtest.Context(t)
		w := NewWorker(ctx, "test-worker")

		started := make(empty.Chan)
		stopped := atomic.Bool{}
		w.Start("test", func(innerCtx context.Context) {
			close(started)
			<-innerCtx.Done()
			stopped.Store(true)
		})

		xtest.WaitChannelClosed(t, started)
		require.NoError(t, w.Close(ctx, nil))
		require.True(t, stopped.Load())
	})

	t.Run("DoubleClose", func(t *testing.T) {
		ctx := xtest.Context(t)
		w := NewWorker(ctx, "test-worker")
		require.NoError(t, w.Close(ctx, nil))
		require.ErrorIs(t, w.Close(ctx, nil), ErrAlreadyClosed)
	})

	t.Run("Reason", func(t *testing.T) {
		ctx := xtest.Context(t)
		w := NewWorker(ctx, "test-worker")
		reason := errors.New("pool closed")
		require.NoError(t, w.Close(ctx, reason))
		require.ErrorIs(t, w.CloseReason(), reason)

		w = NewWorker(ctx, "test-worker")
		require.NoError(t, w.Close(ctx, nil))
		require.ErrorIs(t, w.CloseReason(), errClosedWithNilReason)
	})
}

func TestWorkerConcurrentStartAndClose(t *testing.T) {
	xtest.TestManyTimes(t, func(t testing.TB) {
		targetClose := int64(10)

		parallel := runtime.GOMAXPROCS(0)

		var counter atomic.Int64

		ctx := xtest.Context(t)
		w := NewWorker(ctx, "test-worker")

		stopNewStarts := atomic.Bool{}
		var wgStarters sync.WaitGroup
		for i := 0; i < parallel; i++ {
			wgStarters.Add(1)
			go func() {
				defer wgStarters.Done()

				for !stopNewStarts.Load() {
					w.Start("test", func(ctx context.Context) {
						counter.Add(1)
					})
				}
			}()
		}

		xtest.SpinWaitCondition(t, nil, func() bool {
			return counter.Load() > targetClose
		})

		require.NoError(t, w.Close(xtest.ContextWithCommonTimeout(ctx, t), nil))

		stopNewStarts.Store(true)
		xtest.WaitGroup(t, &wgStarters)

		_, ok := <-w.tasks
		require.False(t, ok)
		require.True(t, w.closed)
	})
}
