package pool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rekby/fixenv"
	"github.com/rekby/fixenv/sf"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xtest"
	"github.com/ydb-platform/ydb-go-sessionpool/log"
	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

const testLeakThreshold = 60 * time.Minute

func leakyFixed(t *testing.T, e fixenv.Env, rec *recorder, opts ...config.Option) *Fixed {
	t.Helper()

	return boundFixed(t, e, append([]config.Option{
		config.WithSize(2),
		config.WithLeakThreshold(testLeakThreshold),
		config.WithStackCapture(true),
		config.WithTrace(rec.trace()),
	}, opts...)...)
}

func TestLeakReclaim(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	clock := FakeClock(e)
	rec := &recorder{}
	p := leakyFixed(t, e, rec, config.WithReclaimPolicy(config.PolicyReclaim))

	s, err := p.Checkout(ctx)
	require.NoError(t, err)
	lease := s.Lease()
	tx := s.Transaction()
	require.Same(t, s, lease.Session())

	clock.Advance(testLeakThreshold + time.Minute)
	p.leak.start()

	xtest.SpinWaitCondition(t, nil, func() bool {
		return p.Stats().Reclaimed == 1
	})
	require.Equal(t, 2, p.Stats().Idle)
	require.Zero(t, p.Stats().CheckedOut)
	require.Nil(t, lease.Session())
	require.Nil(t, tx.Session())
	require.ErrorIs(t, tx.Err(), session.ErrDetached)
	require.Equal(t, session.StatusIdle, s.State())

	reclaims := rec.snapshot().leakReclaims
	require.Len(t, reclaims, 1)
	require.Equal(t, s.ID(), reclaims[0].Session.ID())
	require.Equal(t, testLeakThreshold+time.Minute, reclaims[0].Age)
	require.NoError(t, reclaims[0].Error)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(config.DefaultLeakScanInterval)

	xtest.SpinWaitCondition(t, nil, func() bool {
		return !p.Stats().LeakDetectorRunning
	})
	stops := rec.snapshot().detectorStops
	require.Len(t, stops, 1)
	require.Equal(t, leakStopBelowWatermark, stops[0].Reason)
	require.Equal(t, 1, stops[0].Reclaimed)
	require.Equal(t, 2, stops[0].Iterations)

	require.ErrorIs(t, p.Checkin(ctx, s), ErrDoubleReturn)
}

func TestLeakLogOnly(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	clock := FakeClock(e)
	rec := &recorder{}
	core, logs := observer.New(zapcore.DebugLevel)
	db := &testDatabase{
		name:   "/local",
		client: MockService(e),
		logger: log.Zap(zap.New(core)),
	}
	p := NewFixed(testOptions(e,
		config.WithSize(2),
		config.WithWatermark(0.5),
		config.WithLeakThreshold(testLeakThreshold),
		config.WithLeakTotalCap(3*time.Hour),
		config.WithStackCapture(true),
		config.WithReclaimPolicy(config.PolicyLog),
		config.WithTrace(rec.trace()),
	)...)
	defer closePool(t, p)
	require.NoError(t, p.Bind(ctx, db))

	s, err := p.Checkout(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, s.CheckoutStack())
	require.True(t, p.Stats().LeakDetectorRunning)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(testLeakThreshold + time.Minute)

	xtest.SpinWaitCondition(t, nil, func() bool {
		return logs.FilterLevelExact(zapcore.WarnLevel).Len() == 1
	})
	require.True(t, s.AlreadyLogged())

	// next iterations do not repeat warning
	for i := 0; i < 3; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(config.DefaultLeakScanInterval)
	}
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	require.Equal(t, int64(1), p.Stats().LeakWarnings)
	require.True(t, p.Stats().LeakDetectorRunning)
	require.Zero(t, p.Stats().Reclaimed)
	require.Equal(t, 1, p.Stats().CheckedOut)
	require.Equal(t, session.StatusCheckedOut, s.State())
	require.Same(t, s, s.Lease().Session())

	snapshot := rec.snapshot()
	require.Empty(t, snapshot.detectorStops)
	require.Empty(t, snapshot.leakReclaims)
	require.Len(t, snapshot.leakDetected, 1)
	require.Equal(t, s.ID(), snapshot.leakDetected[0].Session.ID())
	require.Equal(t, s.CheckoutStack(), snapshot.leakDetected[0].Stack)
	require.Equal(t, testLeakThreshold+time.Minute, snapshot.leakDetected[0].Age)

	entries := logs.FilterLevelExact(zapcore.WarnLevel).AllUntimed()
	require.Len(t, entries, 1)
	require.Equal(t, "session checked out too long", entries[0].Message)
	require.Equal(t, s.ID(), entries[0].ContextMap()["id"])

	require.NoError(t, p.Checkin(ctx, s))
}

func TestLeakLongRunningExemption(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	clock := FakeClock(e)
	rec := &recorder{}
	p := leakyFixed(t, e, rec, config.WithReclaimPolicy(config.PolicyReclaim))

	var sessions []*session.Session
	for i := 0; i < 2; i++ {
		s, err := p.Checkout(ctx, WithLongRunning(true))
		require.NoError(t, err)
		require.True(t, s.LongRunning())
		sessions = append(sessions, s)
	}
	require.True(t, p.Stats().LeakDetectorRunning)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(testLeakThreshold + time.Minute)

	xtest.SpinWaitCondition(t, nil, func() bool {
		return !p.Stats().LeakDetectorRunning
	})

	snapshot := rec.snapshot()
	require.Empty(t, snapshot.leakDetected)
	require.Empty(t, snapshot.leakReclaims)
	require.Len(t, snapshot.detectorStops, 1)
	require.Equal(t, leakStopTotalCap, snapshot.detectorStops[0].Reason)
	require.Zero(t, snapshot.detectorStops[0].Reclaimed)
	require.Equal(t, 2, p.Stats().CheckedOut)

	for _, s := range sessions {
		require.NoError(t, p.Checkin(ctx, s))
	}
}

func TestLeakPolicyFromDatabase(t *testing.T) {
	for _, tt := range []struct {
		name          string
		closeInactive bool
		policy        config.ReclaimPolicy
	}{
		{
			name:          "Reclaim",
			closeInactive: true,
			policy:        config.PolicyReclaim,
		},
		{
			name:          "Log",
			closeInactive: false,
			policy:        config.PolicyLog,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			e := fixenv.New(t)
			p := NewFixed(testOptions(e)...)
			defer closePool(t, p)
			require.NoError(t, p.Bind(sf.Context(e), &testDatabase{
				name:          "/local",
				client:        MockService(e),
				closeInactive: tt.closeInactive,
			}))
			require.Equal(t, tt.policy, p.leak.policy())
		})
	}
	t.Run("OptionOverridesDatabase", func(t *testing.T) {
		e := fixenv.New(t)
		p := NewFixed(testOptions(e, config.WithReclaimPolicy(config.PolicyLog))...)
		defer closePool(t, p)
		require.NoError(t, p.Bind(sf.Context(e), &testDatabase{
			name:          "/local",
			client:        MockService(e),
			closeInactive: true,
		}))
		require.Equal(t, config.PolicyLog, p.leak.policy())
	})
}

func TestLeakDetectorWatermark(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	clock := FakeClock(e)
	rec := &recorder{}
	p := leakyFixed(t, e, rec, config.WithSize(4), config.WithWatermark(0.5))

	a, err := p.Checkout(ctx)
	require.NoError(t, err)
	require.False(t, p.Stats().LeakDetectorRunning)

	b, err := p.Checkout(ctx)
	require.NoError(t, err)
	require.True(t, p.Stats().LeakDetectorRunning)

	// second start is no-op
	p.leak.start()

	require.NoError(t, p.Checkin(ctx, b))

	xtest.SpinWaitCondition(t, nil, func() bool {
		clock.Advance(config.DefaultLeakScanInterval)

		return !p.Stats().LeakDetectorRunning
	})
	stops := rec.snapshot().detectorStops
	require.Len(t, stops, 1)
	require.Equal(t, leakStopBelowWatermark, stops[0].Reason)

	require.NoError(t, p.Checkin(ctx, a))
}

func TestLeakDetectorPerPool(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	busy := boundFixed(t, e, config.WithSize(1))
	other := NewFixed(testOptions(e, config.WithSize(1))...)
	defer closePool(t, other)
	require.NoError(t, other.Bind(ctx, &testDatabase{name: "/other", client: MockService(e)}))

	s, err := busy.Checkout(ctx)
	require.NoError(t, err)
	require.True(t, busy.Stats().LeakDetectorRunning)
	require.False(t, other.Stats().LeakDetectorRunning)

	o, err := other.Checkout(ctx)
	require.NoError(t, err)
	require.True(t, other.Stats().LeakDetectorRunning)

	require.NoError(t, other.Close(ctx))
	require.False(t, other.Stats().LeakDetectorRunning)
	require.True(t, busy.Stats().LeakDetectorRunning)

	require.ErrorIs(t, other.Checkin(ctx, o), ErrPoolClosed)
	require.NoError(t, busy.Checkin(ctx, s))
}

func TestLeakDetectorRestartWhileStopping(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	clock := FakeClock(e)
	rec := &recorder{}

	var (
		p        *Fixed
		starts   atomic.Int32
		stopping atomic.Bool
		late     *session.Session
		lateErr  error
		lateDone = make(chan struct{})
	)
	p = leakyFixed(t, e, rec,
		config.WithWatermark(0.5),
		config.WithReclaimPolicy(config.PolicyReclaim),
		config.WithTrace(&trace.Pool{
			OnLeakDetectorStart: func(trace.PoolLeakDetectorStartInfo) {
				starts.Add(1)
			},
			OnLeakDetectorStop: func(info trace.PoolLeakDetectorStopInfo) {
				// checkout crosses watermark while loop is exiting
				if info.Reason == leakStopBelowWatermark && stopping.CompareAndSwap(false, true) {
					late, lateErr = p.Checkout(ctx, WithTimeout(0))
					close(lateDone)
				}
			},
		}),
	)

	a, err := p.Checkout(ctx)
	require.NoError(t, err)
	require.True(t, p.Stats().LeakDetectorRunning)
	require.NoError(t, p.Checkin(ctx, a))

	xtest.SpinWaitCondition(t, nil, func() bool {
		clock.Advance(config.DefaultLeakScanInterval)

		return stopping.Load()
	})
	xtest.WaitChannelClosed(t, lateDone)
	require.NoError(t, lateErr)

	xtest.SpinWaitCondition(t, nil, func() bool {
		return starts.Load() == 2
	})
	require.True(t, p.Stats().LeakDetectorRunning)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(testLeakThreshold + time.Minute)

	xtest.SpinWaitCondition(t, nil, func() bool {
		return p.Stats().Reclaimed == 1
	})
	require.Zero(t, p.Stats().CheckedOut)
	require.Nil(t, late.Lease())
	require.Equal(t, session.StatusIdle, late.State())
}
