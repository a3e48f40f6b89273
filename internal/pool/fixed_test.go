package pool

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rekby/fixenv"
	"github.com/rekby/fixenv/sf"
	"github.com/stretchr/testify/require"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/mock"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xtest"
)

func TestFixedLIFO(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	p := boundFixed(t, e, config.WithSize(4))

	created := MockService(e).Created()
	require.Len(t, created, 4)
	require.Equal(t, []string{created[3], created[2], created[1], created[0]}, idleIDs(p.coordinator))

	var sessions []*session.Session
	for i := 3; i >= 0; i-- {
		s, err := p.Checkout(ctx)
		require.NoError(t, err)
		require.Equal(t, created[i], s.ID())
		require.Equal(t, session.StatusCheckedOut, s.State())
		sessions = append(sessions, s)
	}
	require.Equal(t, 4, p.Stats().CheckedOut)
	require.Zero(t, p.Stats().Idle)

	for _, s := range sessions {
		require.NoError(t, p.Checkin(ctx, s))
		require.Equal(t, session.StatusIdle, s.State())
	}
	stats := p.Stats()
	require.Equal(t, KindFixed, stats.Kind)
	require.Equal(t, 4, stats.Capacity)
	require.Equal(t, 4, stats.Idle)
	require.Zero(t, stats.CheckedOut)
	require.ElementsMatch(t, created, idleIDs(p.coordinator))
}

func TestFixedExpiredReplacement(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	svc := MockService(e)
	p := boundFixed(t, e, config.WithSize(4))

	head := idleIDs(p.coordinator)[0]
	svc.Expire(head)

	FakeClock(e).Advance(config.DefaultMaxIdleAge)

	s, err := p.Checkout(ctx)
	require.NoError(t, err)
	require.NotEqual(t, head, s.ID())
	require.Len(t, svc.Created(), 5)
	require.Equal(t, svc.Created()[4], s.ID())
	require.Equal(t, 1, svc.ExistsCalls())
	require.Equal(t, 1, svc.DeleteCalls())
	require.NotContains(t, idleIDs(p.coordinator), head)

	stats := p.Stats()
	require.Equal(t, 3, stats.Idle)
	require.Equal(t, 1, stats.CheckedOut)
}

func TestFixedIdleAgeProbe(t *testing.T) {
	t.Run("Fresh", func(t *testing.T) {
		e := fixenv.New(t)
		p := boundFixed(t, e, config.WithSize(1))

		FakeClock(e).Advance(config.DefaultMaxIdleAge - time.Second)

		s, err := p.Checkout(sf.Context(e))
		require.NoError(t, err)
		require.Zero(t, MockService(e).ExistsCalls())
		require.NoError(t, p.Checkin(sf.Context(e), s))
	})
	t.Run("ProbeFailed", func(t *testing.T) {
		e := fixenv.New(t)
		svc := MockService(e)
		p := boundFixed(t, e, config.WithSize(1))

		testErr := errors.New("test")
		svc.FailExists(testErr)
		FakeClock(e).Advance(config.DefaultMaxIdleAge)

		_, err := p.Checkout(sf.Context(e))
		require.ErrorIs(t, err, testErr)
		require.Equal(t, 1, p.Stats().Idle)
		require.Zero(t, p.Stats().CheckedOut)
	})
	t.Run("ReplacementFailed", func(t *testing.T) {
		e := fixenv.New(t)
		svc := MockService(e)
		p := boundFixed(t, e, config.WithSize(1))

		svc.Expire(svc.Created()[0])
		svc.FailCreate(errors.New("test"))
		FakeClock(e).Advance(config.DefaultMaxIdleAge)

		_, err := p.Checkout(sf.Context(e))
		require.ErrorIs(t, err, ErrSessionUnavailable)
		require.ErrorIs(t, err, ErrCreateFailed)
		require.Zero(t, p.Stats().Idle)
	})
}

func TestFixedCheckoutTimeout(t *testing.T) {
	t.Run("ZeroTimeout", func(t *testing.T) {
		e := fixenv.New(t)
		p := boundFixed(t, e, config.WithSize(1))

		s, err := p.Checkout(sf.Context(e))
		require.NoError(t, err)

		_, err = p.Checkout(sf.Context(e), WithTimeout(0))
		require.ErrorIs(t, err, ErrPoolEmpty)
		require.Zero(t, p.Stats().Waiters)

		require.NoError(t, p.Checkin(sf.Context(e), s))
	})
	t.Run("Expired", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		clock := FakeClock(e)
		p := boundFixed(t, e, config.WithSize(1))

		s, err := p.Checkout(ctx)
		require.NoError(t, err)

		errs := make(chan error, 1)
		go func() {
			_, err := p.Checkout(ctx, WithTimeout(time.Second))
			errs <- err
		}()

		// leak detector sleep and checkout timer
		require.NoError(t, clock.BlockUntilContext(ctx, 2))
		clock.Advance(time.Second)

		require.ErrorIs(t, <-errs, ErrPoolEmpty)
		require.Zero(t, p.Stats().Waiters)
		require.NoError(t, p.Checkin(ctx, s))
	})
	t.Run("ContextCanceled", func(t *testing.T) {
		e := fixenv.New(t)
		p := boundFixed(t, e, config.WithSize(1))

		s, err := p.Checkout(sf.Context(e))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(sf.Context(e))
		cancel()
		_, err = p.Checkout(ctx)
		require.ErrorIs(t, err, context.Canceled)

		require.NoError(t, p.Checkin(sf.Context(e), s))
	})
}

func TestFixedWaiterReceivesReturnedSession(t *testing.T) {
	e := fixenv.New(t)
	ctx := sf.Context(e)
	p := boundFixed(t, e, config.WithSize(1))

	s, err := p.Checkout(ctx)
	require.NoError(t, err)

	type result struct {
		s   *session.Session
		err error
	}
	results := make(chan result, 1)
	go func() {
		s, err := p.Checkout(ctx, WithTimeout(time.Hour))
		results <- result{s: s, err: err}
	}()

	xtest.SpinWaitCondition(t, nil, func() bool {
		return p.Stats().Waiters == 1
	})
	require.NoError(t, p.Checkin(ctx, s))

	r := <-results
	require.NoError(t, r.err)
	require.Same(t, s, r.s)
	require.Equal(t, session.StatusCheckedOut, r.s.State())
	require.NoError(t, p.Checkin(ctx, r.s))
}

func TestFixedCheckin(t *testing.T) {
	t.Run("DoubleReturn", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		p := boundFixed(t, e, config.WithSize(1))

		s, err := p.Checkout(ctx)
		require.NoError(t, err)
		require.NoError(t, p.Checkin(ctx, s))
		require.ErrorIs(t, p.Checkin(ctx, s), ErrDoubleReturn)
		require.Equal(t, 1, p.Stats().Idle)
	})
	t.Run("ForeignSession", func(t *testing.T) {
		e := fixenv.New(t)
		p := boundFixed(t, e, config.WithSize(1))

		require.ErrorIs(t, p.Checkin(sf.Context(e), session.New("foreign", MockService(e))), ErrDoubleReturn)
		require.Error(t, p.Checkin(sf.Context(e), nil))
	})
	t.Run("Full", func(t *testing.T) {
		e := fixenv.New(t)
		svc := MockService(e)
		p := boundFixed(t, e, config.WithSize(1))

		extra := session.New("extra", svc)
		extra.CompareAndSwapState(session.StatusIdle, session.StatusCheckedOut)
		p.checkedOut.Add(extra)

		require.ErrorIs(t, p.Checkin(sf.Context(e), extra), ErrPoolFull)
		xtest.SpinWaitCondition(t, nil, func() bool {
			return extra.State() == session.StatusDeleted
		})
		require.Equal(t, 1, p.Stats().Idle)
	})
	t.Run("DeletedByHolder", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		p := boundFixed(t, e, config.WithSize(2))

		s, err := p.Checkout(ctx)
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx))
		require.NoError(t, p.Checkin(ctx, s))
		require.NotContains(t, idleIDs(p.coordinator), s.ID())
		require.Zero(t, p.Stats().CheckedOut)
	})
}

func TestFixedNotBound(t *testing.T) {
	e := fixenv.New(t)
	p := NewFixed(testOptions(e)...)
	defer closePool(t, p)

	_, err := p.Checkout(sf.Context(e))
	require.ErrorIs(t, err, ErrNotBound)
}

func TestFixedClose(t *testing.T) {
	t.Run("DeletesCreatedSessions", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		svc := MockService(e)
		p := boundFixed(t, e, config.WithSize(3))

		created := svc.Created()
		require.NoError(t, p.Close(ctx))

		deleted := svc.Deleted()
		sort.Strings(created)
		sort.Strings(deleted)
		require.Equal(t, created, deleted)
		require.Zero(t, svc.AliveCount())
		require.True(t, p.Stats().Closed)

		require.ErrorIs(t, p.Close(ctx), ErrPoolClosed)
		_, err := p.Checkout(ctx)
		require.ErrorIs(t, err, ErrPoolClosed)
	})
	t.Run("CheckinAfterClose", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		svc := MockService(e)
		p := boundFixed(t, e, config.WithSize(2))

		s, err := p.Checkout(ctx)
		require.NoError(t, err)
		require.NoError(t, p.Close(ctx))
		require.True(t, svc.Alive(s.ID()))

		require.ErrorIs(t, p.Checkin(ctx, s), ErrPoolClosed)
		xtest.SpinWaitCondition(t, nil, func() bool {
			return !svc.Alive(s.ID()) && s.State() == session.StatusDeleted
		})
	})
	t.Run("CheckinAfterCloseDoesNotWaitDelete", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		svc := MockService(e)
		client := &gatedDeleteClient{Service: svc}
		p := NewFixed(testOptions(e, config.WithSize(2), config.WithDeleteTimeout(time.Minute))...)
		defer closePool(t, p)
		require.NoError(t, p.Bind(ctx, &testDatabase{name: "/local", client: client}))

		s, err := p.Checkout(ctx)
		require.NoError(t, err)
		require.NoError(t, p.Close(ctx))

		release := client.hold()
		var (
			checkinErr  error
			checkinDone = make(chan struct{})
		)
		go func() {
			defer close(checkinDone)
			checkinErr = p.Checkin(ctx, s)
		}()
		xtest.WaitChannelClosed(t, checkinDone)
		require.ErrorIs(t, checkinErr, ErrPoolClosed)
		require.True(t, svc.Alive(s.ID()))

		close(release)
		xtest.SpinWaitCondition(t, nil, func() bool {
			return !svc.Alive(s.ID()) && s.State() == session.StatusDeleted
		})
	})
	t.Run("WakesWaiters", func(t *testing.T) {
		e := fixenv.New(t)
		ctx := sf.Context(e)
		p := boundFixed(t, e, config.WithSize(1))

		s, err := p.Checkout(ctx)
		require.NoError(t, err)

		errs := make(chan error, 1)
		go func() {
			_, err := p.Checkout(ctx, WithTimeout(time.Hour))
			errs <- err
		}()
		xtest.SpinWaitCondition(t, nil, func() bool {
			return p.Stats().Waiters == 1
		})

		require.NoError(t, p.Close(ctx))
		require.ErrorIs(t, <-errs, ErrPoolClosed)
		require.ErrorIs(t, p.Checkin(ctx, s), ErrPoolClosed)
	})
	t.Run("DeleteError", func(t *testing.T) {
		e := fixenv.New(t)
		svc := MockService(e)
		p := boundFixed(t, e, config.WithSize(2))

		svc.FailDelete(xerrors.Transport())
		err := p.Close(sf.Context(e))
		require.Error(t, err)
		require.True(t, xerrors.IsTransportError(err))
	})
}

func TestFixedConcurrentCheckout(t *testing.T) {
	xtest.TestManyTimes(t, func(t testing.TB) {
		var (
			ctx = xtest.Context(t)
			svc = mock.NewService()
			rec = &recorder{capacity: 4}
			p   = NewFixed(
				config.WithSize(4),
				config.WithTrace(rec.trace()),
			)
		)
		require.NoError(t, p.Bind(ctx, &testDatabase{name: "/local", client: svc}))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					s, err := p.Checkout(ctx, WithTimeout(time.Minute))
					if err != nil {
						t.Errorf("checkout failed: %v", err)

						return
					}
					if s.CheckedOutAt().IsZero() {
						t.Errorf("checked out session %s has no checkout time", s.ID())
					}
					if err = p.Checkin(ctx, s); err != nil {
						t.Errorf("checkin failed: %v", err)

						return
					}
				}
			}()
		}
		xtest.WaitGroup(t, &wg)

		require.Zero(t, rec.snapshot().overCapacity)
		require.Equal(t, 4, p.Stats().Idle)
		require.Zero(t, p.Stats().CheckedOut)
		require.Equal(t, 4, svc.AliveCount())
		require.Len(t, svc.Created(), 4)
		require.NoError(t, p.Close(ctx))
	}, xtest.StopAfter(time.Second))
}

func TestFixedSessionTemplate(t *testing.T) {
	e := fixenv.New(t)
	svc := MockService(e)
	p := boundFixed(t, e,
		config.WithSize(1),
		config.WithCreatorRole("writer"),
		config.WithLabels(map[string]string{"zone": "a"}),
	)

	s, err := p.Checkout(sf.Context(e))
	require.NoError(t, err)
	require.Equal(t, "/local", s.Database())
	require.Equal(t, "writer", s.CreatorRole())
	require.Equal(t, map[string]string{"zone": "a"}, s.Labels())

	template, ok := svc.Template(s.ID())
	require.True(t, ok)
	require.Equal(t, rpc.Template{
		CreatorRole: "writer",
		Labels:      map[string]string{"zone": "a"},
	}, template)
}

// gatedDeleteClient holds session deletes until gate returned by hold is closed
type gatedDeleteClient struct {
	*mock.Service

	mu   sync.Mutex
	gate chan struct{}
}

func (c *gatedDeleteClient) hold() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gate = make(chan struct{})

	return c.gate
}

func (c *gatedDeleteClient) DeleteSession(ctx context.Context, id string) error {
	c.mu.Lock()
	gate := c.gate
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return c.Service.DeleteSession(ctx, id)
}
