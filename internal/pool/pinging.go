package pool

import (
	"context"
	"time"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/stack"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

// Pinging keeps size sessions ordered by next ping deadline. Sessions are
// refreshed by RefreshStale which must be called periodically by owner of
// the pool.
type Pinging struct {
	*coordinator

	interval time.Duration
}

func NewPinging(opts ...config.Option) *Pinging {
	cfg := config.New(opts...)
	interval := cfg.PingInterval()

	return &Pinging{
		coordinator: newCoordinator(cfg, newDeadlineStore(cfg.Size()), discipline{
			kind: KindPinging,
			probeDue: func(s *session.Session, now time.Time) bool {
				return now.After(s.NextPingDeadline())
			},
			beforeIdle: func(s *session.Session, now time.Time) {
				s.SetNextPingDeadline(now.Add(interval))
			},
		}),
		interval: interval,
	}
}

// RefreshStale pings idle sessions whose ping deadline has passed and
// replaces sessions which server lost. Walk stops at first session with
// deadline in future.
func (p *Pinging) RefreshStale(ctx context.Context) (refreshed int, finalErr error) {
	var replaced int

	onDone := trace.PoolOnRefreshStale(p.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*Pinging).RefreshStale"),
	)
	defer func() {
		onDone(refreshed, replaced, finalErr)
	}()

	if db, _ := p.binding(); db == nil {
		return 0, xerrors.WithStackTrace(ErrNotBound)
	}

	stale, err := p.takeStale(p.clock.Now())
	if err != nil {
		return 0, xerrors.WithStackTrace(err)
	}

	for i, s := range stale {
		err := p.ping(ctx, s)
		switch {
		case err == nil:
		case rpc.IsNotFound(err):
			_ = p.deleteSession(ctx, s)

			fresh, createErr := p.create(ctx)
			if createErr != nil {
				p.putBack(stale[i+1:])

				return refreshed, xerrors.WithStackTrace(createErr)
			}
			s = fresh
			replaced++
		default:
			p.putBack(stale[i:])

			return refreshed, xerrors.WithStackTrace(err)
		}

		if err := p.putIdle(s); err != nil {
			p.putBack(stale[i+1:])

			return refreshed, xerrors.WithStackTrace(err)
		}
		refreshed++
	}

	return refreshed, nil
}

// takeStale removes from store all sessions with ping deadline before now
func (p *Pinging) takeStale(now time.Time) (stale []*session.Session, _ error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, xerrors.WithStackTrace(ErrPoolClosed)
	}

	for s := p.store.peek(); s != nil && now.After(s.NextPingDeadline()); s = p.store.peek() {
		stale = append(stale, p.store.pop())
	}

	return stale, nil
}

// putBack returns not refreshed sessions keeping their deadlines
func (p *Pinging) putBack(sessions []*session.Session) {
	var overflow []*session.Session

	p.mu.WithLock(func() {
		for _, s := range sessions {
			if p.closed || !(p.notify(s) || p.store.push(s)) {
				overflow = append(overflow, s)
			}
		}
	})

	for _, s := range overflow {
		p.deleteAsync(s)
	}

	p.onChange()
}
