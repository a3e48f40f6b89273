package pool

import (
	"context"
	"errors"
	"sync"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xcontext"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

var errAlreadyEntered = xerrors.Wrap(errors.New("ydb: scoped checkout already entered"))

// Scoped holds session checked out from pool between Enter and Exit
type Scoped struct {
	pool Pool
	opts []CheckoutOption

	mu      sync.Mutex
	entered bool
	session *session.Session
	lease   *session.Lease
}

func NewScoped(p Pool, opts ...CheckoutOption) *Scoped {
	return &Scoped{
		pool: p,
		opts: opts,
	}
}

// Enter checks out session. Scoped can be entered once.
func (sc *Scoped) Enter(ctx context.Context) (*session.Session, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.entered {
		return nil, xerrors.WithStackTrace(errAlreadyEntered)
	}
	sc.entered = true

	s, err := sc.pool.Checkout(ctx, sc.opts...)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	sc.session = s
	sc.lease = s.Lease()

	return s, nil
}

// Session returns entered session or nil
func (sc *Scoped) Session() *session.Session {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.session
}

// Exit returns session to the pool. Session reclaimed by leak detector is not
// returned. Repeated Exit is no-op.
func (sc *Scoped) Exit(ctx context.Context) error {
	sc.mu.Lock()
	s, lease := sc.session, sc.lease
	sc.session, sc.lease = nil, nil
	sc.mu.Unlock()

	if s == nil {
		return nil
	}
	if lease == nil || lease.Session() == nil {
		return nil
	}

	// reclaim may take session between lease check and checkin
	err := sc.pool.checkin(xcontext.ValueOnly(ctx), s, lease)
	if err != nil && !xerrors.Is(err, ErrDoubleReturn) {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

// With checks out session, calls f and returns session to the pool even if
// f panics
func With(
	ctx context.Context,
	p Pool,
	f func(ctx context.Context, s *session.Session) error,
	opts ...CheckoutOption,
) (finalErr error) {
	sc := NewScoped(p, opts...)

	s, err := sc.Enter(ctx)
	if err != nil {
		return xerrors.WithStackTrace(err)
	}
	defer func() {
		if exitErr := sc.Exit(ctx); exitErr != nil {
			finalErr = xerrors.Join(finalErr, exitErr)
		}
	}()

	if err = f(ctx, s); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
