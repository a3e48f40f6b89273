package sessionpool

import (
	"context"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
)

type (
	// Pool is a common interface of Fixed, Elastic and Pinging pools
	Pool = pool.Pool

	Fixed   = pool.Fixed
	Elastic = pool.Elastic
	Pinging = pool.Pinging

	Stats   = pool.Stats
	Scoped  = pool.Scoped
	Session = session.Session
)

const (
	KindFixed   = pool.KindFixed
	KindElastic = pool.KindElastic
	KindPinging = pool.KindPinging
)

var (
	ErrPoolEmpty          = pool.ErrPoolEmpty
	ErrPoolFull           = pool.ErrPoolFull
	ErrSessionUnavailable = pool.ErrSessionUnavailable
	ErrCreateFailed       = pool.ErrCreateFailed
	ErrPoolClosed         = pool.ErrPoolClosed
	ErrNotBound           = pool.ErrNotBound
	ErrAlreadyBound       = pool.ErrAlreadyBound
	ErrDoubleReturn       = pool.ErrDoubleReturn

	ErrSessionNotFound = rpc.ErrSessionNotFound
	ErrDetached        = session.ErrDetached
	ErrInvalidConfig   = config.ErrInvalidConfig
)

// NewFixed makes pool of fixed size. Sessions are created by Bind.
func NewFixed(opts ...Option) *Fixed {
	return pool.NewFixed(opts...)
}

// NewElastic makes pool which creates sessions on demand and keeps up to
// target size of idle sessions
func NewElastic(opts ...Option) *Elastic {
	return pool.NewElastic(opts...)
}

// NewPinging makes pool of fixed size which keeps sessions alive by
// RefreshStale
func NewPinging(opts ...Option) *Pinging {
	return pool.NewPinging(opts...)
}

// With checks out session from p, calls f and returns session to p.
// Session is returned even if f panics.
func With(ctx context.Context, p Pool, f func(ctx context.Context, s *Session) error, opts ...CheckoutOption) error {
	return pool.With(ctx, p, f, opts...)
}

// NewScoped makes scoped checkout from p. Use Enter and Exit for check out
// and return of session.
func NewScoped(p Pool, opts ...CheckoutOption) *Scoped {
	return pool.NewScoped(p, opts...)
}
