package pool

import (
	"context"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
)

const (
	KindFixed   = "fixed"
	KindElastic = "elastic"
	KindPinging = "pinging"
)

var (
	_ Pool = (*Fixed)(nil)
	_ Pool = (*Elastic)(nil)
	_ Pool = (*Pinging)(nil)
)

// Pool is a common interface of session pools
type Pool interface {
	Bind(ctx context.Context, db Database) error
	Checkout(ctx context.Context, opts ...CheckoutOption) (*session.Session, error)
	Checkin(ctx context.Context, s *session.Session) error
	Close(ctx context.Context) error
	Stats() Stats

	checkin(ctx context.Context, s *session.Session, lease *session.Lease) error
}

// Stats is a snapshot of pool state
type Stats struct {
	Kind       string
	Capacity   int
	Idle       int
	CheckedOut int
	Waiters    int

	// Reclaimed is a count of sessions returned by leak detector
	Reclaimed int64
	// LeakWarnings is a count of leaked sessions reported by leak detector
	LeakWarnings int64

	LeakDetectorRunning bool
	Closed              bool
}
