package pool

import (
	"time"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
)

// Fixed keeps exactly size sessions created on Bind. Checkout waits for
// returned session when all sessions are checked out.
type Fixed struct {
	*coordinator
}

func NewFixed(opts ...config.Option) *Fixed {
	cfg := config.New(opts...)

	return &Fixed{
		coordinator: newCoordinator(cfg, newLIFOStore(cfg.Size()), discipline{
			kind:     KindFixed,
			probeDue: idleAgeProbe(cfg.MaxIdleAge()),
		}),
	}
}

// idleAgeProbe requires Exists probe for sessions which were idle too long
func idleAgeProbe(maxIdleAge time.Duration) func(s *session.Session, now time.Time) bool {
	return func(s *session.Session, now time.Time) bool {
		return now.Sub(s.LastUsage()) >= maxIdleAge
	}
}
