package pool

import (
	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
)

// Elastic keeps at most size idle sessions. Checkout creates session when
// pool is empty, Checkin deletes sessions which do not fit.
//
// Elastic checks every idle session with Exists before handout unless
// max idle age is configured.
type Elastic struct {
	*coordinator
}

func NewElastic(opts ...config.Option) *Elastic {
	cfg := config.New(append([]config.Option{config.WithMaxIdleAge(0)}, opts...)...)

	return &Elastic{
		coordinator: newCoordinator(cfg, newLIFOStore(cfg.Size()), discipline{
			kind:             KindElastic,
			createOnMiss:     true,
			deleteOnOverflow: true,
			probeDue:         idleAgeProbe(cfg.MaxIdleAge()),
		}),
	}
}
