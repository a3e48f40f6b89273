package config

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

type Option func(*Config)

// WithSize defines pool capacity.
// If size is less than or equal to zero then the DefaultSize is used.
func WithSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithDefaultTimeout defines checkout timeout.
// If timeout is less than or equal to zero then the DefaultTimeout is used.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.defaultTimeout = timeout
		}
	}
}

func WithPingInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.pingInterval = interval
		}
	}
}

func WithLeakThreshold(threshold time.Duration) Option {
	return func(c *Config) {
		if threshold > 0 {
			c.leakThreshold = threshold
		}
	}
}

func WithLeakScanInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval > 0 {
			c.leakScanInterval = interval
		}
	}
}

func WithLeakTotalCap(totalCap time.Duration) Option {
	return func(c *Config) {
		if totalCap > 0 {
			c.leakTotalCap = totalCap
		}
	}
}

// WithWatermark defines fraction of checked out sessions which starts leak detector.
// Values out of (0, 1] are ignored.
func WithWatermark(watermark float64) Option {
	return func(c *Config) {
		if watermark > 0 && watermark <= 1 {
			c.watermark = watermark
		}
	}
}

func WithReclaimPolicy(policy ReclaimPolicy) Option {
	return func(c *Config) {
		c.reclaimPolicy = policy
	}
}

// WithStackCapture enables recording of call stack on checkout.
// Stack is reported with leak warnings.
func WithStackCapture(capture bool) Option {
	return func(c *Config) {
		c.stackCapture = capture
	}
}

func WithLabels(labels map[string]string) Option {
	return func(c *Config) {
		if len(labels) == 0 {
			c.labels = nil

			return
		}
		c.labels = make(map[string]string, len(labels))
		for k, v := range labels {
			c.labels[k] = v
		}
	}
}

func WithCreatorRole(role string) Option {
	return func(c *Config) {
		c.creatorRole = role
	}
}

// WithMaxIdleAge defines idle age after which session existence is checked on checkout.
// Negative value is ignored.
func WithMaxIdleAge(age time.Duration) Option {
	return func(c *Config) {
		if age >= 0 {
			c.maxIdleAge = age
		}
	}
}

func WithBatchCreateLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.batchCreateLimit = limit
		}
	}
}

// WithCreateTimeout limits maximum time spent on create session request
// If timeout is less than or equal to zero then no timeout used
func WithCreateTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.createTimeout = timeout
		} else {
			c.createTimeout = 0
		}
	}
}

// WithDeleteTimeout limits maximum time spent on delete session request
// If timeout is less than or equal to zero then the DefaultDeleteTimeout is used.
func WithDeleteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.deleteTimeout = timeout
		}
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithTrace appends pool trace to early defined traces
func WithTrace(t *trace.Pool, opts ...trace.PoolComposeOption) Option {
	return func(c *Config) {
		c.trace = c.trace.Compose(t, opts...)
	}
}
