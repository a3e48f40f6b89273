package config

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

const (
	DefaultSize             = 10
	DefaultTimeout          = 10 * time.Second
	DefaultPingInterval     = 3000 * time.Second
	DefaultLeakThreshold    = 60 * time.Minute
	DefaultLeakScanInterval = 2 * time.Second
	DefaultLeakTotalCap     = 60 * time.Second
	DefaultWatermark        = 0.95
	DefaultMaxIdleAge       = 55 * time.Minute
	DefaultBatchCreateLimit = 100
	DefaultCreateTimeout    = 5 * time.Second
	DefaultDeleteTimeout    = 500 * time.Millisecond
)

// ReclaimPolicy defines what leak detector does with leaked sessions
type ReclaimPolicy int

const (
	// PolicyFromDatabase takes policy from database close-inactive-transactions flag
	PolicyFromDatabase = ReclaimPolicy(iota)
	// PolicyLog emits one warning per leaked session
	PolicyLog
	// PolicyReclaim detaches leaked session and returns it to pool
	PolicyReclaim
)

func (p ReclaimPolicy) String() string {
	switch p {
	case PolicyLog:
		return "log"
	case PolicyReclaim:
		return "reclaim"
	default:
		return "database"
	}
}

type Config struct {
	size           int
	defaultTimeout time.Duration
	pingInterval   time.Duration

	leakThreshold    time.Duration
	leakScanInterval time.Duration
	leakTotalCap     time.Duration
	watermark        float64
	reclaimPolicy    ReclaimPolicy
	stackCapture     bool

	labels      map[string]string
	creatorRole string

	maxIdleAge       time.Duration
	batchCreateLimit int
	createTimeout    time.Duration
	deleteTimeout    time.Duration

	clock clockwork.Clock
	trace *trace.Pool
}

func New(opts ...Option) *Config {
	c := defaults()
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

func defaults() *Config {
	return &Config{
		size:             DefaultSize,
		defaultTimeout:   DefaultTimeout,
		pingInterval:     DefaultPingInterval,
		leakThreshold:    DefaultLeakThreshold,
		leakScanInterval: DefaultLeakScanInterval,
		leakTotalCap:     DefaultLeakTotalCap,
		watermark:        DefaultWatermark,
		maxIdleAge:       DefaultMaxIdleAge,
		batchCreateLimit: DefaultBatchCreateLimit,
		createTimeout:    DefaultCreateTimeout,
		deleteTimeout:    DefaultDeleteTimeout,
		clock:            clockwork.NewRealClock(),
		trace:            &trace.Pool{},
	}
}

// Size is a capacity of pool. For elastic pool it is a target count of idle sessions.
func (c *Config) Size() int {
	return c.size
}

// DefaultTimeout limits waiting of free session on checkout
func (c *Config) DefaultTimeout() time.Duration {
	return c.defaultTimeout
}

// PingInterval is a period of session refreshing in pinging pool
func (c *Config) PingInterval() time.Duration {
	return c.pingInterval
}

func (c *Config) LeakThreshold() time.Duration {
	return c.leakThreshold
}

func (c *Config) LeakScanInterval() time.Duration {
	return c.leakScanInterval
}

// LeakTotalCap limits lifetime of leak detector which reclaims nothing
func (c *Config) LeakTotalCap() time.Duration {
	return c.leakTotalCap
}

// Watermark is a fraction of checked out sessions over capacity which starts leak detector
func (c *Config) Watermark() float64 {
	return c.watermark
}

func (c *Config) ReclaimPolicy() ReclaimPolicy {
	return c.reclaimPolicy
}

// StackCapture reports whether call stack is recorded on checkout
func (c *Config) StackCapture() bool {
	return c.stackCapture
}

// Labels returns labels of created sessions. Returned map must not be changed.
func (c *Config) Labels() map[string]string {
	return c.labels
}

// CreatorRole is a role of created sessions. Empty value means role of database.
func (c *Config) CreatorRole() string {
	return c.creatorRole
}

// MaxIdleAge is an idle age after which session existence is checked on checkout
// in fixed and elastic pools. Zero means check on each checkout.
func (c *Config) MaxIdleAge() time.Duration {
	return c.maxIdleAge
}

// BatchCreateLimit is an upper bound of sessions created by one batch create call
func (c *Config) BatchCreateLimit() int {
	return c.batchCreateLimit
}

func (c *Config) CreateTimeout() time.Duration {
	return c.createTimeout
}

func (c *Config) DeleteTimeout() time.Duration {
	return c.deleteTimeout
}

func (c *Config) Clock() clockwork.Clock {
	return c.clock
}

// Trace defines trace over pool events
func (c *Config) Trace() *trace.Pool {
	return c.trace
}
