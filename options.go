package sessionpool

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/viper"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

type (
	// Option contains configuration values for pool
	Option = config.Option

	// CheckoutOption contains parameters of single checkout
	CheckoutOption = pool.CheckoutOption

	ReclaimPolicy = config.ReclaimPolicy
)

const (
	// ReclaimPolicyFromDatabase selects reclaim when database closes inactive
	// transactions and log otherwise
	ReclaimPolicyFromDatabase = config.PolicyFromDatabase

	// ReclaimPolicyLog makes leak detector only log leaked sessions
	ReclaimPolicyLog = config.PolicyLog

	// ReclaimPolicyReclaim makes leak detector forcibly return leaked sessions
	ReclaimPolicyReclaim = config.PolicyReclaim
)

// WithSize sets pool capacity (target idle size for Elastic)
func WithSize(size int) Option {
	return config.WithSize(size)
}

// WithDefaultTimeout sets checkout timeout used when checkout has no own timeout
func WithDefaultTimeout(timeout time.Duration) Option {
	return config.WithDefaultTimeout(timeout)
}

func WithPingInterval(interval time.Duration) Option {
	return config.WithPingInterval(interval)
}

// WithLeakThreshold sets age of checkout after which session is treated as leaked
func WithLeakThreshold(threshold time.Duration) Option {
	return config.WithLeakThreshold(threshold)
}

func WithLeakScanInterval(interval time.Duration) Option {
	return config.WithLeakScanInterval(interval)
}

// WithLeakTotalCap limits runtime of leak detector which reclaims nothing
func WithLeakTotalCap(totalCap time.Duration) Option {
	return config.WithLeakTotalCap(totalCap)
}

// WithWatermark sets share of checked out sessions which starts leak detector
func WithWatermark(watermark float64) Option {
	return config.WithWatermark(watermark)
}

func WithReclaimPolicy(policy ReclaimPolicy) Option {
	return config.WithReclaimPolicy(policy)
}

// WithStackCapture turns on recording of caller stack on checkout.
// Recorded stack is reported with leaked session.
func WithStackCapture(capture bool) Option {
	return config.WithStackCapture(capture)
}

func WithLabels(labels map[string]string) Option {
	return config.WithLabels(labels)
}

// WithSessionCreatorRole sets creator role of pool sessions.
// Overrides creator role of database.
func WithSessionCreatorRole(role string) Option {
	return config.WithCreatorRole(role)
}

// WithMaxIdleAge sets idle age after which Fixed and Elastic pools check
// session existence on checkout
func WithMaxIdleAge(age time.Duration) Option {
	return config.WithMaxIdleAge(age)
}

func WithBatchCreateLimit(limit int) Option {
	return config.WithBatchCreateLimit(limit)
}

func WithCreateTimeout(timeout time.Duration) Option {
	return config.WithCreateTimeout(timeout)
}

func WithDeleteTimeout(timeout time.Duration) Option {
	return config.WithDeleteTimeout(timeout)
}

func WithClock(clock clockwork.Clock) Option {
	return config.WithClock(clock)
}

// WithTrace appends pool trace hooks
func WithTrace(t trace.Pool, opts ...trace.PoolComposeOption) Option { //nolint:gocritic
	return config.WithTrace(&t, opts...)
}

// WithLongRunning exempts checked out session from leak detection
func WithLongRunning(longRunning bool) CheckoutOption {
	return pool.WithLongRunning(longRunning)
}

// WithCheckoutTimeout overrides default timeout of single checkout.
// Zero timeout fails immediately on empty pool.
func WithCheckoutTimeout(timeout time.Duration) CheckoutOption {
	return pool.WithTimeout(timeout)
}

// OptionsFromViper reads pool options from viper instance. Keys which are not
// set keep defaults.
func OptionsFromViper(v *viper.Viper) ([]Option, error) {
	return config.OptionsFromViper(v)
}
