package pool

import (
	"time"
)

type (
	checkoutOptions struct {
		longRunning bool
		timeout     time.Duration
	}
	CheckoutOption func(o *checkoutOptions)
)

// WithLongRunning excludes checked out session from leak detection
func WithLongRunning(longRunning bool) CheckoutOption {
	return func(o *checkoutOptions) {
		o.longRunning = longRunning
	}
}

// WithTimeout overrides default checkout timeout. Zero timeout fails
// immediately on empty pool.
func WithTimeout(timeout time.Duration) CheckoutOption {
	return func(o *checkoutOptions) {
		if timeout < 0 {
			timeout = 0
		}
		o.timeout = timeout
	}
}
