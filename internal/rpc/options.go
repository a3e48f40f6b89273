package rpc

import (
	"time"
)

const (
	DefaultOperationTimeout         = 5 * time.Second
	DefaultCreateSessionConcurrency = 16
)

type Option func(t *Table)

// WithOperationTimeout sets server-side operation timeout of every request
func WithOperationTimeout(timeout time.Duration) Option {
	return func(t *Table) {
		if timeout > 0 {
			t.operationTimeout = timeout
		}
	}
}

// WithCreateSessionConcurrency limits number of simultaneous CreateSession
// requests issued by BatchCreateSessions
func WithCreateSessionConcurrency(concurrency int) Option {
	return func(t *Table) {
		if concurrency > 0 {
			t.concurrency = concurrency
		}
	}
}
