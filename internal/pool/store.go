package pool

import (
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
)

// store keeps idle sessions. Implementations are not goroutine safe,
// coordinator guards them with its mutex.
type store interface {
	// push returns false when store is full
	push(s *session.Session) bool
	// pop returns nil when store is empty
	pop() *session.Session
	peek() *session.Session
	len() int
	capacity() int
	drain() []*session.Session
}
