package xsync

import (
	"sync"
)

type Mutex struct { //nolint:gocritic
	sync.Mutex
}

func (l *Mutex) WithLock(f func()) {
	l.Lock()
	defer l.Unlock()

	f()
}

// WithLock returns result of f called under lock l
func WithLock[T any](l sync.Locker, f func() T) T {
	l.Lock()
	defer l.Unlock()

	return f()
}
