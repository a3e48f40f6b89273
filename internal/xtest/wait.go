package xtest

import (
	"sync"
	"testing"
	"time"
)

func WaitChannelClosed(t testing.TB, ch <-chan struct{}) {
	t.Helper()

	select {
	case <-ch:
		// pass
	case <-time.After(commonWaitTimeout):
		t.Fatal("failed to wait channel closed")
	}
}

func WaitGroup(tb testing.TB, wg *sync.WaitGroup) {
	tb.Helper()

	groupFinished := make(chan struct{})
	go func() {
		wg.Wait()
		close(groupFinished)
	}()

	WaitChannelClosed(tb, groupFinished)
}

// SpinWaitCondition checks cond until it returns true or common timeout expires.
// l is locked around each cond call if not nil.
func SpinWaitCondition(tb testing.TB, l sync.Locker, cond func() bool) {
	tb.Helper()

	checkCondition := func() bool {
		if l != nil {
			l.Lock()
			defer l.Unlock()
		}

		return cond()
	}

	start := time.Now()
	for {
		if checkCondition() {
			return
		}

		if time.Since(start) > commonWaitTimeout {
			tb.Fatal("condition not satisfied")
		}

		time.Sleep(time.Millisecond)
	}
}
