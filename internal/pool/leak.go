package pool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

const (
	leakStopBelowWatermark = "below watermark"
	leakStopTotalCap       = "total cap exceeded"
	leakStopClosed         = "pool closed"
)

// leakDetector scans checked out sessions in background while pool
// utilization is high. At most one scan loop runs per pool.
type leakDetector struct {
	c *coordinator

	running       atomic.Bool
	stopRequested atomic.Bool

	// restartRequested is set by start calls which found scan loop running
	restartRequested atomic.Bool
}

// start runs scan loop if it is not running yet
func (d *leakDetector) start() {
	d.stopRequested.Store(false)
	if !d.running.CompareAndSwap(false, true) {
		d.restartRequested.Store(true)

		return
	}

	trace.PoolOnLeakDetectorStart(d.c.t(), d.c.checkedOut.Size(), d.c.capacity())

	if !d.c.worker.Start("leak detector", d.run) {
		d.running.Store(false)
	}
}

// stop requests running scan loop to exit after iteration without reclaims
func (d *leakDetector) stop() {
	if d.running.Load() {
		d.stopRequested.Store(true)
	}
}

func (d *leakDetector) run(ctx context.Context) {
	var (
		clock      = d.c.clock
		started    = clock.Now()
		iterations int
		reclaimed  int
		reason     string
	)
	defer func() {
		trace.PoolOnLeakDetectorStop(d.c.t(), iterations, reclaimed, reason)
		d.running.Store(false)

		// start called while loop was exiting
		if reason != leakStopClosed && d.restartRequested.Swap(false) && d.c.overWatermark() {
			d.start()
		}
	}()

	for {
		d.restartRequested.Store(false)
		iterationStart := clock.Now()
		iterations++

		n := d.scan(ctx)
		reclaimed += n

		if n == 0 && (d.stopRequested.Load() || !d.c.overWatermark()) {
			reason = leakStopBelowWatermark

			return
		}
		if reclaimed == 0 && clock.Since(started) > d.c.config.LeakTotalCap() {
			reason = leakStopTotalCap

			return
		}

		select {
		case <-ctx.Done():
			reason = leakStopClosed

			return
		case <-clock.After(iterationStart.Add(d.c.config.LeakScanInterval()).Sub(clock.Now())):
		}
	}
}

// scan handles checked out sessions older than leak threshold and
// returns count of reclaimed sessions
func (d *leakDetector) scan(ctx context.Context) (reclaimed int) {
	var (
		now       = d.c.clock.Now()
		threshold = d.c.config.LeakThreshold()
		leaked    []*session.Session
	)

	d.c.checkedOut.Range(func(s *session.Session) bool {
		if s.LongRunning() {
			return true
		}
		if at := s.CheckedOutAt(); !at.IsZero() && now.Sub(at) > threshold {
			leaked = append(leaked, s)
		}

		return true
	})

	policy := d.policy()
	for _, s := range leaked {
		if ctx.Err() != nil {
			return reclaimed
		}

		checkedOutAt := s.CheckedOutAt()
		if checkedOutAt.IsZero() {
			continue
		}
		age := now.Sub(checkedOutAt)

		switch policy {
		case config.PolicyReclaim:
			if d.reclaim(s, age) {
				reclaimed++
			}
		default:
			if s.MarkLogged() {
				d.c.leakWarnings.Add(1)
				trace.PoolOnLeakDetected(d.c.t(), s, checkedOutAt, age, s.CheckoutStack())
			}
		}
	}

	return reclaimed
}

// reclaim forcibly returns leaked session to the pool. Holder of session
// observes nil back-reference in its attachments.
func (d *leakDetector) reclaim(s *session.Session, age time.Duration) bool {
	if !d.c.checkedOut.Remove(s) {
		return false
	}

	s.Detach()
	err := d.c.release(s)

	trace.PoolOnLeakReclaim(d.c.t(), s, age, err)

	d.c.reclaimed.Add(1)

	return true
}

func (d *leakDetector) policy() config.ReclaimPolicy {
	if p := d.c.config.ReclaimPolicy(); p != config.PolicyFromDatabase {
		return p
	}
	if db, _ := d.c.binding(); db != nil && db.CloseInactiveTransactions() {
		return config.PolicyReclaim
	}

	return config.PolicyLog
}
