package pool

import (
	"container/list"
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/background"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/meta"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool/config"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/stack"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xcontext"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xsync"
	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

// discipline describes behavior which differs between pool kinds
type discipline struct {
	kind string

	// createOnMiss makes Checkout create session instead of waiting on empty store
	createOnMiss bool

	// deleteOnOverflow makes Checkin delete session which does not fit store
	// instead of failing with ErrPoolFull
	deleteOnOverflow bool

	// probeDue reports whether idle session must be checked with Exists before handout
	probeDue func(s *session.Session, now time.Time) bool

	// beforeIdle is called under coordinator lock before session is stored
	beforeIdle func(s *session.Session, now time.Time)
}

// coordinator implements checkout and checkin over idle store and
// checked out set. Pool kinds embed coordinator.
type coordinator struct {
	config     *config.Config
	clock      clockwork.Clock
	discipline discipline

	trace atomic.Pointer[trace.Pool]

	mu       xsync.Mutex
	store    store
	waitQ    *list.List // list of chan *session.Session
	closed   bool
	db       Database
	template rpc.Template

	checkedOut xsync.Set[*session.Session]

	worker *background.Worker
	leak   *leakDetector

	reclaimed    atomic.Int64
	leakWarnings atomic.Int64
}

func newCoordinator(cfg *config.Config, st store, d discipline) *coordinator {
	c := &coordinator{
		config:     cfg,
		clock:      cfg.Clock(),
		discipline: d,
		store:      st,
		waitQ:      list.New(),
		worker:     background.NewWorker(context.Background(), "ydb-session-pool-"+d.kind),
	}
	c.trace.Store(cfg.Trace())
	c.leak = &leakDetector{c: c}

	return c
}

func (c *coordinator) t() *trace.Pool {
	return c.trace.Load()
}

func (c *coordinator) capacity() int {
	return c.config.Size()
}

// binding returns database and session template. Database is nil for not bound pool.
func (c *coordinator) binding() (Database, rpc.Template) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.db, c.template
}

func (c *coordinator) sessionOptions(db Database, template rpc.Template) []session.Option {
	return []session.Option{
		session.WithDatabase(db.Name()),
		session.WithTemplate(template),
		session.WithClock(c.clock),
		session.WithRouteToLeader(db.RouteToLeader()),
	}
}

// Checkout takes session from the pool. Checked out session must be returned
// with Checkin.
func (c *coordinator) Checkout(ctx context.Context, opts ...CheckoutOption) (s *session.Session, finalErr error) {
	o := checkoutOptions{
		timeout: c.config.DefaultTimeout(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	onDone := trace.PoolOnCheckout(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).Checkout"),
		o.longRunning, o.timeout,
	)
	defer func() {
		if finalErr != nil {
			onDone(nil, finalErr)
		} else {
			onDone(s, nil)
		}
	}()

	if db, _ := c.binding(); db == nil {
		return nil, xerrors.WithStackTrace(ErrNotBound)
	}

	s, fresh, err := c.take(ctx, o.timeout)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	if !fresh {
		s, err = c.prepare(ctx, s)
		if err != nil {
			return nil, xerrors.WithStackTrace(err)
		}
	}

	c.handout(s, o.longRunning)

	return s, nil
}

// take returns idle session, waits for returned one or creates new one
// depending on discipline. Flag fresh reports about created session.
func (c *coordinator) take(ctx context.Context, timeout time.Duration) (_ *session.Session, fresh bool, _ error) {
	var timer clockwork.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()

			return nil, false, xerrors.WithStackTrace(ErrPoolClosed)
		}
		if s := c.store.pop(); s != nil {
			c.mu.Unlock()
			c.onChange()

			return s, false, nil
		}
		if c.discipline.createOnMiss {
			c.mu.Unlock()

			s, err := c.create(ctx)

			return s, err == nil, err
		}
		if timeout <= 0 {
			c.mu.Unlock()

			return nil, false, xerrors.WithStackTrace(ErrPoolEmpty)
		}
		ch := make(chan *session.Session)
		el := c.waitQ.PushBack(ch)
		c.mu.Unlock()

		if timer == nil {
			timer = c.clock.NewTimer(timeout)
		}

		select {
		case s, ok := <-ch:
			if ok {
				return s, false, nil
			}
			// Channel was closed by notify or Close, try again.
		case <-timer.Chan():
			c.removeWaiter(el)

			return nil, false, xerrors.WithStackTrace(ErrPoolEmpty)
		case <-ctx.Done():
			c.removeWaiter(el)

			return nil, false, xerrors.WithStackTrace(ctx.Err())
		}
	}
}

func (c *coordinator) removeWaiter(el *list.Element) {
	c.mu.WithLock(func() {
		c.waitQ.Remove(el)
	})
}

// notify hands session to the first ready waiter. Waiters which are not
// ready yet get closed channel and try to take session again.
// c.mu must be locked.
func (c *coordinator) notify(s *session.Session) bool {
	for el := c.waitQ.Front(); el != nil; el = c.waitQ.Front() {
		ch := c.waitQ.Remove(el).(chan *session.Session) //nolint:forcetypeassert
		select {
		case ch <- s:
			return true
		default:
			close(ch)
		}
	}

	return false
}

// prepare checks liveness of idle session and replaces it when server lost it
func (c *coordinator) prepare(ctx context.Context, s *session.Session) (*session.Session, error) {
	if c.discipline.probeDue == nil || !c.discipline.probeDue(s, c.clock.Now()) {
		return s, nil
	}

	exists, err := c.exists(ctx, s)
	if err != nil {
		_ = c.putIdle(s)

		return nil, xerrors.WithStackTrace(err)
	}
	if exists {
		return s, nil
	}

	_ = c.deleteSession(ctx, s)

	fresh, err := c.create(ctx)
	if err != nil {
		return nil, xerrors.WithStackTrace(xerrors.Join(ErrSessionUnavailable, err))
	}

	return fresh, nil
}

func (c *coordinator) handout(s *session.Session, longRunning bool) {
	s.CompareAndSwapState(session.StatusIdle, session.StatusCheckedOut)

	var callStack string
	if c.config.StackCapture() {
		callStack = stack.Trace(2)
	}
	s.MarkCheckedOut(longRunning, callStack)
	c.checkedOut.Add(s)
	c.onChange()

	if c.overWatermark() {
		c.leak.start()
	}
}

func (c *coordinator) overWatermark() bool {
	return float64(c.checkedOut.Size()) >= c.config.Watermark()*float64(c.capacity())
}

// Checkin returns checked out session to the pool
func (c *coordinator) Checkin(ctx context.Context, s *session.Session) error {
	return c.checkin(ctx, s, nil)
}

// checkin returns session to the pool. Non nil lease must be the current
// lease of session, otherwise session was reclaimed and possibly handed out again.
func (c *coordinator) checkin(ctx context.Context, s *session.Session, lease *session.Lease) (finalErr error) {
	if s == nil {
		return xerrors.WithStackTrace(errNilSession)
	}

	onDone := trace.PoolOnCheckin(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).checkin"),
		s,
	)
	defer func() {
		onDone(finalErr)
	}()

	if lease != nil && s.Lease() != lease {
		return xerrors.WithStackTrace(ErrDoubleReturn)
	}
	if !c.checkedOut.Remove(s) {
		return xerrors.WithStackTrace(ErrDoubleReturn)
	}

	if err := c.release(s); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

// release returns session which was removed from checked out set
func (c *coordinator) release(s *session.Session) error {
	defer func() {
		if !c.overWatermark() {
			c.leak.stop()
		}
	}()

	s.MarkIdle()
	if !s.CompareAndSwapState(session.StatusCheckedOut, session.StatusIdle) {
		// session was deleted by holder
		c.onChange()

		return nil
	}

	return c.putIdle(s)
}

// putIdle hands session to a waiter or stores it
func (c *coordinator) putIdle(s *session.Session) error {
	now := c.clock.Now()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.deleteAsync(s)

		return xerrors.WithStackTrace(ErrPoolClosed)
	}
	if c.discipline.beforeIdle != nil {
		c.discipline.beforeIdle(s, now)
	}
	if !c.notify(s) && !c.store.push(s) {
		c.mu.Unlock()
		c.deleteAsync(s)
		c.onChange()

		if c.discipline.deleteOnOverflow {
			return nil
		}

		return xerrors.WithStackTrace(ErrPoolFull)
	}
	c.mu.Unlock()
	c.onChange()

	return nil
}

// create makes single session with current binding
func (c *coordinator) create(ctx context.Context) (s *session.Session, finalErr error) {
	db, template := c.binding()
	if db == nil {
		return nil, xerrors.WithStackTrace(ErrNotBound)
	}

	onDone := trace.PoolOnSessionCreate(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).create"),
		1,
	)
	defer func() {
		if s != nil {
			onDone([]string{s.ID()}, finalErr)
		} else {
			onDone(nil, finalErr)
		}
	}()

	if d := c.config.CreateTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	s, err := session.Create(ctx, db.Client(), c.sessionOptions(db, template)...)
	if err != nil {
		return nil, xerrors.WithStackTrace(createFailed(err))
	}

	return s, nil
}

// createBatch makes up to count sessions with single RPC. Sessions created
// before error are returned with error.
func (c *coordinator) createBatch(
	ctx context.Context, db Database, template rpc.Template, count int,
) (sessions []*session.Session, finalErr error) {
	var ids []string

	onDone := trace.PoolOnSessionCreate(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).createBatch"),
		count,
	)
	defer func() {
		onDone(ids, finalErr)
	}()

	ctx = meta.WithDatabase(ctx, db.Name())
	if db.RouteToLeader() {
		ctx = meta.WithRouteToLeader(ctx)
	}
	ctx, _, err := meta.TraceID(ctx)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	ids, err = db.Client().BatchCreateSessions(ctx, db.Name(), count, template)
	for _, id := range ids {
		sessions = append(sessions, session.New(id, db.Client(), c.sessionOptions(db, template)...))
	}
	if err != nil {
		return sessions, xerrors.WithStackTrace(err)
	}

	return sessions, nil
}

func (c *coordinator) exists(ctx context.Context, s *session.Session) (exists bool, finalErr error) {
	onDone := trace.PoolOnSessionExists(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).exists"),
		s,
	)
	defer func() {
		onDone(exists, finalErr)
	}()

	return s.Exists(ctx)
}

func (c *coordinator) ping(ctx context.Context, s *session.Session) (finalErr error) {
	onDone := trace.PoolOnSessionPing(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).ping"),
		s,
	)
	defer func() {
		onDone(finalErr)
	}()

	return s.Ping(ctx)
}

// deleteSession deletes session ignoring cancellation of ctx. Deletion is
// bounded by delete timeout.
func (c *coordinator) deleteSession(ctx context.Context, s *session.Session) (finalErr error) {
	ctx = xcontext.ValueOnly(ctx)
	if d := c.config.DeleteTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	onDone := trace.PoolOnSessionDelete(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).deleteSession"),
		s,
	)
	defer func() {
		onDone(finalErr)
	}()

	return s.Delete(ctx)
}

// deleteAsync deletes session in background. Sessions returned after Close
// are deleted on detached goroutine with delete timeout.
func (c *coordinator) deleteAsync(s *session.Session) {
	started := c.worker.Start("delete session", func(ctx context.Context) {
		_ = c.deleteSession(ctx, s)
	})
	if !started {
		go func() {
			_ = c.deleteSession(context.Background(), s)
		}()
	}
}

func (c *coordinator) onChange() {
	stats := c.Stats()
	trace.PoolOnChange(c.t(), stats.Idle, stats.CheckedOut, stats.Capacity)
}

// Stats returns snapshot of pool state
func (c *coordinator) Stats() Stats {
	return xsync.WithLock(&c.mu, func() Stats {
		return Stats{
			Kind:                c.discipline.kind,
			Capacity:            c.capacity(),
			Idle:                c.store.len(),
			CheckedOut:          c.checkedOut.Size(),
			Waiters:             c.waitQ.Len(),
			Reclaimed:           c.reclaimed.Load(),
			LeakWarnings:        c.leakWarnings.Load(),
			LeakDetectorRunning: c.leak.running.Load(),
			Closed:              c.closed,
		}
	})
}

// Close deletes idle sessions and stops background work. Sessions which are
// checked out at the moment are deleted on checkin.
func (c *coordinator) Close(ctx context.Context) (finalErr error) {
	var deleted atomic.Int64

	onDone := trace.PoolOnClose(c.t(), &ctx,
		stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).Close"),
	)
	defer func() {
		onDone(int(deleted.Load()), finalErr)
	}()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return xerrors.WithStackTrace(ErrPoolClosed)
	}
	c.closed = true
	idle := c.store.drain()
	for el := c.waitQ.Front(); el != nil; el = el.Next() {
		close(el.Value.(chan *session.Session)) //nolint:forcetypeassert
	}
	c.waitQ.Init()
	c.mu.Unlock()

	var g errgroup.Group
	for _, s := range idle {
		g.Go(func() error {
			if err := c.deleteSession(ctx, s); err != nil {
				return xerrors.WithStackTrace(err)
			}
			deleted.Add(1)

			return nil
		})
	}
	deleteErr := g.Wait()

	closeErr := c.worker.Close(ctx, ErrPoolClosed)

	c.onChange()

	if err := xerrors.Join(deleteErr, closeErr); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
