package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/meta"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

var errNoSessionCreated = xerrors.Wrap(errors.New("ydb: server returned no session"))

// Session is a handle of server side session.
//
// Idle session is owned by pool, checked out session is owned by the caller
// which took it. Deleted session must not be used anymore.
type Session struct {
	id            string
	database      string
	role          string
	labels        map[string]string
	routeToLeader bool

	client rpc.Client
	clock  clockwork.Clock

	status        atomic.Uint32
	longRunning   atomic.Bool
	alreadyLogged atomic.Bool

	mu               sync.Mutex
	checkedOutAt     time.Time
	checkoutStack    string
	lastUse          time.Time
	nextPingDeadline time.Time

	tx       *Transaction
	batch    *Batch
	snapshot *Snapshot
	lease    *Lease
}

// New makes handle of existing server session with id
func New(id string, client rpc.Client, opts ...Option) *Session {
	s := &Session{
		id:     id,
		client: client,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.lastUse = s.clock.Now()

	return s
}

// Create creates new server session
func Create(ctx context.Context, client rpc.Client, opts ...Option) (*Session, error) {
	s := New("", client, opts...)

	ids, err := client.BatchCreateSessions(s.context(ctx), s.database, 1, s.template())
	if len(ids) > 0 {
		s.id = ids[0]
		s.lastUse = s.clock.Now()
		for _, id := range ids[1:] {
			_ = New(id, client, opts...).Delete(ctx)
		}
	}
	if err != nil {
		if s.id != "" {
			_ = s.Delete(ctx)
		}

		return nil, xerrors.WithStackTrace(err)
	}
	if s.id == "" {
		return nil, xerrors.WithStackTrace(errNoSessionCreated)
	}

	return s, nil
}

func (s *Session) context(ctx context.Context) context.Context {
	if s.database != "" {
		ctx = meta.WithDatabase(ctx, s.database)
	}
	if s.routeToLeader {
		ctx = meta.WithRouteToLeader(ctx)
	}

	return ctx
}

func (s *Session) template() rpc.Template {
	return rpc.Template{
		CreatorRole: s.role,
		Labels:      s.labels,
	}
}

func (s *Session) ID() string {
	if s == nil {
		return ""
	}

	return s.id
}

func (s *Session) Database() string {
	return s.database
}

func (s *Session) CreatorRole() string {
	return s.role
}

// Labels returns copy of session labels
func (s *Session) Labels() map[string]string {
	if len(s.labels) == 0 {
		return nil
	}
	labels := make(map[string]string, len(s.labels))
	for k, v := range s.labels {
		labels[k] = v
	}

	return labels
}

func (s *Session) State() Status {
	return Status(s.status.Load())
}

func (s *Session) Status() string {
	return s.State().String()
}

// CompareAndSwapState makes state transition if session is in state from
func (s *Session) CompareAndSwapState(from, to Status) bool {
	return s.status.CompareAndSwap(uint32(from), uint32(to))
}

func (s *Session) LastUsage() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastUse
}

// IdleAge returns time passed since session was created or returned to pool
func (s *Session) IdleAge() time.Duration {
	return s.clock.Since(s.LastUsage())
}

// MarkCheckedOut stamps session as handed out and returns a new lease.
// Previous lease (if any) is detached.
func (s *Session) MarkCheckedOut(longRunning bool, stack string) *Lease {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkedOutAt = s.clock.Now()
	s.checkoutStack = stack
	s.longRunning.Store(longRunning)
	s.alreadyLogged.Store(false)
	if s.lease != nil {
		s.lease.detach()
	}
	s.lease = &Lease{attachment: newAttachment(s)}

	return s.lease
}

// MarkIdle clears checkout stamps of returned session
func (s *Session) MarkIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkedOutAt = time.Time{}
	s.checkoutStack = ""
	s.lastUse = s.clock.Now()
	s.longRunning.Store(false)
	if s.lease != nil {
		s.lease.detach()
		s.lease = nil
	}
}

// CheckedOutAt returns time of checkout or zero time for not checked out session
func (s *Session) CheckedOutAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkedOutAt
}

func (s *Session) CheckoutStack() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkoutStack
}

func (s *Session) LongRunning() bool {
	return s.longRunning.Load()
}

func (s *Session) SetLongRunning(longRunning bool) {
	s.longRunning.Store(longRunning)
}

func (s *Session) AlreadyLogged() bool {
	return s.alreadyLogged.Load()
}

// MarkLogged sets already-logged flag. Returns true only on first call after checkout.
func (s *Session) MarkLogged() bool {
	return s.alreadyLogged.CompareAndSwap(false, true)
}

func (s *Session) NextPingDeadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nextPingDeadline
}

func (s *Session) SetNextPingDeadline(deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPingDeadline = deadline
}

// Lease returns lease of current checkout or nil
func (s *Session) Lease() *Lease {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lease
}

// CurrentTransaction returns transaction in progress or nil
func (s *Session) CurrentTransaction() *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tx
}

// Transaction returns transaction in progress or begins a new one
func (s *Session) Transaction() *Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		s.tx = &Transaction{attachment: newAttachment(s)}
	}

	return s.tx
}

func (s *Session) Batch() *Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.batch == nil {
		s.batch = &Batch{attachment: newAttachment(s)}
	}

	return s.batch
}

func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot == nil {
		s.snapshot = &Snapshot{attachment: newAttachment(s)}
	}

	return s.snapshot
}

// Detach nulls back references of all attachments and drops them
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx != nil {
		s.tx.detach()
		s.tx = nil
	}
	if s.batch != nil {
		s.batch.detach()
		s.batch = nil
	}
	if s.snapshot != nil {
		s.snapshot.detach()
		s.snapshot = nil
	}
	if s.lease != nil {
		s.lease.detach()
		s.lease = nil
	}
}

// Exists checks session on server. Unknown session is not an error.
func (s *Session) Exists(ctx context.Context) (bool, error) {
	err := s.client.GetSession(s.context(ctx), s.id)
	switch {
	case err == nil:
		return true, nil
	case rpc.IsNotFound(err):
		return false, nil
	default:
		return false, xerrors.WithStackTrace(err)
	}
}

// Ping refreshes session on server. Result is not authoritative for session
// existence. Unknown session is reported with rpc.ErrSessionNotFound.
func (s *Session) Ping(ctx context.Context) error {
	err := s.client.KeepAlive(s.context(ctx), s.id)
	if err == nil {
		return nil
	}
	if rpc.IsNotFound(err) && !xerrors.Is(err, rpc.ErrSessionNotFound) {
		return xerrors.WithStackTrace(xerrors.Join(rpc.ErrSessionNotFound, err))
	}

	return xerrors.WithStackTrace(err)
}

// Delete deletes session on server and detaches all attachments.
// Delete is idempotent, unknown session is not an error.
func (s *Session) Delete(ctx context.Context) error {
	if Status(s.status.Swap(uint32(StatusDeleted))) == StatusDeleted {
		return nil
	}

	s.Detach()

	if err := s.client.DeleteSession(s.context(ctx), s.id); err != nil && !rpc.IsNotFound(err) {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
