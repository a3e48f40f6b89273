package session

import (
	"errors"
	"sync/atomic"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

// ErrDetached is returned on use of an attachment whose session was reclaimed
var ErrDetached = xerrors.Wrap(errors.New("ydb: session detached"))

// attachment holds a non-owning reference to the session. The reference is
// nulled by Session.Detach.
type attachment struct {
	session atomic.Pointer[Session]
}

func newAttachment(s *Session) attachment {
	var a attachment
	a.session.Store(s)

	return a
}

// Session returns the owner session or nil if attachment was detached
func (a *attachment) Session() *Session {
	return a.session.Load()
}

// Err returns ErrDetached if attachment was detached
func (a *attachment) Err() error {
	if a.session.Load() == nil {
		return xerrors.WithStackTrace(ErrDetached, xerrors.WithSkipDepth(1))
	}

	return nil
}

func (a *attachment) detach() {
	a.session.Store(nil)
}

type (
	// Transaction is a transaction in progress on a session
	Transaction struct {
		attachment
	}
	// Batch is a batch of statements bound to a session
	Batch struct {
		attachment
	}
	// Snapshot is a read-only snapshot bound to a session
	Snapshot struct {
		attachment
	}
	// Lease is handed out with the session on checkout. Lease is detached
	// when the session is taken back from the holder.
	Lease struct {
		attachment
	}
)

// Finish releases the transaction from its session
func (tx *Transaction) Finish() {
	s := tx.Session()
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == tx {
		s.tx = nil
	}
	tx.detach()
}
