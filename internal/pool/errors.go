package pool

import (
	"errors"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

var (
	// ErrPoolEmpty is returned by Checkout when no session became available in time
	ErrPoolEmpty = xerrors.Wrap(errors.New("ydb: session pool is empty"))

	// ErrPoolFull is returned by Checkin of Fixed and Pinging pools when store has no room
	ErrPoolFull = xerrors.Wrap(errors.New("ydb: session pool is full"))

	// ErrSessionUnavailable is returned by Checkout when stale session cannot be replaced
	ErrSessionUnavailable = xerrors.Wrap(errors.New("ydb: session unavailable"))

	// ErrCreateFailed wraps failures of session creation
	ErrCreateFailed = xerrors.Wrap(errors.New("ydb: create session failed"))

	ErrPoolClosed   = xerrors.Wrap(errors.New("ydb: session pool closed"))
	ErrNotBound     = xerrors.Wrap(errors.New("ydb: session pool is not bound to database"))
	ErrAlreadyBound = xerrors.Wrap(errors.New("ydb: session pool already bound to database"))

	// ErrDoubleReturn is returned by Checkin of session which is not checked out from the pool
	ErrDoubleReturn = xerrors.Wrap(errors.New("ydb: session is not checked out from the pool"))

	errNilSession = xerrors.Wrap(errors.New("ydb: nil session"))
)

func createFailed(err error) error {
	if xerrors.Is(err, ErrCreateFailed) {
		return err
	}

	return xerrors.Join(ErrCreateFailed, err)
}
