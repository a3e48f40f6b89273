package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb"
	grpcCodes "google.golang.org/grpc/codes"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

// ErrSessionNotFound is returned by Client methods when server does not
// know the session (expired or deleted).
var ErrSessionNotFound = xerrors.Wrap(errors.New("ydb: session not found"))

// Template describes properties of sessions created by BatchCreateSessions.
type Template struct {
	CreatorRole string
	Labels      map[string]string
}

// Client is a set of session RPCs consumed by session pools.
//
// Routing metadata (database, leader affinity, trace id) is passed through the
// outgoing metadata of ctx and must be forwarded unchanged.
type Client interface {
	// BatchCreateSessions creates up to count sessions. It may return fewer
	// sessions than requested. Sessions created before an error are returned
	// together with the error.
	BatchCreateSessions(ctx context.Context, database string, count int, template Template) ([]string, error)

	// GetSession authoritatively checks session existence.
	GetSession(ctx context.Context, sessionID string) error

	// KeepAlive refreshes session on server. Result may be served from a
	// server-side cache and is not authoritative for existence.
	KeepAlive(ctx context.Context, sessionID string) error

	DeleteSession(ctx context.Context, sessionID string) error
}

// IsNotFound reports whether err means that session does not exist on server
func IsNotFound(err error) bool {
	switch {
	case err == nil:
		return false
	case
		xerrors.Is(err, ErrSessionNotFound),
		xerrors.IsOperationError(err,
			Ydb.StatusIds_BAD_SESSION,
			Ydb.StatusIds_NOT_FOUND,
			Ydb.StatusIds_SESSION_EXPIRED,
		),
		xerrors.IsTransportError(err, grpcCodes.NotFound):
		return true
	default:
		return false
	}
}

// notFound marks err as ErrSessionNotFound keeping original cause
func notFound(err error) error {
	if err == nil || !IsNotFound(err) || xerrors.Is(err, ErrSessionNotFound) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrSessionNotFound, err)
}
