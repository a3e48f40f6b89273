package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/ydb-platform/ydb-go-genproto/Ydb_Table_V1"
	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb"
	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb_Operations"
	"github.com/ydb-platform/ydb-go-genproto/protos/Ydb_Table"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/meta"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

// TableService is a subset of Ydb_Table_V1.TableServiceClient used by Table
type TableService interface {
	CreateSession(
		ctx context.Context, in *Ydb_Table.CreateSessionRequest, opts ...grpc.CallOption,
	) (*Ydb_Table.CreateSessionResponse, error)
	KeepAlive(
		ctx context.Context, in *Ydb_Table.KeepAliveRequest, opts ...grpc.CallOption,
	) (*Ydb_Table.KeepAliveResponse, error)
	DeleteSession(
		ctx context.Context, in *Ydb_Table.DeleteSessionRequest, opts ...grpc.CallOption,
	) (*Ydb_Table.DeleteSessionResponse, error)
}

var (
	_ Client       = (*Table)(nil)
	_ TableService = Ydb_Table_V1.TableServiceClient(nil)
)

// Table implements Client over YDB table service.
//
// Table service has no batch create method, so BatchCreateSessions fans out
// single CreateSession calls with bounded concurrency.
type Table struct {
	service          TableService
	operationTimeout time.Duration
	concurrency      int
}

func New(cc grpc.ClientConnInterface, opts ...Option) *Table {
	return NewWithService(Ydb_Table_V1.NewTableServiceClient(cc), opts...)
}

func NewWithService(service TableService, opts ...Option) *Table {
	t := &Table{
		service:          service,
		operationTimeout: DefaultOperationTimeout,
		concurrency:      DefaultCreateSessionConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	return t
}

func (t *Table) operationParams() *Ydb_Operations.OperationParams {
	return &Ydb_Operations.OperationParams{
		OperationMode:    Ydb_Operations.OperationParams_SYNC,
		OperationTimeout: durationpb.New(t.operationTimeout),
	}
}

func checkOperation(op *Ydb_Operations.Operation) error {
	if op.GetStatus() == Ydb.StatusIds_SUCCESS {
		return nil
	}

	return notFound(xerrors.Operation(
		xerrors.WithStatusCode(op.GetStatus()),
		xerrors.WithIssues(op.GetIssues()),
	))
}

// BatchCreateSessions creates count sessions. Routing headers (database and
// leader affinity) are expected in ctx, only session template is attached here.
func (t *Table) BatchCreateSessions(
	ctx context.Context, database string, count int, template Template,
) (ids []string, _ error) {
	if count <= 0 {
		return nil, nil
	}

	ctx = meta.WithSessionTemplate(ctx, template.CreatorRole, template.Labels)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(t.concurrency)

	for i := 0; i < count; i++ {
		g.Go(func() error {
			id, err := t.createSession(ctx)
			if err != nil {
				return xerrors.WithStackTrace(err)
			}

			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ids, xerrors.WithStackTrace(err)
	}

	return ids, nil
}

func (t *Table) createSession(ctx context.Context) (string, error) {
	var result Ydb_Table.CreateSessionResult

	response, err := t.service.CreateSession(ctx, &Ydb_Table.CreateSessionRequest{
		OperationParams: t.operationParams(),
	})
	if err != nil {
		return "", xerrors.WithStackTrace(xerrors.FromGRPC(err))
	}
	if err = checkOperation(response.GetOperation()); err != nil {
		return "", xerrors.WithStackTrace(err)
	}
	if err = response.GetOperation().GetResult().UnmarshalTo(&result); err != nil {
		return "", xerrors.WithStackTrace(err)
	}

	return result.GetSessionId(), nil
}

func (t *Table) keepAlive(ctx context.Context, sessionID string) (*Ydb_Table.KeepAliveResult, error) {
	var result Ydb_Table.KeepAliveResult

	response, err := t.service.KeepAlive(ctx, &Ydb_Table.KeepAliveRequest{
		SessionId:       sessionID,
		OperationParams: t.operationParams(),
	})
	if err != nil {
		return nil, xerrors.WithStackTrace(notFound(xerrors.FromGRPC(err)))
	}
	if err = checkOperation(response.GetOperation()); err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	if err = response.GetOperation().GetResult().UnmarshalTo(&result); err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	return &result, nil
}

// GetSession checks session status reported by server. Unspecified status
// means server lost the session.
func (t *Table) GetSession(ctx context.Context, sessionID string) error {
	result, err := t.keepAlive(ctx, sessionID)
	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	switch result.GetSessionStatus() {
	case
		Ydb_Table.KeepAliveResult_SESSION_STATUS_READY,
		Ydb_Table.KeepAliveResult_SESSION_STATUS_BUSY:
		return nil
	default:
		return xerrors.WithStackTrace(ErrSessionNotFound)
	}
}

func (t *Table) KeepAlive(ctx context.Context, sessionID string) error {
	_, err := t.keepAlive(ctx, sessionID)
	if err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}

func (t *Table) DeleteSession(ctx context.Context, sessionID string) error {
	response, err := t.service.DeleteSession(ctx, &Ydb_Table.DeleteSessionRequest{
		SessionId:       sessionID,
		OperationParams: t.operationParams(),
	})
	if err != nil {
		return xerrors.WithStackTrace(notFound(xerrors.FromGRPC(err)))
	}
	if err = checkOperation(response.GetOperation()); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
