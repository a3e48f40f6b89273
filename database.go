package sessionpool

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/pool"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
	"github.com/ydb-platform/ydb-go-sessionpool/log"
)

var _ pool.Database = (*Database)(nil)

// Database is a database object pools bind to
type Database struct {
	name           string
	creatorRole    string
	routeToLeader  bool
	closeInactive  bool
	logger         log.Logger
	loggingEnabled bool

	client      rpc.Client
	rpcOptions  []rpc.Option
	dialOptions []grpc.DialOption

	cc *grpc.ClientConn
}

// DatabaseOption contains configuration values for Database
type DatabaseOption func(db *Database)

// WithCreatorRole sets creator role of sessions for pools without own creator role
func WithCreatorRole(role string) DatabaseOption {
	return func(db *Database) {
		db.creatorRole = role
	}
}

// WithRouteToLeader requests leader affinity on session creation
func WithRouteToLeader(routeToLeader bool) DatabaseOption {
	return func(db *Database) {
		db.routeToLeader = routeToLeader
	}
}

// WithCloseInactiveTransactions makes leak detector reclaim leaked sessions
// of pools which defer reclaim policy to database
func WithCloseInactiveTransactions(closeInactive bool) DatabaseOption {
	return func(db *Database) {
		db.closeInactive = closeInactive
	}
}

// WithLogger sets logger for pool events and enables logging
func WithLogger(l log.Logger) DatabaseOption {
	return func(db *Database) {
		db.logger = l
		db.loggingEnabled = l != nil
	}
}

// WithZapLogger sets zap logger for pool events and enables logging
func WithZapLogger(l *zap.Logger) DatabaseOption {
	if l == nil {
		return WithLogger(nil)
	}

	return WithLogger(log.Zap(l))
}

// WithLogging turns logging of pool events on or off. Trace hooks of pools
// are called in both cases.
func WithLogging(enabled bool) DatabaseOption {
	return func(db *Database) {
		db.loggingEnabled = enabled
	}
}

// WithOperationTimeout sets server-side operation timeout of session requests
func WithOperationTimeout(timeout time.Duration) DatabaseOption {
	return func(db *Database) {
		db.rpcOptions = append(db.rpcOptions, rpc.WithOperationTimeout(timeout))
	}
}

// WithCreateSessionConcurrency limits simultaneous CreateSession requests
// of single batch
func WithCreateSessionConcurrency(concurrency int) DatabaseOption {
	return func(db *Database) {
		db.rpcOptions = append(db.rpcOptions, rpc.WithCreateSessionConcurrency(concurrency))
	}
}

// WithDialOptions appends grpc dial options used by Open
func WithDialOptions(opts ...grpc.DialOption) DatabaseOption {
	return func(db *Database) {
		db.dialOptions = append(db.dialOptions, opts...)
	}
}

func withClient(client rpc.Client) DatabaseOption {
	return func(db *Database) {
		db.client = client
	}
}

func newDatabase(name string, opts ...DatabaseOption) *Database {
	db := &Database{
		name: name,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(db)
		}
	}

	return db
}

// NewDatabase makes database object over existing grpc connection
func NewDatabase(name string, cc grpc.ClientConnInterface, opts ...DatabaseOption) *Database {
	db := newDatabase(name, opts...)
	if db.client == nil {
		db.client = rpc.New(cc, db.rpcOptions...)
	}

	return db
}

// Open makes grpc connection to endpoint and database object over it.
// Connection is insecure unless credentials are passed with WithDialOptions.
// Close of Database closes the connection.
func Open(ctx context.Context, endpoint, name string, opts ...DatabaseOption) (*Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	db := newDatabase(name, opts...)

	cc, err := grpc.NewClient(endpoint, append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, db.dialOptions...)...)
	if err != nil {
		return nil, xerrors.WithStackTrace(err)
	}

	db.cc = cc
	if db.client == nil {
		db.client = rpc.New(cc, db.rpcOptions...)
	}

	return db, nil
}

func (db *Database) Name() string {
	return db.name
}

func (db *Database) CreatorRole() string {
	return db.creatorRole
}

func (db *Database) RouteToLeader() bool {
	return db.routeToLeader
}

func (db *Database) Logger() log.Logger {
	return db.logger
}

func (db *Database) LoggingEnabled() bool {
	return db.loggingEnabled && db.logger != nil
}

func (db *Database) CloseInactiveTransactions() bool {
	return db.closeInactive
}

func (db *Database) Client() rpc.Client {
	return db.client
}

// Close closes grpc connection made by Open
func (db *Database) Close() error {
	if db.cc == nil {
		return nil
	}

	if err := db.cc.Close(); err != nil {
		return xerrors.WithStackTrace(err)
	}

	return nil
}
