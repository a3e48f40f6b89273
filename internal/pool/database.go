package pool

import (
	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/log"
)

// Database is a database object which pool binds to
type Database interface {
	Name() string

	// CreatorRole is used when pool has no own creator role
	CreatorRole() string

	// RouteToLeader requests leader affinity header on session creation
	RouteToLeader() bool

	Logger() log.Logger
	LoggingEnabled() bool

	// CloseInactiveTransactions selects reclaim policy when pool defers it to database
	CloseInactiveTransactions() bool

	Client() rpc.Client
}
