package pool

import (
	"context"
	"errors"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/stack"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
	"github.com/ydb-platform/ydb-go-sessionpool/log"
	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

var (
	errNilDatabase      = xerrors.Wrap(errors.New("ydb: nil database"))
	errNoSessionCreated = xerrors.Wrap(errors.New("ydb: server returned no sessions"))
)

// Bind binds pool to database and fills idle store with new sessions.
// Sessions created before failure stay in the pool.
func (c *coordinator) Bind(ctx context.Context, db Database) (finalErr error) {
	if db == nil {
		return xerrors.WithStackTrace(errNilDatabase)
	}

	template := rpc.Template{
		CreatorRole: c.config.CreatorRole(),
		Labels:      c.config.Labels(),
	}
	if template.CreatorRole == "" {
		template.CreatorRole = db.CreatorRole()
	}

	if err := c.bind(db, template); err != nil {
		return xerrors.WithStackTrace(err)
	}

	var (
		created int
		onDone  = trace.PoolOnBind(c.t(), &ctx,
			stack.FunctionID("github.com/ydb-platform/ydb-go-sessionpool/internal/pool.(*coordinator).Bind"),
			db.Name(), c.discipline.kind, c.capacity(),
		)
	)
	defer func() {
		onDone(created, finalErr)
	}()

	for target := c.capacity(); created < target; {
		sessions, err := c.createBatch(ctx, db, template, min(c.config.BatchCreateLimit(), target-created))
		for i, s := range sessions {
			if putErr := c.putIdle(s); putErr != nil {
				for _, rest := range sessions[i+1:] {
					c.deleteAsync(rest)
				}

				return xerrors.WithStackTrace(xerrors.Join(putErr, err))
			}
			created++
		}
		if err != nil {
			return xerrors.WithStackTrace(createFailed(err))
		}
		if len(sessions) == 0 {
			return xerrors.WithStackTrace(createFailed(errNoSessionCreated))
		}
	}

	return nil
}

func (c *coordinator) bind(db Database, template rpc.Template) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return ErrPoolClosed
	case c.db != nil:
		return ErrAlreadyBound
	}

	c.db = db
	c.template = template

	if l := db.Logger(); l != nil && db.LoggingEnabled() {
		c.trace.Store(c.t().Compose(log.Pool(l, trace.DetailsAll)))
	}

	return nil
}
