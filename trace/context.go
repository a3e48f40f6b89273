package trace

import "context"

type poolTraceContextKey struct{}

// WithPool returns context which has associated Pool trace with it.
func WithPool(ctx context.Context, t *Pool) context.Context {
	return context.WithValue(ctx,
		poolTraceContextKey{},
		ContextPool(ctx).Compose(t),
	)
}

// ContextPool returns Pool trace associated with ctx.
// If there is no trace associated with ctx then nil is returned.
func ContextPool(ctx context.Context) *Pool {
	t, _ := ctx.Value(poolTraceContextKey{}).(*Pool)

	return t
}
