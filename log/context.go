package log

import (
	"context"
)

// poolNames prefixes names of all pool events
var poolNames = []string{"ydb", "pool"}

type ctxScopeKey struct{}

// scope is a level and logger names of event stored in context
type scope struct {
	level Level
	names []string
}

func scopeFromContext(ctx context.Context) scope {
	s, _ := ctx.Value(ctxScopeKey{}).(scope)

	return s
}

func WithLevel(ctx context.Context, lvl Level) context.Context {
	s := scopeFromContext(ctx)
	s.level = lvl

	return context.WithValue(ctx, ctxScopeKey{}, s)
}

func LevelFromContext(ctx context.Context) Level {
	return scopeFromContext(ctx).level
}

// WithNames appends names to logger names of ctx. Contexts derived from
// the same parent do not share names.
func WithNames(ctx context.Context, names ...string) context.Context {
	s := scopeFromContext(ctx)
	s.names = append(s.names[:len(s.names):len(s.names)], names...)

	return context.WithValue(ctx, ctxScopeKey{}, s)
}

func NamesFromContext(ctx context.Context) []string {
	names := scopeFromContext(ctx).names

	return names[:len(names):len(names)]
}

// poolEvent returns ctx for pool event with given level and names under
// ydb.pool
func poolEvent(ctx context.Context, lvl Level, names ...string) context.Context {
	s := scopeFromContext(ctx)
	s.level = lvl
	s.names = append(append(s.names[:len(s.names):len(s.names)], poolNames...), names...)

	return context.WithValue(ctx, ctxScopeKey{}, s)
}
