package meta

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

type newTraceIDOpts struct {
	newRandom func() (uuid.UUID, error)
}

func WithNewRandom(f func() (uuid.UUID, error)) func(opts *newTraceIDOpts) {
	return func(opts *newTraceIDOpts) {
		opts.newRandom = f
	}
}

// TraceID returns trace id from outgoing metadata or appends a new random one
func TraceID(ctx context.Context, opts ...func(opts *newTraceIDOpts)) (context.Context, string, error) {
	if id, has := traceID(ctx); has {
		return ctx, id, nil
	}
	options := newTraceIDOpts{
		newRandom: uuid.NewRandom,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	id, err := options.newRandom()
	if err != nil {
		return ctx, "", xerrors.WithStackTrace(err)
	}

	return metadata.AppendToOutgoingContext(ctx, HeaderTraceID, id.String()), id.String(), nil
}

func traceID(ctx context.Context) (string, bool) {
	if md, has := metadata.FromOutgoingContext(ctx); has {
		if v := md.Get(HeaderTraceID); len(v) > 0 {
			return v[0], true
		}
	}

	return "", false
}
