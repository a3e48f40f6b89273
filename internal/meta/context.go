package meta

import (
	"context"
	"sort"

	"google.golang.org/grpc/metadata"
)

// WithDatabase returns a copy of parent context with database header
func WithDatabase(ctx context.Context, database string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, HeaderDatabase, database)
}

// WithRouteToLeader returns a copy of parent context with leader-affinity hint
func WithRouteToLeader(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, HeaderRouteToLeader, "true")
}

// WithSessionTemplate returns a copy of parent context with creator role and
// session labels headers. Labels are appended as "key=value" sorted by key.
func WithSessionTemplate(ctx context.Context, creatorRole string, labels map[string]string) context.Context {
	kv := make([]string, 0, 2*len(labels)+2)
	if creatorRole != "" {
		kv = append(kv, HeaderCreatorRole, creatorRole)
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, HeaderSessionLabel, k+"="+labels[k])
	}
	if len(kv) == 0 {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, kv...)
}
