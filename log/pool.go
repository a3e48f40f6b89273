package log

import (
	"context"
	"time"

	"github.com/ydb-platform/ydb-go-sessionpool/trace"
)

// Pool makes trace.Pool with logging events from details
func Pool(l Logger, d trace.Detailer) *trace.Pool {
	return internalPool(l, d)
}

func contextOrBackground(ctx *context.Context) context.Context {
	if ctx == nil || *ctx == nil {
		return context.Background()
	}

	return *ctx
}

func sessionID(s interface{ ID() string }) string {
	if s == nil {
		return ""
	}

	return s.ID()
}

//nolint:gocyclo,funlen
func internalPool(l Logger, d trace.Detailer) *trace.Pool {
	t := &trace.Pool{}

	t.OnBind = func(info trace.PoolBindStartInfo) func(trace.PoolBindDoneInfo) {
		if d.Details()&trace.PoolLifeCycleEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), INFO, "bind")
		database := info.Database
		kind := info.Kind
		target := info.Target
		l.Log(ctx, "start",
			String("database", database),
			String("kind", kind),
			Int("target", target),
		)
		start := time.Now()

		return func(info trace.PoolBindDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					String("database", database),
					String("kind", kind),
					Int("target", target),
					Int("created", info.Created),
				)
			} else {
				l.Log(WithLevel(ctx, ERROR), "failed",
					latencyField(start),
					String("database", database),
					String("kind", kind),
					Int("target", target),
					Int("created", info.Created),
					Error(info.Error),
				)
			}
		}
	}
	t.OnClose = func(info trace.PoolCloseStartInfo) func(trace.PoolCloseDoneInfo) {
		if d.Details()&trace.PoolLifeCycleEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), INFO, "close")
		l.Log(ctx, "start")
		start := time.Now()

		return func(info trace.PoolCloseDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					Int("deleted", info.Deleted),
				)
			} else {
				l.Log(WithLevel(ctx, ERROR), "failed",
					latencyField(start),
					Int("deleted", info.Deleted),
					Error(info.Error),
				)
			}
		}
	}
	t.OnCheckout = func(info trace.PoolCheckoutStartInfo) func(trace.PoolCheckoutDoneInfo) {
		if d.Details()&trace.PoolAPIEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), TRACE, "checkout")
		longRunning := info.LongRunning
		l.Log(ctx, "start",
			Bool("longRunning", longRunning),
			Duration("timeout", info.Timeout),
		)
		start := time.Now()

		return func(info trace.PoolCheckoutDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					String("id", sessionID(info.Session)),
					Bool("longRunning", longRunning),
				)
			} else {
				l.Log(WithLevel(ctx, WARN), "failed",
					latencyField(start),
					Bool("longRunning", longRunning),
					Error(info.Error),
				)
			}
		}
	}
	t.OnCheckin = func(info trace.PoolCheckinStartInfo) func(trace.PoolCheckinDoneInfo) {
		if d.Details()&trace.PoolAPIEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), TRACE, "checkin")
		id := sessionID(info.Session)
		l.Log(ctx, "start",
			String("id", id),
		)
		start := time.Now()

		return func(info trace.PoolCheckinDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					String("id", id),
				)
			} else {
				l.Log(WithLevel(ctx, WARN), "failed",
					latencyField(start),
					String("id", id),
					Error(info.Error),
				)
			}
		}
	}
	t.OnSessionCreate = func(info trace.PoolSessionCreateStartInfo) func(trace.PoolSessionCreateDoneInfo) {
		if d.Details()&trace.PoolSessionLifeCycleEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), DEBUG, "session", "create")
		count := info.Count
		l.Log(ctx, "start",
			Int("count", count),
		)
		start := time.Now()

		return func(info trace.PoolSessionCreateDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					Int("count", count),
					Strings("ids", info.IDs),
				)
			} else {
				l.Log(WithLevel(ctx, WARN), "failed",
					latencyField(start),
					Int("count", count),
					Strings("ids", info.IDs),
					Error(info.Error),
				)
			}
		}
	}
	t.OnSessionDelete = func(info trace.PoolSessionDeleteStartInfo) func(trace.PoolSessionDeleteDoneInfo) {
		if d.Details()&trace.PoolSessionLifeCycleEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), DEBUG, "session", "delete")
		id := sessionID(info.Session)
		l.Log(ctx, "start",
			String("id", id),
		)
		start := time.Now()

		return func(info trace.PoolSessionDeleteDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					String("id", id),
				)
			} else {
				l.Log(WithLevel(ctx, WARN), "failed",
					latencyField(start),
					String("id", id),
					Error(info.Error),
				)
			}
		}
	}
	t.OnSessionExists = func(info trace.PoolSessionExistsStartInfo) func(trace.PoolSessionExistsDoneInfo) {
		if d.Details()&trace.PoolSessionLivenessEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), TRACE, "session", "exists")
		id := sessionID(info.Session)
		start := time.Now()

		return func(info trace.PoolSessionExistsDoneInfo) {
			switch {
			case info.Error != nil:
				l.Log(WithLevel(ctx, WARN), "failed",
					latencyField(start),
					String("id", id),
					Error(info.Error),
				)
			case !info.Exists:
				l.Log(WithLevel(ctx, DEBUG), "session not found",
					latencyField(start),
					String("id", id),
				)
			default:
				l.Log(ctx, "done",
					latencyField(start),
					String("id", id),
				)
			}
		}
	}
	t.OnSessionPing = func(info trace.PoolSessionPingStartInfo) func(trace.PoolSessionPingDoneInfo) {
		if d.Details()&trace.PoolSessionLivenessEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), TRACE, "session", "ping")
		id := sessionID(info.Session)
		start := time.Now()

		return func(info trace.PoolSessionPingDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					String("id", id),
				)
			} else {
				l.Log(WithLevel(ctx, DEBUG), "failed",
					latencyField(start),
					String("id", id),
					Error(info.Error),
				)
			}
		}
	}
	t.OnRefreshStale = func(info trace.PoolRefreshStaleStartInfo) func(trace.PoolRefreshStaleDoneInfo) {
		if d.Details()&trace.PoolSessionLivenessEvents == 0 {
			return nil
		}
		ctx := poolEvent(contextOrBackground(info.Context), DEBUG, "refresh")
		start := time.Now()

		return func(info trace.PoolRefreshStaleDoneInfo) {
			if info.Error == nil {
				l.Log(ctx, "done",
					latencyField(start),
					Int("refreshed", info.Refreshed),
					Int("replaced", info.Replaced),
				)
			} else {
				l.Log(WithLevel(ctx, ERROR), "failed",
					latencyField(start),
					Int("refreshed", info.Refreshed),
					Int("replaced", info.Replaced),
					Error(info.Error),
				)
			}
		}
	}
	t.OnLeakDetectorStart = func(info trace.PoolLeakDetectorStartInfo) {
		if d.Details()&trace.PoolLeakDetectorEvents == 0 {
			return
		}
		ctx := poolEvent(context.Background(), INFO, "leak", "detector")
		l.Log(ctx, "start",
			Int("checkedOut", info.CheckedOut),
			Int("capacity", info.Capacity),
		)
	}
	t.OnLeakDetectorStop = func(info trace.PoolLeakDetectorStopInfo) {
		if d.Details()&trace.PoolLeakDetectorEvents == 0 {
			return
		}
		ctx := poolEvent(context.Background(), INFO, "leak", "detector")
		l.Log(ctx, "stop",
			Int("iterations", info.Iterations),
			Int("reclaimed", info.Reclaimed),
			String("reason", info.Reason),
		)
	}
	t.OnLeakDetected = func(info trace.PoolLeakDetectedInfo) {
		if d.Details()&trace.PoolLeakDetectorEvents == 0 {
			return
		}
		ctx := poolEvent(context.Background(), WARN, "leak")
		l.Log(ctx, "session checked out too long",
			appendFieldByCondition(info.Stack != "",
				String("stack", info.Stack),
				String("id", sessionID(info.Session)),
				Time("checkedOutAt", info.CheckedOutAt),
				Duration("age", info.Age),
			)...,
		)
	}
	t.OnLeakReclaim = func(info trace.PoolLeakReclaimInfo) {
		if d.Details()&trace.PoolLeakDetectorEvents == 0 {
			return
		}
		ctx := poolEvent(context.Background(), WARN, "leak")
		l.Log(ctx, "leaked session reclaimed",
			appendFieldByCondition(info.Error != nil,
				Error(info.Error),
				String("id", sessionID(info.Session)),
				Duration("age", info.Age),
			)...,
		)
	}
	t.OnChange = func(info trace.PoolChangeInfo) {
		if d.Details()&trace.PoolStatsEvents == 0 {
			return
		}
		ctx := poolEvent(context.Background(), TRACE, "stats")
		l.Log(ctx, "change",
			Int("idle", info.Idle),
			Int("checkedOut", info.CheckedOut),
			Int("capacity", info.Capacity),
		)
	}

	return t
}
