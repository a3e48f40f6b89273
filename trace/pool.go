package trace

import (
	"context"
	"time"
)

// tool gtrace used from ./internal/cmd/gtrace

//go:generate gtrace

type (
	// Pool specified trace of session pool activity.
	// gtrace:gen
	Pool struct {
		// Pool lifecycle events
		OnBind  func(PoolBindStartInfo) func(PoolBindDoneInfo)
		OnClose func(PoolCloseStartInfo) func(PoolCloseDoneInfo)

		// Pool common API events
		OnCheckout func(PoolCheckoutStartInfo) func(PoolCheckoutDoneInfo)
		OnCheckin  func(PoolCheckinStartInfo) func(PoolCheckinDoneInfo)

		// Session lifecycle events
		OnSessionCreate func(PoolSessionCreateStartInfo) func(PoolSessionCreateDoneInfo)
		OnSessionDelete func(PoolSessionDeleteStartInfo) func(PoolSessionDeleteDoneInfo)

		// Session liveness events
		OnSessionExists func(PoolSessionExistsStartInfo) func(PoolSessionExistsDoneInfo)
		OnSessionPing   func(PoolSessionPingStartInfo) func(PoolSessionPingDoneInfo)
		OnRefreshStale  func(PoolRefreshStaleStartInfo) func(PoolRefreshStaleDoneInfo)

		// Leak detector events
		OnLeakDetectorStart func(PoolLeakDetectorStartInfo)
		OnLeakDetectorStop  func(PoolLeakDetectorStopInfo)
		OnLeakDetected      func(PoolLeakDetectedInfo)
		OnLeakReclaim       func(PoolLeakReclaimInfo)

		// Pool state event
		OnChange func(PoolChangeInfo)
	}
	poolSessionInfo interface {
		ID() string
		Status() string
		LastUsage() time.Time
	}
	PoolBindStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context  *context.Context
		Call     call
		Database string
		Kind     string
		Target   int
	}
	PoolBindDoneInfo struct {
		Created int
		Error   error
	}
	PoolCloseStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
	}
	PoolCloseDoneInfo struct {
		Deleted int
		Error   error
	}
	PoolCheckoutStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context     *context.Context
		Call        call
		LongRunning bool
		Timeout     time.Duration
	}
	PoolCheckoutDoneInfo struct {
		Session poolSessionInfo
		Error   error
	}
	PoolCheckinStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
		Session poolSessionInfo
	}
	PoolCheckinDoneInfo struct {
		Error error
	}
	PoolSessionCreateStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
		Count   int
	}
	PoolSessionCreateDoneInfo struct {
		IDs   []string
		Error error
	}
	PoolSessionDeleteStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
		Session poolSessionInfo
	}
	PoolSessionDeleteDoneInfo struct {
		Error error
	}
	PoolSessionExistsStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
		Session poolSessionInfo
	}
	PoolSessionExistsDoneInfo struct {
		Exists bool
		Error  error
	}
	PoolSessionPingStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
		Session poolSessionInfo
	}
	PoolSessionPingDoneInfo struct {
		Error error
	}
	PoolRefreshStaleStartInfo struct {
		// Context make available context in trace callback function.
		// Pointer to context provide replacement of context in trace callback function.
		// Warning: concurrent access to pointer on client side must be excluded.
		// Safe replacement of context are provided only inside callback function
		Context *context.Context
		Call    call
	}
	PoolRefreshStaleDoneInfo struct {
		Refreshed int
		Replaced  int
		Error     error
	}
	PoolLeakDetectorStartInfo struct {
		CheckedOut int
		Capacity   int
	}
	PoolLeakDetectorStopInfo struct {
		Iterations int
		Reclaimed  int
		Reason     string
	}
	PoolLeakDetectedInfo struct {
		Session      poolSessionInfo
		CheckedOutAt time.Time
		Age          time.Duration
		// Stack is a call stack of checkout. Empty if stack capture disabled
		Stack string
	}
	PoolLeakReclaimInfo struct {
		Session poolSessionInfo
		Age     time.Duration
		Error   error
	}
	PoolChangeInfo struct {
		Idle       int
		CheckedOut int
		Capacity   int
	}
)
