package pool

import (
	"container/heap"
	"time"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
)

var (
	_ store          = (*deadlineStore)(nil)
	_ heap.Interface = (*deadlineQueue)(nil)
)

type deadlineItem struct {
	session  *session.Session
	deadline time.Time
	seq      uint64
}

type deadlineQueue []deadlineItem

func (q deadlineQueue) Len() int {
	return len(q)
}

func (q deadlineQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].seq < q[j].seq
	}

	return q[i].deadline.Before(q[j].deadline)
}

func (q deadlineQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *deadlineQueue) Push(x any) {
	*q = append(*q, x.(deadlineItem)) //nolint:forcetypeassert
}

func (q *deadlineQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = deadlineItem{}
	*q = old[:n-1]

	return item
}

// deadlineStore hands out session with earliest next ping deadline first.
// Sessions with equal deadlines are handed out in order of insertion.
type deadlineStore struct {
	limit int
	seq   uint64
	queue deadlineQueue
}

func newDeadlineStore(limit int) *deadlineStore {
	return &deadlineStore{
		limit: limit,
		queue: make(deadlineQueue, 0, limit),
	}
}

func (st *deadlineStore) push(s *session.Session) bool {
	if len(st.queue) >= st.limit {
		return false
	}
	st.seq++
	heap.Push(&st.queue, deadlineItem{
		session:  s,
		deadline: s.NextPingDeadline(),
		seq:      st.seq,
	})

	return true
}

func (st *deadlineStore) pop() *session.Session {
	if len(st.queue) == 0 {
		return nil
	}

	return heap.Pop(&st.queue).(deadlineItem).session //nolint:forcetypeassert
}

func (st *deadlineStore) peek() *session.Session {
	if len(st.queue) == 0 {
		return nil
	}

	return st.queue[0].session
}

func (st *deadlineStore) len() int {
	return len(st.queue)
}

func (st *deadlineStore) capacity() int {
	return st.limit
}

func (st *deadlineStore) drain() []*session.Session {
	sessions := make([]*session.Session, 0, len(st.queue))
	for _, item := range st.queue {
		sessions = append(sessions, item.session)
	}
	st.queue = make(deadlineQueue, 0, st.limit)

	return sessions
}
