package pool

import (
	"github.com/ydb-platform/ydb-go-sessionpool/internal/session"
)

var _ store = (*lifoStore)(nil)

// lifoStore hands out most recently returned session first
type lifoStore struct {
	limit int
	idle  []*session.Session
}

func newLIFOStore(limit int) *lifoStore {
	return &lifoStore{
		limit: limit,
		idle:  make([]*session.Session, 0, limit),
	}
}

func (st *lifoStore) push(s *session.Session) bool {
	if len(st.idle) >= st.limit {
		return false
	}
	st.idle = append(st.idle, s)

	return true
}

func (st *lifoStore) pop() *session.Session {
	if len(st.idle) == 0 {
		return nil
	}
	s := st.idle[len(st.idle)-1]
	st.idle[len(st.idle)-1] = nil
	st.idle = st.idle[:len(st.idle)-1]

	return s
}

func (st *lifoStore) peek() *session.Session {
	if len(st.idle) == 0 {
		return nil
	}

	return st.idle[len(st.idle)-1]
}

func (st *lifoStore) len() int {
	return len(st.idle)
}

func (st *lifoStore) capacity() int {
	return st.limit
}

func (st *lifoStore) drain() []*session.Session {
	idle := st.idle
	st.idle = make([]*session.Session, 0, st.limit)

	return idle
}
