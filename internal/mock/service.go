package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
	"github.com/ydb-platform/ydb-go-sessionpool/internal/xerrors"
)

var ErrSessionLimit = xerrors.Wrap(errors.New("mock: server session limit exceeded"))

var _ rpc.Client = (*Service)(nil)

type serverSession struct {
	template rpc.Template
	pings    int
}

// Service is an in-memory rpc.Client. It keeps server side sessions and
// counts calls. Zero value is not usable, use NewService.
type Service struct {
	mu sync.Mutex

	limit      int
	batchLimit int

	sessions map[string]*serverSession
	created  []string
	deleted  []string
	pings    map[string]int
	metadata []metadata.MD

	createErr error
	existsErr error
	pingErr   error
	deleteErr error

	createCalls    int
	existsCalls    int
	keepAliveCalls int
	deleteCalls    int
}

type Option func(s *Service)

// WithLimit limits count of alive server sessions. Creates over limit fail
// with ErrSessionLimit.
func WithLimit(limit int) Option {
	return func(s *Service) {
		s.limit = limit
	}
}

// WithBatchLimit limits count of sessions returned by single
// BatchCreateSessions call.
func WithBatchLimit(limit int) Option {
	return func(s *Service) {
		s.batchLimit = limit
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{
		sessions: make(map[string]*serverSession),
		pings:    make(map[string]int),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func (s *Service) BatchCreateSessions(
	ctx context.Context, database string, count int, template rpc.Template,
) (ids []string, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createCalls++
	md, _ := metadata.FromOutgoingContext(ctx)
	s.metadata = append(s.metadata, md.Copy())

	if err := ctx.Err(); err != nil {
		return nil, xerrors.WithStackTrace(err)
	}
	if s.createErr != nil {
		return nil, xerrors.WithStackTrace(s.createErr)
	}
	if s.batchLimit > 0 && count > s.batchLimit {
		count = s.batchLimit
	}
	for i := 0; i < count; i++ {
		if s.limit > 0 && len(s.sessions) >= s.limit {
			return ids, xerrors.WithStackTrace(ErrSessionLimit)
		}
		id := "session-" + uuid.NewString()
		s.sessions[id] = &serverSession{template: template}
		s.created = append(s.created, id)
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *Service) GetSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.existsCalls++
	if s.existsErr != nil {
		return xerrors.WithStackTrace(s.existsErr)
	}
	if _, has := s.sessions[id]; !has {
		return xerrors.WithStackTrace(rpc.ErrSessionNotFound)
	}

	return nil
}

func (s *Service) KeepAlive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keepAliveCalls++
	s.pings[id]++
	if s.pingErr != nil {
		return xerrors.WithStackTrace(s.pingErr)
	}
	session, has := s.sessions[id]
	if !has {
		return xerrors.WithStackTrace(rpc.ErrSessionNotFound)
	}
	session.pings++

	return nil
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteCalls++
	if s.deleteErr != nil {
		return xerrors.WithStackTrace(s.deleteErr)
	}
	if _, has := s.sessions[id]; !has {
		return xerrors.WithStackTrace(rpc.ErrSessionNotFound)
	}
	delete(s.sessions, id)
	s.deleted = append(s.deleted, id)

	return nil
}

// Expire makes server forget the session as if it expired
func (s *Service) Expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *Service) FailCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.createErr = err
}

func (s *Service) FailExists(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.existsErr = err
}

func (s *Service) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pingErr = err
}

func (s *Service) FailDelete(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteErr = err
}

// Alive reports whether server knows the session
func (s *Service) Alive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, has := s.sessions[id]

	return has
}

// AliveCount returns count of sessions known by server
func (s *Service) AliveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Created returns ids of all created sessions in creation order
func (s *Service) Created() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.created...)
}

// Deleted returns ids of sessions deleted by DeleteSession in call order
func (s *Service) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.deleted...)
}

// Template returns template the session was created with
func (s *Service) Template(id string) (rpc.Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, has := s.sessions[id]
	if !has {
		return rpc.Template{}, false
	}

	return session.template, true
}

// Pings returns count of KeepAlive calls for the session id
func (s *Service) Pings(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pings[id]
}

// Metadata returns outgoing metadata of each BatchCreateSessions call
func (s *Service) Metadata() []metadata.MD {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]metadata.MD(nil), s.metadata...)
}

func (s *Service) CreateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createCalls
}

func (s *Service) ExistsCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.existsCalls
}

func (s *Service) KeepAliveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.keepAliveCalls
}

func (s *Service) DeleteCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteCalls
}
