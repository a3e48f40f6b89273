package session

import (
	"github.com/jonboulle/clockwork"

	"github.com/ydb-platform/ydb-go-sessionpool/internal/rpc"
)

type Option func(s *Session)

func WithDatabase(database string) Option {
	return func(s *Session) {
		s.database = database
	}
}

func WithTemplate(template rpc.Template) Option {
	return func(s *Session) {
		s.role = template.CreatorRole
		if len(template.Labels) > 0 {
			s.labels = make(map[string]string, len(template.Labels))
			for k, v := range template.Labels {
				s.labels[k] = v
			}
		}
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithRouteToLeader(routeToLeader bool) Option {
	return func(s *Session) {
		s.routeToLeader = routeToLeader
	}
}
