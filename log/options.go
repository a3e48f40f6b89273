package log

import (
	"github.com/jonboulle/clockwork"
)

type minLevelOption Level

func (o minLevelOption) applySimpleOption(l *defaultLogger) {
	l.minLevel = Level(o)
}

func WithMinLevel(level Level) minLevelOption {
	return minLevelOption(level)
}

type coloringOption bool

func (o coloringOption) applySimpleOption(l *defaultLogger) {
	l.coloring = bool(o)
}

func WithColoring() coloringOption {
	return true
}

type clockOption struct {
	clock clockwork.Clock
}

func (o clockOption) applySimpleOption(l *defaultLogger) {
	if o.clock != nil {
		l.clock = o.clock
	}
}

func WithClock(clock clockwork.Clock) clockOption {
	return clockOption{clock: clock}
}
