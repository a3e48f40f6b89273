package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Logger = (*zapLogger)(nil)

type zapLogger struct {
	l *zap.Logger
}

// Zap makes Logger which writes records into zap logger.
// Names from context are applied as zap logger names.
func Zap(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

func zapLevel(lvl Level) (zapcore.Level, bool) {
	switch lvl {
	case TRACE, DEBUG:
		return zapcore.DebugLevel, true
	case INFO:
		return zapcore.InfoLevel, true
	case WARN:
		return zapcore.WarnLevel, true
	case ERROR, FATAL:
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InvalidLevel, false
	}
}

func (z *zapLogger) Log(ctx context.Context, msg string, fields ...Field) {
	lvl, ok := zapLevel(LevelFromContext(ctx))
	if !ok {
		return
	}

	l := z.l
	for _, name := range NamesFromContext(ctx) {
		l = l.Named(name)
	}

	if ce := l.Check(lvl, msg); ce != nil {
		ce.Write(zapFields(fields)...)
	}
}

func zapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	ff := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		ff = append(ff, zapField(f))
	}

	return ff
}

func zapField(f Field) zap.Field {
	switch f.Type() {
	case IntType:
		return zap.Int(f.Key(), f.IntValue())
	case Int64Type:
		return zap.Int64(f.Key(), f.Int64Value())
	case StringType:
		return zap.String(f.Key(), f.StringValue())
	case BoolType:
		return zap.Bool(f.Key(), f.BoolValue())
	case DurationType:
		return zap.Duration(f.Key(), f.DurationValue())
	case TimeType:
		return zap.Time(f.Key(), f.TimeValue())
	case StringsType:
		return zap.Strings(f.Key(), f.StringsValue())
	case ErrorType:
		return zap.NamedError(f.Key(), f.ErrorValue())
	case StringerType:
		return zap.Stringer(f.Key(), f.Stringer())
	default:
		return zap.Any(f.Key(), f.vany)
	}
}
