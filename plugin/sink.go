package plugin

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel is the host's log severity.
type LogLevel int32

// Host log levels, numbered as the host expects them.
const (
	LogError   LogLevel = 1
	LogWarning LogLevel = 2
	LogNotice  LogLevel = 3
	LogDebug   LogLevel = 4
)

func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "error"
	case LogWarning:
		return "warning"
	case LogNotice:
		return "notice"
	case LogDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// zapLevel maps a host level onto the closest zap level.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogError:
		return zapcore.ErrorLevel
	case LogWarning:
		return zapcore.WarnLevel
	case LogNotice:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// LogSink receives host-facing diagnostics for an instance.
type LogSink interface {
	Log(host HostContext, level LogLevel, msg string)
}

// SinkFunc adapts a function to LogSink.
type SinkFunc func(host HostContext, level LogLevel, msg string)

func (f SinkFunc) Log(host HostContext, level LogLevel, msg string) {
	f(host, level, msg)
}

// ZapSink writes host diagnostics to a zap logger. A nil Logger falls back to
// the package logger.
type ZapSink struct {
	Logger *zap.Logger
}

func (s ZapSink) Log(host HostContext, level LogLevel, msg string) {
	l := s.Logger
	if l == nil {
		l = Logger()
	}
	if ce := l.Check(level.zapLevel(), msg); ce != nil {
		ce.Write(zap.Uintptr("host", uintptr(host)), zap.Stringer("host_level", level))
	}
}
