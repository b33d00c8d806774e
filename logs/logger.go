package logs

import (
	"fmt"
	"sync/atomic"
)

// Logger is a per-subsystem leveled logger backed by a shared Backend. The
// zero value is not usable; obtain one via Backend.Logger.
type Logger struct {
	backend *Backend
	tag     string
	level   uint32 // atomic Level
}

// SetLevel changes the minimum level this Logger will emit.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.level, uint32(level))
}

// Level returns the Logger's current minimum level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

// Backend returns the Backend this Logger writes through, so callers can
// flush/close it on shutdown.
func (l *Logger) Backend() *Backend {
	return l.backend
}

func (l *Logger) log(level Level, format string, args []interface{}) {
	if level < l.Level() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("%s [%s] %s %s\n", now().Format("2006-01-02 15:04:05.000"), level, l.tag, msg)
	l.backend.write(level, []byte(line))
}

// Tracef logs at LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) { l.log(LevelTrace, format, args) }

// Debugf logs at LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args) }

// Infof logs at LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(LevelInfo, format, args) }

// Warnf logs at LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(LevelWarn, format, args) }

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args) }

// Criticalf logs at LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) { l.log(LevelCritical, format, args) }

// Trace logs a single message at LevelTrace without formatting.
func (l *Logger) Trace(msg string) { l.log(LevelTrace, "%s", []interface{}{msg}) }

// Info logs a single message at LevelInfo without formatting.
func (l *Logger) Info(msg string) { l.log(LevelInfo, "%s", []interface{}{msg}) }

// Warn logs a single message at LevelWarn without formatting.
func (l *Logger) Warn(msg string) { l.log(LevelWarn, "%s", []interface{}{msg}) }
