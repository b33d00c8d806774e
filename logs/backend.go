package logs

import (
	"io"
	"sync"
	"time"
)

// BackendWriter pairs an io.Writer with the minimum level that should be
// written to it. A Backend fans every log line out to every writer whose
// threshold it meets.
type BackendWriter struct {
	writer    io.Writer
	threshold Level
}

// NewAllLevelsBackendWriter returns a BackendWriter that receives every log
// line regardless of level.
func NewAllLevelsBackendWriter(writer io.Writer) *BackendWriter {
	return &BackendWriter{writer: writer, threshold: LevelTrace}
}

// NewErrorBackendWriter returns a BackendWriter that only receives
// Error-and-above log lines, mirroring the teacher's separate error log file.
func NewErrorBackendWriter(writer io.Writer) *BackendWriter {
	return &BackendWriter{writer: writer, threshold: LevelError}
}

// Backend is the shared sink behind every subsystem Logger. A single Backend
// is created per process and each subsystem gets its own Logger view onto it.
type Backend struct {
	mtx     sync.Mutex
	writers []*BackendWriter
	closed  bool
}

// NewBackend creates a Backend that fans out to the given writers.
func NewBackend(writers []*BackendWriter) *Backend {
	return &Backend{writers: writers}
}

// Logger returns a new subsystem Logger backed by this Backend, defaulting
// to LevelInfo until SetLevel is called.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{
		backend: b,
		tag:     subsystemTag,
		level:   uint32(LevelInfo),
	}
}

// Close flushes and closes every writer that implements io.Closer. Safe to
// call more than once.
func (b *Backend) Close() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	var firstErr error
	for _, w := range b.writers {
		if closer, ok := w.writer.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (b *Backend) write(level Level, line []byte) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.closed {
		return
	}
	for _, w := range b.writers {
		if level >= w.threshold {
			_, _ = w.writer.Write(line)
		}
	}
}

func now() time.Time {
	return time.Now()
}
