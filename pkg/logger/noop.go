package logger

import (
	"fmt"
	"sync"

	sdklogging "github.com/Layr-Labs/eigensdk-go/logging"
)

// Logger is re-exported from eigensdk-go so packages can take a logger without importing
// sdklogging themselves.
type Logger = sdklogging.Logger

// NoOpLogger implements Logger with no-op methods to avoid nil pointer panics.
type NoOpLogger struct{}

func (l *NoOpLogger) Info(msg string, keysAndValues ...interface{})  {}
func (l *NoOpLogger) Infof(format string, args ...interface{})       {}
func (l *NoOpLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (l *NoOpLogger) Debugf(format string, args ...interface{})      {}
func (l *NoOpLogger) Error(msg string, keysAndValues ...interface{}) {}
func (l *NoOpLogger) Errorf(format string, args ...interface{})      {}
func (l *NoOpLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (l *NoOpLogger) Warnf(format string, args ...interface{})       {}
func (l *NoOpLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (l *NoOpLogger) Fatalf(format string, args ...interface{})      {}
func (l *NoOpLogger) With(keysAndValues ...interface{}) Logger       { return l }

func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

// EnsureLogger returns the logger if not nil, otherwise a no-op logger
func EnsureLogger(logger Logger) Logger {
	if logger == nil {
		return NewNoOpLogger()
	}
	return logger
}

// Entry is one line captured by a RecordingLogger
type Entry struct {
	Level   string
	Message string
	Fields  []interface{}
}

// RecordingLogger keeps every entry in memory. Tests use it to assert on warnings.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  []interface{}
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]Entry{}}
}

func (l *RecordingLogger) record(level, msg string, keysAndValues []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := append(append([]interface{}{}, l.fields...), keysAndValues...)
	*l.entries = append(*l.entries, Entry{Level: level, Message: msg, Fields: fields})
}

func (l *RecordingLogger) Info(msg string, keysAndValues ...interface{})  { l.record("info", msg, keysAndValues) }
func (l *RecordingLogger) Debug(msg string, keysAndValues ...interface{}) { l.record("debug", msg, keysAndValues) }
func (l *RecordingLogger) Warn(msg string, keysAndValues ...interface{})  { l.record("warn", msg, keysAndValues) }
func (l *RecordingLogger) Error(msg string, keysAndValues ...interface{}) { l.record("error", msg, keysAndValues) }
func (l *RecordingLogger) Fatal(msg string, keysAndValues ...interface{}) { l.record("fatal", msg, keysAndValues) }

func (l *RecordingLogger) Infof(format string, args ...interface{}) {
	l.record("info", fmt.Sprintf(format, args...), nil)
}
func (l *RecordingLogger) Debugf(format string, args ...interface{}) {
	l.record("debug", fmt.Sprintf(format, args...), nil)
}
func (l *RecordingLogger) Warnf(format string, args ...interface{}) {
	l.record("warn", fmt.Sprintf(format, args...), nil)
}
func (l *RecordingLogger) Errorf(format string, args ...interface{}) {
	l.record("error", fmt.Sprintf(format, args...), nil)
}
func (l *RecordingLogger) Fatalf(format string, args ...interface{}) {
	l.record("fatal", fmt.Sprintf(format, args...), nil)
}

// With shares the entry buffer with the parent
func (l *RecordingLogger) With(keysAndValues ...interface{}) Logger {
	return &RecordingLogger{
		mu:      l.mu,
		entries: l.entries,
		fields:  append(append([]interface{}{}, l.fields...), keysAndValues...),
	}
}

// Entries returns the captured entries of the given level, or all of them when level is empty
func (l *RecordingLogger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range *l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
