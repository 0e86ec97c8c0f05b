//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// EventSource is the Windows Event Log source the daemon writes to.
const EventSource = "fmn"

// Event IDs for Windows Event Log entries.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// EventLogWriter is the subset of *eventlog.Log that EventLogger uses.
type EventLogWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// EventLogger writes log messages to the Windows Event Log. The source must
// have been registered, e.g. with eventlog.InstallAsEventCreate.
type EventLogger struct {
	w EventLogWriter
}

// NewEventLogger opens the event source sourceName.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &EventLogger{w: elog}, nil
}

func newEventLoggerWithWriter(w EventLogWriter) *EventLogger {
	return &EventLogger{w: w}
}

// Debug is not forwarded to the Event Log.
func (e *EventLogger) Debug(format string, args ...interface{}) {}

// Info errors are ignored; the daemon keeps running when logging fails.
func (e *EventLogger) Info(format string, args ...interface{}) {
	_ = e.w.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.w.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.w.Error(EventIDError, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Close() error {
	if e.w != nil {
		return e.w.Close()
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)

// NewDaemonLogger logs to the console and, when the fmn event source is
// registered, to the Windows Event Log as well.
func NewDaemonLogger(debug bool) Logger {
	console := NewConsoleLogger(debug)
	el, err := NewEventLogger(EventSource)
	if err != nil {
		console.Debug("event log unavailable: %v", err)
		return console
	}
	return NewMultiLogger(console, el)
}
