// Package logger provides the logging interface used by the fmn daemon and
// client, with console, Windows Event Log, fan-out and test backends.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is implemented by every log backend. Components receive one
// through their constructors.
type Logger interface {
	// Debug logs a diagnostic message. Backends drop it unless debug
	// output was enabled.
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "daemon listening on ...").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem (e.g., a malformed datagram).
	Warning(format string, args ...interface{})

	// Error logs a failure (e.g., a store write that was rolled back).
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call more than once.
	Close() error
}

// StandardLogger wraps a stdlib *log.Logger.
type StandardLogger struct {
	logger *log.Logger
	debug  bool
}

// NewStandardLogger creates a logger that writes through l.
func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{logger: l}
}

// NewConsoleLogger writes to stderr with timestamps; debug enables Debug output.
func NewConsoleLogger(debug bool) *StandardLogger {
	return &StandardLogger{
		logger: log.New(os.Stderr, "", log.LstdFlags),
		debug:  debug,
	}
}

// EnableDebug turns on Debug output and returns s.
func (s *StandardLogger) EnableDebug() *StandardLogger {
	s.debug = true
	return s
}

// Debug logs with a [DEBUG] prefix when debug output is enabled.
func (s *StandardLogger) Debug(format string, args ...interface{}) {
	if !s.debug {
		return
	}
	s.logger.Printf("[DEBUG] "+format, args...)
}

// Info logs an informational message with [INFO] prefix.
func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

// Warning logs a warning message with [WARNING] prefix.
func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

// Error logs an error message with [ERROR] prefix.
func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

// Close is a no-op for StandardLogger.
func (s *StandardLogger) Close() error {
	return nil
}

// NopLogger discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// MockLogger records every call for assertions in tests. It is safe for
// use from several goroutines; read the records through the accessor
// methods while other goroutines may still log.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(dst *[]string, format string, args []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*dst = append(*dst, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.record(&m.DebugCalls, format, args)
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.record(&m.InfoCalls, format, args)
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.record(&m.WarningCalls, format, args)
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.record(&m.ErrorCalls, format, args)
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Infos returns a snapshot of the recorded Info messages.
func (m *MockLogger) Infos() []string { return m.snapshot(&m.InfoCalls) }

// Warnings returns a snapshot of the recorded Warning messages.
func (m *MockLogger) Warnings() []string { return m.snapshot(&m.WarningCalls) }

// Errors returns a snapshot of the recorded Error messages.
func (m *MockLogger) Errors() []string { return m.snapshot(&m.ErrorCalls) }

func (m *MockLogger) snapshot(src *[]string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), (*src)...)
}

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
