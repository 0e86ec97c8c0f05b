//go:build !windows

package logger

// NewDaemonLogger returns the logger used by a running daemon: the console.
func NewDaemonLogger(debug bool) Logger {
	return NewConsoleLogger(debug)
}
