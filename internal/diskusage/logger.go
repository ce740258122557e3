package diskusage

import (
	"fmt"
	"io"
)

// Logger writes debug output, when enabled, and warnings to w.
// The zero value discards everything.
type Logger struct {
	w       io.Writer
	enabled bool
}

// NewLogger creates a Logger writing to w. Debug lines are only written when
// debug is true.
func NewLogger(w io.Writer, debug bool) Logger {
	return Logger{w: w, enabled: debug}
}

// Debugf prints a debug line if logging is enabled.
func (l Logger) Debugf(format string, args ...any) {
	if l.enabled && l.w != nil {
		fmt.Fprintf(l.w, "[debug]: "+format+"\n", args...)
	}
}

// Warnf prints a warning line.
func (l Logger) Warnf(format string, args ...any) {
	if l.w != nil {
		fmt.Fprintf(l.w, "[warn]: "+format+"\n", args...)
	}
}
