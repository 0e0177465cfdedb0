package internal

import (
	"fmt"
	"io"
	"strings"
)

func Logf(w io.Writer, prefix string, format string, a ...any) {
	parts := []string{}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, fmt.Sprintf(format, a...))
	fmt.Fprintln(w, strings.Join(parts, " "))
}

// DebugLog writes debug lines to a sink, usually a file so the terminal UI
// stays clean. A nil DebugLog discards everything.
type DebugLog struct {
	w io.Writer
}

func NewDebugLog(w io.Writer) *DebugLog {
	return &DebugLog{w: w}
}

func (l *DebugLog) Printf(format string, a ...any) {
	if l == nil || l.w == nil {
		return
	}
	Logf(l.w, "[DEBUG]", format, a...)
}
