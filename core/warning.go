package core

import (
	"errors"
	"fmt"
)

// Warning is a non-fatal failure surfaced to the user in place of a normal
// result. Remote-call failures, storage faults, missing configuration, and
// absent optional features all become Warnings; none of them aborts the
// conversation. Callers detect a Warning with AsWarning (errors.As) rather
// than matching sentinel string prefixes.
type Warning struct {
	Op      string // operation that produced the warning, e.g. "completion", "storage.save"
	Message string // user-presentable description
}

func (w *Warning) Error() string {
	return w.Op + ": " + w.Message
}

// Display returns the user-visible form of the warning.
func (w *Warning) Display() string {
	return "⚠️ " + w.Message
}

// Warningf builds a Warning for op with a formatted message.
func Warningf(op, format string, args ...any) *Warning {
	return &Warning{Op: op, Message: fmt.Sprintf(format, args...)}
}

// AsWarning unwraps err into a *Warning when it carries one.
func AsWarning(err error) (*Warning, bool) {
	var w *Warning
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}
