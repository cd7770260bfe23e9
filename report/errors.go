package report

import "fmt"

// LocalError is a compile error raised by panicking mid-walk of a single
// declaration: the enclosing walker catches it with CatchInto and turns it
// into a Sink report, so one bad declaration does not abort the whole run.
type LocalError struct {
	Message string
	Span    *Span
}

func (e *LocalError) Error() string {
	return e.Message
}

// Raise creates a LocalError ready to be panicked.
func Raise(span *Span, format string, args ...interface{}) *LocalError {
	return &LocalError{Message: fmt.Sprintf(format, args...), Span: span}
}

// ICE is an internal-consistency-error panic: a condition the analyzer
// believes can never occur (eg. calling equals() on a bare type variable).
// Unlike LocalError, CatchInto never swallows it — it always re-panics so
// the fault surfaces to the caller instead of being reported as if it were
// the user's mistake.
type ICE struct {
	Message string
}

func (e *ICE) Error() string {
	return "internal error: " + e.Message
}

// ReportICE panics with an ICE. Call sites use this for invariant violations
// that indicate a bug in the analyzer itself.
func ReportICE(format string, args ...interface{}) {
	panic(&ICE{Message: fmt.Sprintf(format, args...)})
}

// CatchInto recovers a panicked LocalError and reports it to sink at src.
// Any other panic value (including *ICE) is re-raised. This must always be
// deferred:
//
//	defer report.CatchInto(sink, src)
func CatchInto(sink Sink, src Source) {
	if x := recover(); x != nil {
		if lerr, ok := x.(*LocalError); ok {
			Error(sink, src, lerr.Span, "%s", lerr.Message)
			return
		}

		panic(x)
	}
}
