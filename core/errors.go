package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an ErrorContext. It is informational only and is
// carried into logs, never used to pick a code path.
type ErrorKind string

const (
	KindUnknownCommand         ErrorKind = "unknown_command"
	KindMissingArgument        ErrorKind = "missing_argument"
	KindTypeMismatch           ErrorKind = "type_mismatch"
	KindTransport              ErrorKind = "transport"
	KindDecode                 ErrorKind = "decode"
	KindCommandExecutionFailed ErrorKind = "command_execution_failed"
)

// ErrAlreadyReplied is returned when a second reply is attempted on an interaction
var ErrAlreadyReplied = errors.New("interaction already replied to")

// ErrorContext is an error carrying a root cause, a classification and the
// annotations attached while it propagated. Annotations are ordered newest first.
//
// Values are never mutated; Attach and ChangeKind return copies.
type ErrorContext struct {
	cause       error
	kind        ErrorKind
	annotations []string
}

// FromCause creates an ErrorContext at the point of first failure
func FromCause(cause error, kind ErrorKind) *ErrorContext {
	if cause == nil {
		cause = errors.New("unknown error")
	}
	return &ErrorContext{cause: cause, kind: kind}
}

// NewError creates an ErrorContext whose root cause is a formatted message
func NewError(kind ErrorKind, format string, args ...any) *ErrorContext {
	return FromCause(fmt.Errorf(format, args...), kind)
}

// Wrap attaches a note to err. If err is not already an ErrorContext it
// becomes the root cause of a new one classified as kind.
func Wrap(err error, kind ErrorKind, note string) *ErrorContext {
	if err == nil {
		return nil
	}
	var ec *ErrorContext
	if errors.As(err, &ec) {
		return ec.Attach(note)
	}
	return FromCause(err, kind).Attach(note)
}

// Attach returns a copy of the error with note prepended to the annotations
func (e *ErrorContext) Attach(note string) *ErrorContext {
	annotations := make([]string, 0, len(e.annotations)+1)
	annotations = append(annotations, note)
	annotations = append(annotations, e.annotations...)
	return &ErrorContext{cause: e.cause, kind: e.kind, annotations: annotations}
}

// Attachf is Attach with formatting
func (e *ErrorContext) Attachf(format string, args ...any) *ErrorContext {
	return e.Attach(fmt.Sprintf(format, args...))
}

// ChangeKind re-classifies the error, keeping cause and annotations
func (e *ErrorContext) ChangeKind(kind ErrorKind) *ErrorContext {
	annotations := make([]string, len(e.annotations))
	copy(annotations, e.annotations)
	return &ErrorContext{cause: e.cause, kind: kind, annotations: annotations}
}

func (e *ErrorContext) Kind() ErrorKind {
	return e.kind
}

func (e *ErrorContext) Cause() error {
	return e.cause
}

// Annotations returns a copy of the annotation trail, newest first
func (e *ErrorContext) Annotations() []string {
	annotations := make([]string, len(e.annotations))
	copy(annotations, e.annotations)
	return annotations
}

func (e *ErrorContext) Error() string {
	parts := make([]string, 0, len(e.annotations)+1)
	parts = append(parts, e.annotations...)
	parts = append(parts, e.cause.Error())
	return strings.Join(parts, ": ")
}

func (e *ErrorContext) Unwrap() error {
	return e.cause
}

// Report renders the full causal trail for logging, one annotation per line
func (e *ErrorContext) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.kind, e.cause.Error())
	for i := len(e.annotations) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n  ├╴ %s", e.annotations[i])
	}
	return b.String()
}

// KindOf returns the classification of err, or KindCommandExecutionFailed
// when err carries no ErrorContext
func KindOf(err error) ErrorKind {
	var ec *ErrorContext
	if errors.As(err, &ec) {
		return ec.kind
	}
	return KindCommandExecutionFailed
}

// Report renders err for logging. Plain errors are rendered with Error()
func Report(err error) string {
	var ec *ErrorContext
	if errors.As(err, &ec) {
		return ec.Report()
	}
	return err.Error()
}
