package session

import "fmt"

// ValidationError marks a recoverable precondition failure (missing marker,
// out before in, no active clip). No state is mutated when one is returned;
// callers surface it as a transient notice rather than a failure.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// CollaboratorError wraps a failed call to the clip service. Local state is
// left unchanged for destructive operations.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
