package domain

import "fmt"

// ParseErrorKind classifies why a command block was rejected at parse time.
type ParseErrorKind string

const (
	ParseMalformedBlock ParseErrorKind = "malformed_block"
	ParseUnknownKind    ParseErrorKind = "unknown_kind"
)

// ParseError rejects a single command block. It is recorded as a failed
// ExecutionResult for that block; it never aborts the round.
type ParseError struct {
	Kind   ParseErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Detail)
}

// ValidationErrorKind classifies why a parsed action was refused execution.
type ValidationErrorKind string

const (
	ValidationPathEscape ValidationErrorKind = "path_escape"
	ValidationDenied     ValidationErrorKind = "denied"
)

// ValidationError refuses one action before any side effect happens.
type ValidationError struct {
	Kind   ValidationErrorKind
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Kind, e.Detail)
}

// ExecutionErrorKind classifies a failure while performing an action.
type ExecutionErrorKind string

const (
	ExecIOFailure   ExecutionErrorKind = "io_failure"
	ExecTimeout     ExecutionErrorKind = "timeout"
	ExecNonZeroExit ExecutionErrorKind = "non_zero_exit"
)

// ExecutionError describes a failed Execute call.
type ExecutionError struct {
	Kind     ExecutionErrorKind
	ExitCode int
	Detail   string
}

func (e *ExecutionError) Error() string {
	if e.Kind == ExecNonZeroExit {
		return fmt.Sprintf("execution error (%s): exit code %d: %s", e.Kind, e.ExitCode, e.Detail)
	}
	return fmt.Sprintf("execution error (%s): %s", e.Kind, e.Detail)
}
