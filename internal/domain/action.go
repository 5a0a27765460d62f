// Package domain defines core business entities and value objects for gemforge.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures.
package domain

import "fmt"

// ActionKind enumerates the closed set of instructions the model may issue.
// Unknown kinds are rejected at parse time, never silently ignored.
type ActionKind string

const (
	ActionCreateFolder   ActionKind = "create_folder"
	ActionCreateFile     ActionKind = "create_file"
	ActionWriteCode      ActionKind = "write_code_to_file"
	ActionExecuteCommand ActionKind = "execute_command"
)

// Valid reports whether the kind belongs to the closed set.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionCreateFolder, ActionCreateFile, ActionWriteCode, ActionExecuteCommand:
		return true
	}
	return false
}

// NeedsPath reports whether the kind operates on a sandbox-relative path.
func (k ActionKind) NeedsPath() bool {
	switch k {
	case ActionCreateFolder, ActionCreateFile, ActionWriteCode:
		return true
	}
	return false
}

// Action is one parsed instruction to perform a local effect.
type Action struct {
	Kind        ActionKind
	Path        string // relative to the sandbox root; folder/file/write kinds
	Content     string // payload for write_code_to_file
	CommandLine string // shell text for execute_command
}

// Details renders the parameter summary used in feedback and audit records.
func (a Action) Details() string {
	if a.Kind == ActionExecuteCommand {
		return fmt.Sprintf("command: %s", a.CommandLine)
	}
	return fmt.Sprintf("path: %s", a.Path)
}

// ParsedCommand is one command block extracted from a reply, in reply order.
// Exactly one of Action or Err is meaningful: a well-formed block carries the
// Action, a malformed or unknown block carries the ParseError that rejected it.
type ParsedCommand struct {
	Action Action
	Err    error
}

// ParsedReply is the structured view of one generation-service reply.
type ParsedReply struct {
	Commands    []ParsedCommand
	UserMessage string
}

// HasCommands reports whether the reply contained any command blocks at all.
func (r ParsedReply) HasCommands() bool {
	return len(r.Commands) > 0
}

// ExecutionResult is the outcome of attempting one Action.
type ExecutionResult struct {
	Action      Action
	Succeeded   bool
	Output      string // captured combined output, truncated to a bounded size
	Truncated   bool
	DiffSummary string // "+a/-b lines" when write_code_to_file overwrote a file
	ErrorDetail string // present only when Succeeded is false
	DurationMS  int64
}

// RoundOutcome bundles the ordered results of one round with the
// conversational message the model addressed to the user.
type RoundOutcome struct {
	UserMessage string
	Results     []ExecutionResult
}

// FailureCount returns the number of failed results.
func (o RoundOutcome) FailureCount() int {
	n := 0
	for _, r := range o.Results {
		if !r.Succeeded {
			n++
		}
	}
	return n
}
