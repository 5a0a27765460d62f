package domain

import "context"

// ChatRequest captures user intent for the feedback-loop chat mode.
type ChatRequest struct {
	Context       context.Context
	Query         string
	ModelOverride string
	SandboxRoot   string // overrides the configured root when set
	Rounds        int    // feedback rounds to run, 1 when unset
	AutoApprove   bool
	NoCache       bool
	Debug         bool
}

// ChatResponse is the canonical chat result propagated back to the CLI.
type ChatResponse struct {
	Session   Session
	ModelUsed string
	FromCache bool
}

// ExecRequest captures user intent for remote code-execution mode.
type ExecRequest struct {
	Context       context.Context
	Query         string
	ModelOverride string
	NoCache       bool
}

// ExecResponse carries the mixed reply parts from code-execution mode.
type ExecResponse struct {
	Parts     []ReplyPart
	ModelUsed string
	FromCache bool
}

// ScaffoldRequest captures user intent for codebase scaffolding.
type ScaffoldRequest struct {
	Context       context.Context
	Description   string
	OutputDir     string
	ModelOverride string
}

// ScaffoldResponse reports what scaffolding created.
type ScaffoldResponse struct {
	Results   []ExecutionResult
	ModelUsed string
}
