package domain

// SystemSnapshot is the environmental context embedded in prompts so the
// model knows what machine and directory it is generating commands for.
type SystemSnapshot struct {
	OS          string
	Arch        string
	WorkingDir  string
	SandboxRoot string
	Files       []string // top-level entries under the sandbox root, bounded
}

// ReplyPartKind distinguishes the content variants a generation reply can mix.
type ReplyPartKind string

const (
	PartText       ReplyPartKind = "text"
	PartCode       ReplyPartKind = "executable_code"
	PartExecResult ReplyPartKind = "code_execution_result"
)

// ReplyPart is one segment of a generation reply. Code and remote execution
// results only appear when the code_execution tool was requested.
type ReplyPart struct {
	Kind     ReplyPartKind
	Text     string
	Language string // executable_code
	Code     string // executable_code
	Outcome  string // code_execution_result
	Output   string // code_execution_result
}

// ScaffoldFile is one file extracted from a markdown-formatted codebase reply.
type ScaffoldFile struct {
	Path    string
	Content string
}
