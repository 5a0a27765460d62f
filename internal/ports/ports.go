// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). Following the Ports and Adapters
// (Hexagonal) pattern, these interfaces keep the round pipeline independent of
// specific implementations like the Gemini HTTP client, the SQLite history
// store, or the cobra CLI.
package ports

import (
	"context"

	"github.com/gemforge/gemforge/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.gemforge/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// SystemCollector gathers the environmental snapshot embedded in prompts.
type SystemCollector interface {
	Collect(ctx context.Context, cfg domain.Config, sandboxRoot string) (domain.SystemSnapshot, error)
}

// GeneratorFactory builds generation provider instances from model definitions.
type GeneratorFactory interface {
	ForModel(domain.ModelDefinition) (Generator, error)
}

// Generator is the external text-generation collaborator. One call per round.
type Generator interface {
	Name() string
	Model() domain.ModelDefinition
	Generate(context.Context, GenerateRequest) (GenerateResponse, error)
}

// GenerateRequest carries the fully rendered prompt for one round.
type GenerateRequest struct {
	Prompt        string
	CodeExecution bool // enable the remote code_execution tool
}

// GenerateResponse is the raw reply plus its structured parts.
type GenerateResponse struct {
	Text  string
	Parts []domain.ReplyPart
}

// PromptBuilder renders the prompts and feedback payloads sent to the
// generation service.
type PromptBuilder interface {
	ChatPrompt(snapshot domain.SystemSnapshot, feedback, query string) (string, error)
	ScaffoldPrompt(description string) (string, error)
	Feedback(results []domain.ExecutionResult) (string, error)
}

// CommandParser extracts the ordered command blocks from a reply. Prose
// around well-formed blocks is tolerated; a reply without blocks parses to
// zero commands, not an error.
type CommandParser interface {
	Parse(reply string) domain.ParsedReply
}

// PathResolver confines path-based actions to the sandbox root.
type PathResolver interface {
	// Resolve returns the absolute target for a sandbox-relative path, or a
	// domain.ValidationError when the path escapes the root.
	Resolve(path string) (string, error)
	Root() string
}

// PolicyService evaluates execute_command actions against the configured
// deny patterns and allowlist before any subprocess is spawned.
type PolicyService interface {
	Evaluate(action domain.Action) (domain.PolicyDecision, error)
}

// ActionExecutor performs one validated action. target is the resolved
// absolute path for path kinds, or the sandbox root for execute_command.
type ActionExecutor interface {
	Execute(ctx context.Context, action domain.Action, target string) domain.ExecutionResult
}

// ConfirmationPrompter handles interactive approval of flagged commands.
type ConfirmationPrompter interface {
	Confirm(decision domain.PolicyDecision, action domain.Action) (bool, error)
	Enabled() bool
}

// ScaffoldExtractor pulls files out of a markdown-formatted codebase reply.
type ScaffoldExtractor interface {
	Extract(reply string) []domain.ScaffoldFile
}

// HistoryRepository persists the round audit log.
type HistoryRepository interface {
	Save(domain.RoundRecord) error
	Records(limit int, search string) ([]domain.RoundRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// CacheRepository stores generation replies keyed by prompt hash.
type CacheRepository interface {
	Get(key string) (domain.CacheEntry, bool, error)
	Set(domain.CacheEntry) error
	Clear() error
	Dir() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
