package domain

// PolicyAction describes how the round pipeline should react to a command.
type PolicyAction string

const (
	PolicyAllow   PolicyAction = "allow"
	PolicyConfirm PolicyAction = "confirm"
	PolicyBlock   PolicyAction = "block"
)

// PolicyDecision aggregates the evaluation of one execute_command action
// against the configured deny patterns and allowlist.
type PolicyDecision struct {
	Action       PolicyAction
	Reasons      []string
	MatchedRules []string
}

// DenyPattern is one configurable rule matched against command text.
type DenyPattern struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}
