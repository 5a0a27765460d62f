// Package policy implements the execution-policy hook applied to
// execute_command actions before any subprocess is spawned.
package policy

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gemforge/gemforge/assets"
	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/pkg/filesystem"
	"github.com/gemforge/gemforge/internal/ports"
)

// Guardrail implements the ports.PolicyService hook. Commands matching a deny
// pattern are blocked or flagged for confirmation; allowlisted prefixes pass
// without pattern evaluation; everything else is allowed. The hook is always
// installed so deployments can tighten the rules file without code changes.
type Guardrail struct {
	enabled   bool
	patterns  []compiledPattern
	allowlist []string
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule domain.DenyPattern
}

// Document is the YAML schema root of the policy rules file.
type Document struct {
	Rules struct {
		DenyPatterns []domain.DenyPattern `yaml:"deny_patterns"`
		Allowlist    []string             `yaml:"allowlist"`
	} `yaml:"rules"`
}

// NewGuardrail loads policy rules from disk, falling back to the embedded
// defaults when the file is missing. A disabled guardrail allows everything.
func NewGuardrail(path string, enabled bool) (*Guardrail, error) {
	doc, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	var compiled []compiledPattern
	for _, rule := range doc.Rules.DenyPatterns {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile policy pattern %q: %w", rule.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: rule})
	}

	return &Guardrail{
		enabled:   enabled,
		patterns:  compiled,
		allowlist: doc.Rules.Allowlist,
	}, nil
}

// Evaluate implements ports.PolicyService. Only execute_command actions are
// subject to pattern rules; path kinds are confined by the sandbox resolver
// and always pass here.
func (g *Guardrail) Evaluate(action domain.Action) (domain.PolicyDecision, error) {
	allow := domain.PolicyDecision{Action: domain.PolicyAllow}
	if g == nil || !g.enabled || action.Kind != domain.ActionExecuteCommand {
		return allow, nil
	}

	command := strings.TrimSpace(action.CommandLine)
	if command == "" {
		return allow, nil
	}
	if g.isAllowlisted(command) {
		return allow, nil
	}

	decision := allow
	for _, p := range g.patterns {
		if !p.re.MatchString(command) {
			continue
		}
		decision.Reasons = append(decision.Reasons, p.rule.Message)
		decision.MatchedRules = append(decision.MatchedRules, p.rule.Pattern)
		if ruleAction(p.rule.Action) == domain.PolicyBlock {
			decision.Action = domain.PolicyBlock
		} else if decision.Action != domain.PolicyBlock {
			decision.Action = domain.PolicyConfirm
		}
	}
	return decision, nil
}

func (g *Guardrail) isAllowlisted(command string) bool {
	for _, safe := range g.allowlist {
		if safe == "" {
			continue
		}
		if command == safe || strings.HasPrefix(command, safe+" ") {
			return true
		}
	}
	return false
}

func ruleAction(value string) domain.PolicyAction {
	switch strings.ToLower(value) {
	case "block":
		return domain.PolicyBlock
	case "confirm":
		return domain.PolicyConfirm
	default:
		return domain.PolicyConfirm
	}
}

func loadRules(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(resolveRulesPath(path))
	if err != nil {
		data = assets.DefaultPolicyYAML
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse policy rules: %w", err)
	}
	if len(doc.Rules.DenyPatterns) == 0 && len(doc.Rules.Allowlist) == 0 {
		if err := yaml.Unmarshal(assets.DefaultPolicyYAML, &doc); err != nil {
			return Document{}, err
		}
	}
	return doc, nil
}

func resolveRulesPath(path string) string {
	if path == "" {
		return filepath.Join(filesystem.UserHomeDir(), ".gemforge", "policy.yaml")
	}
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return path
}

// RulesPath expands the policy rules path to its effective location.
func RulesPath(path string) string {
	return resolveRulesPath(path)
}

// LoadDocument returns the raw YAML structure for display.
func LoadDocument(path string) (Document, error) {
	return loadRules(path)
}

var _ ports.PolicyService = (*Guardrail)(nil)
