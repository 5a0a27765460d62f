// Package services orchestrates the round pipeline and the user-facing modes
// built on top of it.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// RoundService turns one generation reply into ordered execution results.
// Parse, validate and execute are fail-soft per action: a rejected or failed
// action becomes a failed result and the round continues with the next one.
type RoundService struct {
	Parser   ports.CommandParser
	Resolver ports.PathResolver
	Policy   ports.PolicyService
	Executor ports.ActionExecutor
	Prompter ports.ConfirmationPrompter
	Logger   ports.Logger
}

// RoundOptions tune one RunRound call.
type RoundOptions struct {
	// AutoApprove executes confirm-flagged commands without prompting.
	// Block decisions are never overridden.
	AutoApprove bool
}

// RunRound processes the reply's command blocks in order. The returned
// results align one-to-one with the blocks; a reply without blocks yields an
// empty result list and no side effects. Cancellation is honored between
// actions: the partial outcome is returned together with the context error.
func (s *RoundService) RunRound(ctx context.Context, reply string, opts RoundOptions) (domain.RoundOutcome, error) {
	if s.Parser == nil || s.Resolver == nil || s.Policy == nil || s.Executor == nil || s.Logger == nil {
		return domain.RoundOutcome{}, errors.New("services.RoundService dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	parsed := s.Parser.Parse(reply)
	outcome := domain.RoundOutcome{UserMessage: parsed.UserMessage}
	if !parsed.HasCommands() {
		return outcome, nil
	}

	for _, cmd := range parsed.Commands {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		outcome.Results = append(outcome.Results, s.runOne(ctx, cmd, opts))
	}
	return outcome, nil
}

// RunActions pushes pre-built actions through the same validation and
// execution pipeline as reply blocks. Scaffolding uses this to materialize
// extracted files.
func (s *RoundService) RunActions(ctx context.Context, actions []domain.Action, opts RoundOptions) ([]domain.ExecutionResult, error) {
	if s.Resolver == nil || s.Policy == nil || s.Executor == nil || s.Logger == nil {
		return nil, errors.New("services.RoundService dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var results []domain.ExecutionResult
	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.runOne(ctx, domain.ParsedCommand{Action: action}, opts))
	}
	return results, nil
}

func (s *RoundService) runOne(ctx context.Context, cmd domain.ParsedCommand, opts RoundOptions) domain.ExecutionResult {
	if cmd.Err != nil {
		s.Logger.Warn("command block rejected", map[string]interface{}{"error": cmd.Err.Error()})
		return failedResult(cmd.Action, cmd.Err)
	}

	action := cmd.Action
	target := s.Resolver.Root()

	if action.Kind.NeedsPath() {
		resolved, err := s.Resolver.Resolve(action.Path)
		if err != nil {
			s.Logger.Warn("path rejected", map[string]interface{}{
				"kind": string(action.Kind),
				"path": action.Path,
			})
			return failedResult(action, err)
		}
		target = resolved
	}

	if action.Kind == domain.ActionExecuteCommand {
		if denied := s.checkPolicy(action, opts); denied != nil {
			return failedResult(action, denied)
		}
	}

	s.Logger.Debug("executing action", map[string]interface{}{
		"kind":   string(action.Kind),
		"target": target,
	})
	return s.Executor.Execute(ctx, action, target)
}

// checkPolicy returns the refusal for a command, or nil when it may run.
func (s *RoundService) checkPolicy(action domain.Action, opts RoundOptions) error {
	decision, err := s.Policy.Evaluate(action)
	if err != nil {
		return err
	}

	switch decision.Action {
	case domain.PolicyBlock:
		return &domain.ValidationError{
			Kind:   domain.ValidationDenied,
			Detail: "blocked by policy: " + strings.Join(decision.Reasons, "; "),
		}
	case domain.PolicyConfirm:
		if opts.AutoApprove {
			return nil
		}
		if s.Prompter != nil && s.Prompter.Enabled() {
			approved, err := s.Prompter.Confirm(decision, action)
			if err != nil {
				return err
			}
			if approved {
				return nil
			}
		}
		return &domain.ValidationError{
			Kind:   domain.ValidationDenied,
			Detail: "confirmation declined: " + strings.Join(decision.Reasons, "; "),
		}
	default:
		return nil
	}
}

func failedResult(action domain.Action, err error) domain.ExecutionResult {
	return domain.ExecutionResult{
		Action:      action,
		ErrorDetail: err.Error(),
	}
}
