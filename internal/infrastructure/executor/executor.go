// Package executor performs validated actions against the local filesystem
// and process space.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Executor runs actions one at a time. Each Execute call is independent;
// failures are reported in the ExecutionResult, never as a Go error, so one
// failed action cannot abort the rest of a round.
type Executor struct {
	shell     string
	timeout   time.Duration
	maxOutput int
}

// NewExecutor builds an executor. shell defaults to $SHELL then /bin/sh,
// timeout and maxOutput fall back to the domain defaults when zero.
func NewExecutor(shell string, timeout time.Duration, maxOutput int) *Executor {
	if shell == "" || shell == "auto" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	if timeout <= 0 {
		timeout = domain.DefaultCommandTimeout
	}
	if maxOutput <= 0 {
		maxOutput = domain.MaxCapturedOutputBytes
	}
	return &Executor{shell: shell, timeout: timeout, maxOutput: maxOutput}
}

// Execute implements ports.ActionExecutor. target is the resolved absolute
// path for path kinds and the sandbox root (working directory) for
// execute_command.
func (e *Executor) Execute(ctx context.Context, action domain.Action, target string) domain.ExecutionResult {
	start := time.Now()
	result := domain.ExecutionResult{Action: action}

	switch action.Kind {
	case domain.ActionCreateFolder:
		e.createFolder(target, &result)
	case domain.ActionCreateFile:
		e.createFile(target, &result)
	case domain.ActionWriteCode:
		e.writeCode(target, action.Content, &result)
	case domain.ActionExecuteCommand:
		e.runCommand(ctx, action.CommandLine, target, &result)
	default:
		result.ErrorDetail = (&domain.ExecutionError{
			Kind:   domain.ExecIOFailure,
			Detail: fmt.Sprintf("unsupported action kind %q", action.Kind),
		}).Error()
	}

	result.DurationMS = time.Since(start).Milliseconds()
	return result
}

// createFolder is idempotent: an already existing directory succeeds.
func (e *Executor) createFolder(target string, result *domain.ExecutionResult) {
	if err := os.MkdirAll(target, domain.DirectoryPermissions); err != nil {
		result.ErrorDetail = ioFailure(err)
		return
	}
	result.Succeeded = true
	result.Output = fmt.Sprintf("created folder %s", target)
}

// createFile refuses to invent missing parents; that is create_folder's job.
func (e *Executor) createFile(target string, result *domain.ExecutionResult) {
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		if os.IsNotExist(err) {
			result.ErrorDetail = ioFailure(fmt.Errorf("parent directory does not exist: %s", filepath.Dir(target)))
			return
		}
		result.ErrorDetail = ioFailure(err)
		return
	}
	if err := os.WriteFile(target, nil, domain.FilePermissions); err != nil {
		result.ErrorDetail = ioFailure(err)
		return
	}
	result.Succeeded = true
	result.Output = fmt.Sprintf("created file %s", target)
}

// writeCode creates or overwrites unconditionally; no merge semantics.
func (e *Executor) writeCode(target, content string, result *domain.ExecutionResult) {
	previous, readErr := os.ReadFile(target)
	if err := os.WriteFile(target, []byte(content), domain.FilePermissions); err != nil {
		result.ErrorDetail = ioFailure(err)
		return
	}
	result.Succeeded = true
	result.Output = fmt.Sprintf("wrote %d bytes to %s", len(content), target)
	if readErr == nil {
		result.DiffSummary = diffSummary(string(previous), content)
	}
}

func (e *Executor) runCommand(ctx context.Context, line, workDir string, result *domain.ExecutionResult) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.shell, "-c", line)
	cmd.Dir = workDir
	out := newBoundedBuffer(e.maxOutput)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	result.Output = out.String()
	result.Truncated = out.Truncated()

	switch {
	case err == nil:
		result.Succeeded = true
	case ctx.Err() == context.DeadlineExceeded:
		result.ErrorDetail = (&domain.ExecutionError{
			Kind:   domain.ExecTimeout,
			Detail: fmt.Sprintf("command exceeded %s and was terminated", e.timeout),
		}).Error()
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ErrorDetail = (&domain.ExecutionError{
				Kind:     domain.ExecNonZeroExit,
				ExitCode: exitErr.ExitCode(),
				Detail:   strings.TrimSpace(lastLine(result.Output)),
			}).Error()
			return
		}
		result.ErrorDetail = ioFailure(err)
	}
}

func ioFailure(err error) string {
	return (&domain.ExecutionError{Kind: domain.ExecIOFailure, Detail: err.Error()}).Error()
}

// diffSummary reports "+a/-b lines" for an overwrite of existing content.
func diffSummary(old, new string) string {
	if old == new {
		return "unchanged"
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, new, true)
	added, removed := 0, 0
	for _, d := range diffs {
		lines := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			lines++
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += lines
		case diffmatchpatch.DiffDelete:
			removed += lines
		}
	}
	return fmt.Sprintf("+%d/-%d lines", added, removed)
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}

var _ ports.ActionExecutor = (*Executor)(nil)
