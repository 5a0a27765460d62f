package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled reports whether the prompter can actually ask. A non-interactive
// stdin means flagged commands are declined instead of hanging.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm asks the user to approve a flagged command.
func (p *Prompter) Confirm(decision domain.PolicyDecision, action domain.Action) (bool, error) {
	fmt.Fprintf(p.out, "\nCommand flagged by policy:\n  %s\n", action.CommandLine)
	for _, reason := range decision.Reasons {
		fmt.Fprintf(p.out, " - %s\n", reason)
	}
	fmt.Fprint(p.out, "Run it? [y/N]: ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
