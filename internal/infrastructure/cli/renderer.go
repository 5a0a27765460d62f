package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/gemforge/gemforge/internal/domain"
)

// Renderer prints responses, falling back to plain text when stdout is not a
// terminal.
type Renderer struct {
	out      io.Writer
	profile  termenv.Profile
	markdown *glamour.TermRenderer
}

// NewRenderer builds a renderer for the given writer. Markdown styling and
// colors are only enabled when stdout is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	r := &Renderer{out: out, profile: termenv.Ascii}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		r.profile = termenv.ColorProfile()
		if md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100)); err == nil {
			r.markdown = md
		}
	}
	return r
}

// RenderChat prints the full session transcript round by round.
func (r *Renderer) RenderChat(resp domain.ChatResponse) {
	if resp.FromCache {
		fmt.Fprintln(r.out, "(reply served from cache)")
	}
	for i, round := range resp.Session.Rounds {
		if len(resp.Session.Rounds) > 1 {
			fmt.Fprintf(r.out, "\nRound %d/%d\n", i+1, len(resp.Session.Rounds))
		}
		r.RenderResults(round.Results)
		if round.UserMessage != "" {
			fmt.Fprintln(r.out)
			fmt.Fprint(r.out, r.renderMarkdown(round.UserMessage))
		}
	}
	fmt.Fprintf(r.out, "\nModel: %s | Session: %s\n", resp.ModelUsed, resp.Session.ID)
}

// RenderResults prints one line per action, in execution order.
func (r *Renderer) RenderResults(results []domain.ExecutionResult) {
	for _, res := range results {
		marker := r.colored("ok", "2")
		if !res.Succeeded {
			marker = r.colored("fail", "1")
		}
		fmt.Fprintf(r.out, "[%s] %s (%s)\n", marker, res.Action.Kind, res.Action.Details())
		if res.DiffSummary != "" {
			fmt.Fprintf(r.out, "      %s\n", res.DiffSummary)
		}
		if res.Output != "" {
			r.renderOutput(res.Output, res.Truncated)
		}
		if res.ErrorDetail != "" {
			fmt.Fprintf(r.out, "      %s\n", res.ErrorDetail)
		}
	}
}

// RenderExec prints the mixed parts of a code-execution reply.
func (r *Renderer) RenderExec(resp domain.ExecResponse) {
	if resp.FromCache {
		fmt.Fprintln(r.out, "(reply served from cache)")
	}
	for _, part := range resp.Parts {
		switch part.Kind {
		case domain.PartCode:
			fmt.Fprint(r.out, r.renderMarkdown(fmt.Sprintf("```%s\n%s\n```", part.Language, part.Code)))
		case domain.PartExecResult:
			fmt.Fprintf(r.out, "Execution result: %s\n%s", part.Outcome, part.Output)
		default:
			fmt.Fprint(r.out, r.renderMarkdown(part.Text))
		}
	}
	fmt.Fprintf(r.out, "\nModel: %s\n", resp.ModelUsed)
}

// RenderScaffold summarizes scaffolding results.
func (r *Renderer) RenderScaffold(resp domain.ScaffoldResponse) {
	r.RenderResults(resp.Results)
	written := 0
	for _, res := range resp.Results {
		if res.Succeeded && res.Action.Kind == domain.ActionWriteCode {
			written++
		}
	}
	fmt.Fprintf(r.out, "\n%d files written | Model: %s\n", written, resp.ModelUsed)
}

// RenderHistory prints round records, newest first.
func (r *Renderer) RenderHistory(records []domain.RoundRecord) {
	for _, rec := range records {
		fmt.Fprintf(r.out, "%s | %s | %s | actions %d (failed %d) | %s\n",
			rec.Timestamp.Format(time.RFC3339),
			rec.Mode,
			rec.Model,
			rec.ActionCount,
			rec.FailureCount,
			humanize.Time(rec.Timestamp))
	}
}

// RenderDoctor prints the health report.
func (r *Renderer) RenderDoctor(report domain.HealthReport) {
	for _, check := range report.Checks {
		status := string(check.Status)
		switch check.Status {
		case domain.CheckOK:
			status = r.colored(status, "2")
		case domain.CheckWarn:
			status = r.colored(status, "3")
		case domain.CheckFail:
			status = r.colored(status, "1")
		}
		fmt.Fprintf(r.out, "[%s] %s - %s\n", status, check.Name, check.Detail)
	}
}

func (r *Renderer) renderOutput(output string, truncated bool) {
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		fmt.Fprintf(r.out, "      | %s\n", line)
	}
	if truncated {
		fmt.Fprintf(r.out, "      | ... output truncated at %s\n", humanize.Bytes(uint64(len(output))))
	}
}

func (r *Renderer) renderMarkdown(text string) string {
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(text); err == nil {
			return rendered
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text
}

func (r *Renderer) colored(text, color string) string {
	if r.profile == termenv.Ascii {
		return text
	}
	return termenv.String(text).Foreground(r.profile.Color(color)).String()
}
