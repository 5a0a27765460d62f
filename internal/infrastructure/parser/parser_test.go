package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gemforge/gemforge/internal/domain"
)

func TestParsePlainConversationHasNoCommands(t *testing.T) {
	p := New()

	parsed := p.Parse("Sure! Here is an explanation of goroutines without any commands.")
	if parsed.HasCommands() {
		t.Fatalf("expected zero commands, got %d", len(parsed.Commands))
	}
	if parsed.UserMessage != "" {
		t.Fatalf("expected empty user message, got %q", parsed.UserMessage)
	}
}

func TestParseBareEnvelope(t *testing.T) {
	p := New()
	reply := `{"commands": [
		{"type": "create_folder", "path": "app"},
		{"type": "write_code_to_file", "path": "app/main.py", "code": "print('hi')"},
		{"type": "execute_command", "command": "python", "args": ["app/main.py"]}],
	"user_message": "Created and ran the app."}`

	parsed := p.Parse(reply)
	if parsed.UserMessage != "Created and ran the app." {
		t.Fatalf("user message = %q", parsed.UserMessage)
	}
	if len(parsed.Commands) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(parsed.Commands))
	}

	want := []domain.Action{
		{Kind: domain.ActionCreateFolder, Path: "app"},
		{Kind: domain.ActionWriteCode, Path: "app/main.py", Content: "print('hi')"},
		{Kind: domain.ActionExecuteCommand, CommandLine: "python app/main.py"},
	}
	for i, cmd := range parsed.Commands {
		if cmd.Err != nil {
			t.Fatalf("command %d unexpected error: %v", i, cmd.Err)
		}
		if diff := cmp.Diff(want[i], cmd.Action); diff != "" {
			t.Fatalf("command %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParseEnvelopeInsideFenceWithProse(t *testing.T) {
	p := New()
	reply := "Here is what I will do:\n\n```json\n" +
		`{"commands": [{"type": "create_file", "path": "notes.txt"}], "user_message": "done"}` +
		"\n```\n\nLet me know how it goes."

	parsed := p.Parse(reply)
	if len(parsed.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(parsed.Commands))
	}
	if parsed.Commands[0].Action.Kind != domain.ActionCreateFile {
		t.Fatalf("kind = %s", parsed.Commands[0].Action.Kind)
	}
	if parsed.UserMessage != "done" {
		t.Fatalf("user message = %q", parsed.UserMessage)
	}
}

func TestParseUnknownKindSurfaced(t *testing.T) {
	p := New()
	reply := `{"commands": [{"type": "delete_everything", "path": "x"}], "user_message": "m"}`

	parsed := p.Parse(reply)
	if len(parsed.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(parsed.Commands))
	}
	var perr *domain.ParseError
	if !errors.As(parsed.Commands[0].Err, &perr) {
		t.Fatalf("expected ParseError, got %v", parsed.Commands[0].Err)
	}
	if perr.Kind != domain.ParseUnknownKind {
		t.Fatalf("kind = %s, want unknown_kind", perr.Kind)
	}
}

func TestParseMalformedBlockKeepsPosition(t *testing.T) {
	p := New()
	reply := `{"commands": [
		{"type": "create_folder", "path": "a"},
		{"type": "write_code_to_file", "code": "x"},
		{"type": "create_file", "path": "a/b.txt"}],
	"user_message": "m"}`

	parsed := p.Parse(reply)
	if len(parsed.Commands) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(parsed.Commands))
	}
	if parsed.Commands[0].Err != nil || parsed.Commands[2].Err != nil {
		t.Fatal("well-formed blocks should not carry errors")
	}
	var perr *domain.ParseError
	if !errors.As(parsed.Commands[1].Err, &perr) || perr.Kind != domain.ParseMalformedBlock {
		t.Fatalf("middle block error = %v, want malformed_block", parsed.Commands[1].Err)
	}
}

func TestParseWriteCodeAcceptsContentField(t *testing.T) {
	p := New()
	reply := `{"commands": [{"type": "write_code_to_file", "path": "f.txt", "content": "hello"}], "user_message": ""}`

	parsed := p.Parse(reply)
	if len(parsed.Commands) != 1 || parsed.Commands[0].Err != nil {
		t.Fatalf("unexpected parse: %+v", parsed.Commands)
	}
	if parsed.Commands[0].Action.Content != "hello" {
		t.Fatalf("content = %q", parsed.Commands[0].Action.Content)
	}
}

func TestParseIgnoresBrokenFenceUsesBraceSpan(t *testing.T) {
	p := New()
	reply := "prefix text {\"commands\": [{\"type\": \"create_folder\", \"path\": \"z\"}], \"user_message\": \"ok\"} suffix"

	parsed := p.Parse(reply)
	if len(parsed.Commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(parsed.Commands))
	}
}

func TestParseMessageOnlyEnvelope(t *testing.T) {
	p := New()
	parsed := p.Parse(`{"commands": [], "user_message": "Nothing to do."}`)
	if parsed.HasCommands() {
		t.Fatal("expected no commands")
	}
	if parsed.UserMessage != "Nothing to do." {
		t.Fatalf("user message = %q", parsed.UserMessage)
	}
}
