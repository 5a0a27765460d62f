// Package parser extracts command blocks from generation-service replies.
//
// The textual contract with the generation service is a JSON envelope:
//
//	{"commands": [
//	    {"type": "create_folder", "path": "p"},
//	    {"type": "create_file", "path": "p"},
//	    {"type": "write_code_to_file", "path": "p", "code": "..."},
//	    {"type": "execute_command", "command": "...", "args": ["..."]}],
//	 "user_message": "..."}
//
// The envelope may be the entire reply or sit inside a fenced code block;
// surrounding prose is ignored. Replies without an envelope parse to zero
// commands and are treated as plain conversation. Blocks naming a kind
// outside the closed set are surfaced as UnknownKind, and blocks missing
// required parameters as MalformedBlock; neither aborts the reply.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Parser implements ports.CommandParser.
type Parser struct{}

// New constructs a Parser.
func New() *Parser {
	return &Parser{}
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?[ \t]*\n(.*?)```")

type rawEnvelope struct {
	Commands    []json.RawMessage `json:"commands"`
	UserMessage string            `json:"user_message"`
}

type rawCommand struct {
	Type    string   `json:"type"`
	Path    string   `json:"path"`
	Code    string   `json:"code"`
	Content string   `json:"content"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Parse implements ports.CommandParser.
func (p *Parser) Parse(reply string) domain.ParsedReply {
	envelope, ok := findEnvelope(reply)
	if !ok {
		return domain.ParsedReply{}
	}

	parsed := domain.ParsedReply{UserMessage: envelope.UserMessage}
	for i, raw := range envelope.Commands {
		parsed.Commands = append(parsed.Commands, decodeCommand(i, raw))
	}
	return parsed
}

// findEnvelope tries the whole reply first, then every fenced block, then the
// outermost brace span. The first candidate that decodes into an envelope
// carrying commands or a user message wins.
func findEnvelope(reply string) (rawEnvelope, bool) {
	candidates := []string{strings.TrimSpace(reply)}
	for _, m := range fencedBlockRe.FindAllStringSubmatch(reply, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if start, end := strings.Index(reply, "{"), strings.LastIndex(reply, "}"); start >= 0 && end > start {
		candidates = append(candidates, reply[start:end+1])
	}

	for _, candidate := range candidates {
		if !strings.HasPrefix(candidate, "{") {
			continue
		}
		var env rawEnvelope
		if err := json.Unmarshal([]byte(candidate), &env); err != nil {
			continue
		}
		if env.Commands != nil || env.UserMessage != "" {
			return env, true
		}
	}
	return rawEnvelope{}, false
}

func decodeCommand(index int, raw json.RawMessage) domain.ParsedCommand {
	var cmd rawCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return parseFailure(domain.ParseMalformedBlock,
			fmt.Sprintf("command %d: not a JSON object: %v", index+1, err))
	}

	kind := domain.ActionKind(cmd.Type)
	if cmd.Type == "" {
		return parseFailure(domain.ParseMalformedBlock,
			fmt.Sprintf("command %d: missing type", index+1))
	}
	if !kind.Valid() {
		return parseFailure(domain.ParseUnknownKind,
			fmt.Sprintf("command %d: unknown kind %q", index+1, cmd.Type))
	}

	action := domain.Action{Kind: kind}
	switch kind {
	case domain.ActionCreateFolder, domain.ActionCreateFile:
		if cmd.Path == "" {
			return parseFailure(domain.ParseMalformedBlock,
				fmt.Sprintf("command %d: %s requires path", index+1, kind))
		}
		action.Path = cmd.Path

	case domain.ActionWriteCode:
		if cmd.Path == "" {
			return parseFailure(domain.ParseMalformedBlock,
				fmt.Sprintf("command %d: %s requires path", index+1, kind))
		}
		action.Path = cmd.Path
		// The upstream contract names the payload "code"; accept "content"
		// as a fallback since models drift between the two.
		action.Content = cmd.Code
		if action.Content == "" {
			action.Content = cmd.Content
		}

	case domain.ActionExecuteCommand:
		if strings.TrimSpace(cmd.Command) == "" {
			return parseFailure(domain.ParseMalformedBlock,
				fmt.Sprintf("command %d: execute_command requires command", index+1))
		}
		line := cmd.Command
		if len(cmd.Args) > 0 {
			line = line + " " + strings.Join(cmd.Args, " ")
		}
		action.CommandLine = line
	}

	return domain.ParsedCommand{Action: action}
}

func parseFailure(kind domain.ParseErrorKind, detail string) domain.ParsedCommand {
	return domain.ParsedCommand{Err: &domain.ParseError{Kind: kind, Detail: detail}}
}

var _ ports.CommandParser = (*Parser)(nil)
