package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/gemforge/gemforge/internal/domain"
)

// chatSystemTemplate instructs the model to answer with the JSON command
// envelope and explains the feedback loop. The envelope shape here is the
// single textual contract the parser depends on.
const chatSystemTemplate = `You are a helpful coding assistant. You will receive system information and user queries. Respond with a JSON object containing 'commands' and 'user_message'. 'commands' is an array of command objects, each with a 'type' and command-specific fields. Supported commands:
- 'create_folder': { "type": "create_folder", "path": "<folder_path>" }
- 'create_file': { "type": "create_file", "path": "<file_path>" }
- 'write_code_to_file': { "type": "write_code_to_file", "path": "<file_path>", "code": "<code_string>" }
- 'execute_command': { "type": "execute_command", "command": "<command_string>" }
All paths must be relative to the working directory. 'user_message' is a string for user feedback after execution.

Feedback Loop: after your commands are executed, the next query includes a JSON report of their success or failure. Use it to correct failed commands or adjust your approach. Reply with an empty 'commands' array when nothing is left to do.

System Information:
{{.SystemInfo}}

Previous Command Feedback (if any):
{{.Feedback}}

User Query:
{{.Query}}`

const scaffoldTemplate = `Create a complete codebase based on this description: {{.Description}}

Generate all necessary files for a working application. For each file:
1. Use a clear header with the filename (e.g., '## app.py' or 'File: app.py')
2. Provide the complete code content in a markdown code block with the appropriate language
3. Briefly explain what the file does after the code block

IMPORTANT: include the actual code in markdown code blocks with the appropriate language tag, not just explanations.
Include a README.md with setup instructions, dependencies, and usage examples.
Make sure the codebase is well-structured, follows best practices, and is ready to run.
Format your response as markdown with code blocks for each file.`

var (
	chatTmpl     = template.Must(template.New("chat").Parse(chatSystemTemplate))
	scaffoldTmpl = template.Must(template.New("scaffold").Parse(scaffoldTemplate))
)

// BuildChatPrompt renders the full chat-mode prompt for one round.
func BuildChatPrompt(snapshot domain.SystemSnapshot, feedback, query string) (string, error) {
	if strings.TrimSpace(feedback) == "" {
		feedback = "none"
	}
	var buf bytes.Buffer
	err := chatTmpl.Execute(&buf, struct {
		SystemInfo string
		Feedback   string
		Query      string
	}{
		SystemInfo: systemInfoBlock(snapshot),
		Feedback:   feedback,
		Query:      query,
	})
	if err != nil {
		return "", fmt.Errorf("render chat prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildScaffoldPrompt renders the codebase-generation prompt.
func BuildScaffoldPrompt(description string) (string, error) {
	var buf bytes.Buffer
	err := scaffoldTmpl.Execute(&buf, struct{ Description string }{Description: description})
	if err != nil {
		return "", fmt.Errorf("render scaffold prompt: %w", err)
	}
	return buf.String(), nil
}

func systemInfoBlock(s domain.SystemSnapshot) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("OS: %s", s.OS))
	lines = append(lines, fmt.Sprintf("Arch: %s", s.Arch))
	lines = append(lines, fmt.Sprintf("Working directory: %s", s.SandboxRoot))
	if len(s.Files) > 0 {
		lines = append(lines, fmt.Sprintf("Top-level entries: %s", strings.Join(s.Files, ", ")))
	}
	return strings.Join(lines, "\n")
}
