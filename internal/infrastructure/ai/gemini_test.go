package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

func TestGeminiGenerateRoundTrip(t *testing.T) {
	var gotBody geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing key query parameter")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := geminiResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{{Text: "hello from gemini"}}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := &geminiProvider{
		model:      domain.ModelDefinition{Name: "gemini-flash"},
		endpoint:   server.URL,
		apiKey:     "test-key",
		httpClient: server.Client(),
	}

	resp, err := provider.Generate(context.Background(), ports.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Text != "hello from gemini" {
		t.Fatalf("text = %q", resp.Text)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "hi" {
		t.Fatalf("request contents = %+v", gotBody.Contents)
	}
	if len(gotBody.Tools) != 0 {
		t.Fatal("tools must be omitted without code execution")
	}
}

func TestGeminiGenerateSendsCodeExecutionTool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body["tools"]; !ok {
			t.Errorf("expected tools field in request")
		}
		resp := geminiResponse{
			Candidates: []geminiCandidate{{
				Content: geminiContent{Parts: []geminiPart{
					{ExecutableCode: &executableCode{Language: "python", Code: "print(1)"}},
					{CodeExecutionResult: &codeExecutionResult{Outcome: "OK", Output: "1\n"}},
				}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := &geminiProvider{
		endpoint:   server.URL,
		apiKey:     "k",
		httpClient: server.Client(),
	}

	resp, err := provider.Generate(context.Background(), ports.GenerateRequest{Prompt: "run", CodeExecution: true})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(resp.Parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(resp.Parts))
	}
	if resp.Parts[0].Kind != domain.PartCode || resp.Parts[1].Kind != domain.PartExecResult {
		t.Fatalf("part kinds = %s, %s", resp.Parts[0].Kind, resp.Parts[1].Kind)
	}
	if !strings.Contains(resp.Text, "```python") {
		t.Fatalf("text should embed fenced code, got %q", resp.Text)
	}
}

func TestGeminiGenerateBlockedPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := geminiResponse{PromptFeedback: &promptFeedback{BlockReason: "SAFETY"}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := &geminiProvider{endpoint: server.URL, httpClient: server.Client()}
	_, err := provider.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected block error, got %v", err)
	}
}

func TestGeminiGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := &geminiProvider{endpoint: server.URL, httpClient: server.Client()}
	_, err := provider.Generate(context.Background(), ports.GenerateRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected http error with body, got %v", err)
	}
}

func TestFactoryFallsBackToMockWithoutKey(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "")
	f := NewFactory()
	gen, err := f.ForModel(domain.ModelDefinition{Name: "gemini-flash"})
	if err != nil {
		t.Fatalf("ForModel error: %v", err)
	}
	if gen.Name() != "mock" {
		t.Fatalf("provider = %s, want mock", gen.Name())
	}

	resp, err := gen.Generate(context.Background(), ports.GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("mock Generate error: %v", err)
	}
	if !strings.Contains(resp.Text, "commands") {
		t.Fatalf("mock reply should be a valid envelope, got %q", resp.Text)
	}
}

func TestResolveEndpointPrecedence(t *testing.T) {
	t.Setenv(EndpointEnvVar, "")
	t.Setenv(ModelEnvVar, "")

	model := domain.ModelDefinition{Endpoint: "https://example.test/models", ModelID: "my-model"}
	if got := resolveEndpoint(model); got != "https://example.test/models/my-model:generateContent" {
		t.Fatalf("endpoint = %q", got)
	}

	t.Setenv(ModelEnvVar, "env-model")
	if got := resolveEndpoint(model); !strings.Contains(got, "env-model") {
		t.Fatalf("env model not honored: %q", got)
	}

	t.Setenv(EndpointEnvVar, "https://override.test/full")
	if got := resolveEndpoint(model); got != "https://override.test/full" {
		t.Fatalf("env endpoint not honored: %q", got)
	}
}

func TestFormatFeedback(t *testing.T) {
	results := []domain.ExecutionResult{
		{
			Action:    domain.Action{Kind: domain.ActionCreateFolder, Path: "a"},
			Succeeded: true,
			Output:    "created folder a",
		},
		{
			Action:      domain.Action{Kind: domain.ActionExecuteCommand, CommandLine: "false"},
			ErrorDetail: "execution error (non_zero_exit): exit code 1: ",
		},
	}

	out, err := FormatFeedback(results)
	if err != nil {
		t.Fatalf("FormatFeedback error: %v", err)
	}

	var decoded []commandFeedback
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("feedback is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("entries = %d", len(decoded))
	}
	if decoded[0].Status != "Success" || decoded[1].Status != "Failure" {
		t.Fatalf("statuses = %s, %s", decoded[0].Status, decoded[1].Status)
	}
	if decoded[1].CommandType != "execute_command" {
		t.Fatalf("command type = %s", decoded[1].CommandType)
	}
}

func TestFormatFeedbackEmpty(t *testing.T) {
	out, err := FormatFeedback(nil)
	if err != nil {
		t.Fatalf("FormatFeedback error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty feedback, got %q", out)
	}
}

func TestBuildChatPromptEmbedsContext(t *testing.T) {
	snapshot := domain.SystemSnapshot{OS: "linux", Arch: "amd64", SandboxRoot: "/work", Files: []string{"main.go"}}
	prompt, err := BuildChatPrompt(snapshot, `[{"status":"Success"}]`, "build me an app")
	if err != nil {
		t.Fatalf("BuildChatPrompt error: %v", err)
	}
	for _, want := range []string{"linux", "/work", "main.go", "build me an app", `[{"status":"Success"}]`, "write_code_to_file"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}
