// Package ai adapts the Gemini generateContent REST API behind the Generator
// port, with an offline mock for keyless environments.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

const (
	// GeminiBaseURL is the default REST base for generateContent.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultGeminiModelID is used when neither config nor env names a model.
	DefaultGeminiModelID = "gemini-2.0-flash-thinking-exp-01-21"

	// APIKeyEnvVar holds the Gemini API key.
	APIKeyEnvVar = "GEMINI_API_KEY"
	// ModelEnvVar overrides the configured model id.
	ModelEnvVar = "GEMINI_MODEL"
	// EndpointEnvVar overrides the full generateContent endpoint.
	EndpointEnvVar = "GEMINI_API_ENDPOINT"
)

type geminiProvider struct {
	model      domain.ModelDefinition
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

type geminiRequest struct {
	Tools    []geminiTool    `json:"tools,omitempty"`
	Contents []geminiContent `json:"contents"`
}

type geminiTool struct {
	CodeExecution struct{} `json:"code_execution"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text                string               `json:"text,omitempty"`
	ExecutableCode      *executableCode      `json:"executable_code,omitempty"`
	CodeExecutionResult *codeExecutionResult `json:"code_execution_result,omitempty"`
}

type executableCode struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type codeExecutionResult struct {
	Outcome string `json:"outcome"`
	Output  string `json:"output"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback *promptFeedback   `json:"prompt_feedback"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finish_reason"`
}

type promptFeedback struct {
	BlockReason string `json:"block_reason"`
}

func (p *geminiProvider) Name() string {
	return "gemini"
}

func (p *geminiProvider) Model() domain.ModelDefinition {
	return p.model
}

// Generate implements ports.Generator with a single blocking request.
func (p *geminiProvider) Generate(ctx context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: req.Prompt}},
		}},
	}
	if req.CodeExecution {
		body.Tools = []geminiTool{{}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.GenerateResponse{}, fmt.Errorf("encode request: %w", err)
	}

	endpoint := p.endpoint
	if p.apiKey != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint = endpoint + sep + "key=" + url.QueryEscape(p.apiKey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return ports.GenerateResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.GenerateResponse{}, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	var responseBody bytes.Buffer
	if _, err := responseBody.ReadFrom(resp.Body); err != nil {
		return ports.GenerateResponse{}, err
	}
	if resp.StatusCode >= 400 {
		return ports.GenerateResponse{}, fmt.Errorf("gemini: %s: %s", resp.Status, strings.TrimSpace(responseBody.String()))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(responseBody.Bytes(), &apiResp); err != nil {
		return ports.GenerateResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return flattenResponse(apiResp)
}

// flattenResponse converts the candidate parts into the port shape, folding
// code and remote execution results into the combined text the way the
// feedback loop expects to replay them.
func flattenResponse(resp geminiResponse) (ports.GenerateResponse, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return ports.GenerateResponse{}, fmt.Errorf("request was blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return ports.GenerateResponse{}, fmt.Errorf("no candidates in response")
	}

	var out ports.GenerateResponse
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.ExecutableCode != nil:
			out.Parts = append(out.Parts, domain.ReplyPart{
				Kind:     domain.PartCode,
				Language: part.ExecutableCode.Language,
				Code:     part.ExecutableCode.Code,
			})
			fmt.Fprintf(&text, "```%s\n%s\n```\n", part.ExecutableCode.Language, part.ExecutableCode.Code)
		case part.CodeExecutionResult != nil:
			out.Parts = append(out.Parts, domain.ReplyPart{
				Kind:    domain.PartExecResult,
				Outcome: part.CodeExecutionResult.Outcome,
				Output:  part.CodeExecutionResult.Output,
			})
			fmt.Fprintf(&text, "Execution result: %s\nOutput: %s\n",
				part.CodeExecutionResult.Outcome, part.CodeExecutionResult.Output)
		case part.Text != "":
			out.Parts = append(out.Parts, domain.ReplyPart{Kind: domain.PartText, Text: part.Text})
			text.WriteString(part.Text)
		}
	}

	out.Text = text.String()
	if out.Text == "" {
		return ports.GenerateResponse{}, fmt.Errorf("empty response")
	}
	return out, nil
}

var _ ports.Generator = (*geminiProvider)(nil)
