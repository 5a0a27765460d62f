package ai

import (
	"context"
	"encoding/json"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// mockGenerator stands in when no API key is configured. It replies with a
// well-formed empty envelope so the pipeline stays exercisable offline.
type mockGenerator struct {
	model domain.ModelDefinition
}

func newMockGenerator(model domain.ModelDefinition) *mockGenerator {
	return &mockGenerator{model: model}
}

func (m *mockGenerator) Name() string {
	return "mock"
}

func (m *mockGenerator) Model() domain.ModelDefinition {
	return m.model
}

func (m *mockGenerator) Generate(_ context.Context, req ports.GenerateRequest) (ports.GenerateResponse, error) {
	envelope := map[string]interface{}{
		"commands":     []interface{}{},
		"user_message": "offline mode: set " + APIKeyEnvVar + " to reach the Gemini API.",
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return ports.GenerateResponse{}, err
	}
	text := string(data)
	return ports.GenerateResponse{
		Text:  text,
		Parts: []domain.ReplyPart{{Kind: domain.PartText, Text: text}},
	}, nil
}

var _ ports.Generator = (*mockGenerator)(nil)
