package ai

import (
	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Templates implements ports.PromptBuilder over the package templates.
type Templates struct{}

// NewTemplates builds the prompt renderer.
func NewTemplates() *Templates {
	return &Templates{}
}

func (Templates) ChatPrompt(snapshot domain.SystemSnapshot, feedback, query string) (string, error) {
	return BuildChatPrompt(snapshot, feedback, query)
}

func (Templates) ScaffoldPrompt(description string) (string, error) {
	return BuildScaffoldPrompt(description)
}

func (Templates) Feedback(results []domain.ExecutionResult) (string, error) {
	return FormatFeedback(results)
}

var _ ports.PromptBuilder = Templates{}
