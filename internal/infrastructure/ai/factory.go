package ai

import (
	"net/http"
	"os"
	"strings"

	"github.com/gemforge/gemforge/internal/domain"
	"github.com/gemforge/gemforge/internal/ports"
)

// Factory builds Generator instances for model definitions.
type Factory struct {
	httpClient *http.Client
}

// NewFactory constructs a factory with a bounded HTTP client.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForModel implements ports.GeneratorFactory. Environment variables override
// the configured model id and endpoint; when no API key is available the
// offline mock is returned so local and test runs never hit the network.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Generator, error) {
	apiKey := resolveAPIKey(model)
	if apiKey == "" {
		return newMockGenerator(model), nil
	}
	return &geminiProvider{
		model:      model,
		endpoint:   resolveEndpoint(model),
		apiKey:     apiKey,
		httpClient: f.httpClient,
	}, nil
}

func resolveAPIKey(model domain.ModelDefinition) string {
	envVar := model.AuthEnvVar
	if envVar == "" {
		envVar = APIKeyEnvVar
	}
	return os.Getenv(envVar)
}

func resolveEndpoint(model domain.ModelDefinition) string {
	if custom := os.Getenv(EndpointEnvVar); custom != "" {
		return custom
	}
	base := model.Endpoint
	if base == "" {
		base = GeminiBaseURL
	}
	modelID := os.Getenv(ModelEnvVar)
	if modelID == "" {
		modelID = model.ModelID
	}
	if modelID == "" {
		modelID = DefaultGeminiModelID
	}
	return strings.TrimSuffix(base, "/") + "/" + modelID + ":generateContent"
}

var _ ports.GeneratorFactory = (*Factory)(nil)
