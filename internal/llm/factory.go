package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a capability provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "ollama":
		return NewOllamaProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, fmt.Errorf("capability provider not configured (supported: ollama, openai)")

	default:
		return nil, fmt.Errorf("unknown capability provider: %s (supported: ollama, openai)", config.Provider)
	}
}
