package llm

import (
	"context"

	"github.com/ppiankov/neurograph/internal/model"
)

// Provider defines the interface to the reasoning/vision capability runtime.
// Responses are free-form text with no guaranteed schema; callers must
// validate and repair before trusting them.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete runs one capability invocation: a rendered prompt, optionally
	// accompanied by a base64 image for vision templates.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one capability call
type CompletionRequest struct {
	// Template identifies which registered prompt produced Prompt.
	Template Template

	// Prompt is the rendered prompt text.
	Prompt string

	// System is an optional system instruction.
	System string

	// Model overrides the configured model (e.g. the vision model for
	// image-description calls).
	Model string

	// ImageB64 carries an optional base64-encoded image.
	ImageB64 string

	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature controls sampling; extraction calls run at 0 for
	// deterministic structured output.
	Temperature float32

	// JSONOnly asks the provider to constrain output to JSON where the
	// backend supports it. Output is still validated either way.
	JSONOnly bool
}

// CompletionResponse contains the capability's raw output
type CompletionResponse struct {
	// Text is the raw response text (expected, not guaranteed, to be JSON).
	Text string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption when the backend reports it.
	TokensUsed int
}

// Config holds capability provider configuration
type Config struct {
	// Provider name: "ollama" or "openai"
	Provider string

	// Model is the reasoning/extraction model name.
	Model string

	// VisionModel is used for image-description calls.
	VisionModel string

	// APIKey for hosted providers.
	APIKey string

	// BaseURL for custom endpoints (e.g. a local Ollama).
	BaseURL string

	// Timeout per capability call, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int

	// Proxy settings for outbound calls.
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "ollama",
		Timeout:   120,
		MaxTokens: 2000,
	}
}

// ConfigFromModel builds a provider Config from the application config tree.
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.LLM.Timeout,
		MaxTokens:   cfg.LLM.MaxTokens,
		HTTPProxy:   cfg.HTTP.HTTPProxy,
		HTTPSProxy:  cfg.HTTP.HTTPSProxy,
		NoProxy:     cfg.HTTP.NoProxy,
	}
}
