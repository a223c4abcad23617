package llm

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cast"
)

// LLMProvider generates completions for a system prompt and a user message
type LLMProvider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

// ProviderType selects the backend in NewProvider
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
)

// ErrDisabled is returned when no API key is configured for the selected provider
var ErrDisabled = errors.New("llm provider is not configured")

// ProviderConfig describes one provider; BaseURL overrides the provider's default endpoint
type ProviderConfig struct {
	Type    ProviderType
	APIKey  string
	BaseURL string

	Model       string
	Temperature float32
	MaxTokens   int
}

type preset struct {
	name    string
	baseURL string
	model   string
	keyEnv  string
}

var presets = map[ProviderType]preset{
	ProviderOpenAI:   {name: "OpenAI", model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
	ProviderGroq:     {name: "Groq", baseURL: "https://api.groq.com/openai/v1", model: "llama-3.1-8b-instant", keyEnv: "GROQ_API_KEY"},
	ProviderDeepSeek: {name: "DeepSeek", baseURL: "https://api.deepseek.com/v1", model: "deepseek-chat", keyEnv: "DEEPSEEK_API_KEY"},
}

// NewProvider builds the provider cfg selects
func NewProvider(cfg *ProviderConfig) (LLMProvider, error) {
	p, ok := presets[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrDisabled, p.keyEnv)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = p.baseURL
	}
	model := cfg.Model
	if model == "" {
		model = p.model
	}
	return NewCompatibleProvider(p.name, cfg.APIKey, baseURL, model, cfg.Temperature, cfg.MaxTokens), nil
}

// LoadProviderFromEnv reads LLM_PROVIDER, the provider's API key, LLM_BASE_URL, LLM_MODEL,
// LLM_TEMPERATURE and LLM_MAX_TOKENS
func LoadProviderFromEnv() (*ProviderConfig, error) {
	providerType := ProviderType(os.Getenv("LLM_PROVIDER"))
	if providerType == "" {
		providerType = ProviderOpenAI
	}

	p, ok := presets[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider type: %s", providerType)
	}

	cfg := &ProviderConfig{
		Type:        providerType,
		APIKey:      os.Getenv(p.keyEnv),
		BaseURL:     os.Getenv("LLM_BASE_URL"),
		Model:       os.Getenv("LLM_MODEL"),
		Temperature: 0.3,
		MaxTokens:   512,
	}

	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := cast.ToFloat32E(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
		}
		cfg.Temperature = t
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
		}
		cfg.MaxTokens = n
	}

	return cfg, nil
}
