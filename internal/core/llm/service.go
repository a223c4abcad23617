package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
)

// Service wraps an LLM provider for dependency injection. A Service without provider is disabled.
type Service struct {
	provider LLMProvider
	log      zerolog.Logger
}

// NewService creates the service from environment; a missing API key yields a disabled service
func NewService(logger zerolog.Logger) (*Service, error) {
	logger = logger.With().Str("component", "llm").Logger()

	cfg, err := LoadProviderFromEnv()
	if err != nil {
		return nil, err
	}

	provider, err := NewProvider(cfg)
	if errors.Is(err, ErrDisabled) {
		logger.Warn().Err(err).Msg("⚠️  Chart summaries disabled")
		return &Service{log: logger}, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Str("provider", provider.GetProviderName()).Str("model", cfg.Model).Msg("🤖 LLM provider ready")
	return &Service{provider: provider, log: logger}, nil
}

// NewServiceWithProvider creates service with custom provider (for testing)
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider, log: zerolog.Nop()}
}

// Enabled reports whether a provider is configured
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// GenerateResponse generates AI response
func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	return s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
}

// SummarizeChart asks the provider for a short narrative of an aggregated chart
func (s *Service) SummarizeChart(ctx context.Context, title string, payload *analytics.ChartPayload) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	if payload == nil {
		return "", errors.New("no chart data to summarize")
	}

	summary, err := s.provider.GenerateResponse(ctx, BuildSummarySystemPrompt(), BuildChartPrompt(title, payload))
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("title", title).Int("labels", len(payload.Labels)).Msg("chart summarized")
	return summary, nil
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	if !s.Enabled() {
		return ""
	}
	return s.provider.GetProviderName()
}
