package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/analytics"
)

type stubProvider struct {
	system, user string
	reply        string
	err          error
}

func (p *stubProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	p.system, p.user = systemPrompt, userMessage
	return p.reply, p.err
}

func (p *stubProvider) GetProviderName() string { return "stub" }

func samplePayload() *analytics.ChartPayload {
	return &analytics.ChartPayload{
		Labels:  []string{"North", "South"},
		Legends: []string{"Revenue", "Cost"},
		Series: [][]analytics.Point{
			{{Value: 1200}, {Value: 800.5}},
			{{Value: 300}, {Value: 250}},
		},
	}
}

func TestBuildChartPrompt(t *testing.T) {
	prompt := BuildChartPrompt("Sales by region", samplePayload())

	assert.Contains(t, prompt, "Chart: Sales by region")
	assert.Contains(t, prompt, "Series: Revenue, Cost")
	assert.Contains(t, prompt, "- North: 1,200 | 300")
	assert.Contains(t, prompt, "- South: 800.5 | 250")
	assert.NotContains(t, prompt, "omitted")
}

func TestBuildChartPrompt_CapsLabels(t *testing.T) {
	payload := &analytics.ChartPayload{Legends: []string{"count"}, Series: [][]analytics.Point{{}}}
	for i := 0; i < maxPromptLabels+5; i++ {
		payload.Labels = append(payload.Labels, "c")
		payload.Series[0] = append(payload.Series[0], analytics.Point{Value: 1})
	}

	prompt := BuildChartPrompt("", payload)
	assert.NotContains(t, prompt, "Chart:")
	assert.Contains(t, prompt, "(5 more categories omitted)")
}

func TestService_SummarizeChart(t *testing.T) {
	stub := &stubProvider{reply: "North leads."}
	svc := NewServiceWithProvider(stub)

	summary, err := svc.SummarizeChart(context.Background(), "Sales", samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "North leads.", summary)
	assert.Equal(t, BuildSummarySystemPrompt(), stub.system)
	assert.Contains(t, stub.user, "North")

	stub.err = errors.New("rate limited")
	_, err = svc.SummarizeChart(context.Background(), "Sales", samplePayload())
	assert.ErrorContains(t, err, "rate limited")

	_, err = svc.SummarizeChart(context.Background(), "Sales", nil)
	assert.Error(t, err)
}

func TestService_Disabled(t *testing.T) {
	var svc *Service
	assert.False(t, svc.Enabled())

	svc = &Service{}
	_, err := svc.SummarizeChart(context.Background(), "Sales", samplePayload())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, svc.GetProviderName())
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Type: "gemini", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown LLM provider type")

	_, err = NewProvider(&ProviderConfig{Type: ProviderGroq})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorContains(t, err, "GROQ_API_KEY")

	p, err := NewProvider(&ProviderConfig{Type: ProviderDeepSeek, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "DeepSeek", p.GetProviderName())
}

func TestLoadProviderFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "secret")
	t.Setenv("LLM_TEMPERATURE", "0.5")
	t.Setenv("LLM_MAX_TOKENS", "256")

	cfg, err := LoadProviderFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, cfg.Type)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.InDelta(t, 0.5, cfg.Temperature, 1e-6)
	assert.Equal(t, 256, cfg.MaxTokens)

	t.Setenv("LLM_MAX_TOKENS", "lots")
	_, err = LoadProviderFromEnv()
	assert.ErrorContains(t, err, "LLM_MAX_TOKENS")
}

func TestCompatibleProvider_GenerateResponse(t *testing.T) {
	var got openai.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: "Sales are flat."},
			}},
		})
	}))
	defer server.Close()

	p := NewCompatibleProvider("Test", "test-key", server.URL, "tiny", 0, 0)
	reply, err := p.GenerateResponse(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "Sales are flat.", reply)
	assert.Equal(t, "tiny", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[1].Content)
	assert.Equal(t, 512, got.MaxTokens)
}
