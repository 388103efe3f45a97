package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadaudit/internal/config"
)

func TestNewReasoner(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantName string
		wantErr  bool
	}{
		{"anthropic", config.Config{Analysis: config.AnalysisConfig{Provider: "anthropic"}, Anthropic: config.AnthropicConfig{Key: "a", Model: "m"}}, "anthropic", false},
		{"default provider", config.Config{Anthropic: config.AnthropicConfig{Key: "a"}}, "anthropic", false},
		{"anthropic without key", config.Config{Analysis: config.AnalysisConfig{Provider: "anthropic"}}, "", true},
		{"gemini", config.Config{Analysis: config.AnalysisConfig{Provider: "gemini"}, Gemini: config.GeminiConfig{Key: "g", Model: "m"}}, "gemini", false},
		{"gemini without key", config.Config{Analysis: config.AnalysisConfig{Provider: "gemini"}}, "", true},
		{"openai", config.Config{Analysis: config.AnalysisConfig{Provider: "openai"}, OpenAI: config.OpenAIConfig{Key: "o", Model: "m"}}, "openai", false},
		{"openai without key", config.Config{Analysis: config.AnalysisConfig{Provider: "openai"}}, "", true},
		{"unknown", config.Config{Analysis: config.AnalysisConfig{Provider: "oracle"}}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReasoner(context.Background(), &tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, r.Name())
		})
	}
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := &config.Config{
		Analysis:  config.AnalysisConfig{Provider: "anthropic", TimeoutSecs: 12},
		Anthropic: config.AnthropicConfig{Key: "a"},
	}
	c, err := NewClientFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, c.timeout)
	assert.Equal(t, "anthropic", c.Reasoner())
}
