package analysis

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadaudit/internal/config"
	"github.com/sells-group/leadaudit/pkg/anthropic"
)

// NewReasoner builds the backend selected by analysis.provider.
func NewReasoner(ctx context.Context, cfg *config.Config) (Reasoner, error) {
	maxTokens := cfg.Analysis.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	switch cfg.Analysis.Provider {
	case config.ProviderAnthropic, "":
		if cfg.Anthropic.Key == "" {
			return nil, eris.New("analysis: anthropic.key is required")
		}
		// Retries are the caller's call; the SDK's own are disabled.
		opts := []option.RequestOption{option.WithMaxRetries(0)}
		if cfg.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		client := anthropic.NewClient(cfg.Anthropic.Key, opts...)
		return NewAnthropicReasoner(client, cfg.Anthropic.Model, int64(maxTokens)), nil
	case config.ProviderGemini:
		r, err := NewGeminiReasoner(ctx, cfg.Gemini.Key, cfg.Gemini.Model, cfg.Gemini.BaseURL, int32(maxTokens))
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.ProviderOpenAI:
		if cfg.OpenAI.Key == "" {
			return nil, eris.New("analysis: openai.key is required")
		}
		return NewOpenAIReasoner(cfg.OpenAI.Key, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, int64(maxTokens)), nil
	default:
		return nil, eris.Errorf("analysis: unknown provider %q", cfg.Analysis.Provider)
	}
}

// NewClientFromConfig builds a Client around the configured backend.
func NewClientFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	r, err := NewReasoner(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(r, WithTimeout(cfg.Analysis.Timeout())), nil
}
