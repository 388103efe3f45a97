package analysis

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadaudit/pkg/anthropic"
)

// AnthropicReasoner generates with Claude. The output schema is embedded in
// the cached system prompt.
type AnthropicReasoner struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicReasoner creates a Claude-backed Reasoner.
func NewAnthropicReasoner(client anthropic.Client, model string, maxTokens int64) *AnthropicReasoner {
	return &AnthropicReasoner{client: client, model: model, maxTokens: maxTokens}
}

// Name implements Reasoner.
func (r *AnthropicReasoner) Name() string { return "anthropic" }

// Generate implements Reasoner.
func (r *AnthropicReasoner) Generate(ctx context.Context, p Prompt) (string, error) {
	req := anthropic.Request{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		System:    p.System,
		User:      p.User,
		Call:      p.SchemaName,
	}
	if p.Schema != nil {
		req.Schema = SchemaJSON(p.Schema)
	}

	resp, err := r.client.Complete(ctx, req)
	if errors.Is(err, anthropic.ErrTruncated) {
		return "", eris.Wrap(ErrIncomplete, err.Error())
	}
	if err != nil {
		return "", eris.Wrap(err, "analysis: anthropic generate")
	}
	return resp.Text, nil
}
