package analysis

import (
	"context"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// GeminiReasoner generates with Gemini using native JSON-schema output.
type GeminiReasoner struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiReasoner creates a Gemini-backed Reasoner. baseURL overrides the
// API endpoint when set.
func NewGeminiReasoner(ctx context.Context, apiKey, model, baseURL string, maxTokens int32) (*GeminiReasoner, error) {
	if apiKey == "" {
		return nil, eris.New("analysis: gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: create gemini client")
	}
	return &GeminiReasoner{client: client, model: model, maxTokens: maxTokens}, nil
}

// Name implements Reasoner.
func (r *GeminiReasoner) Name() string { return "gemini" }

// Generate implements Reasoner.
func (r *GeminiReasoner) Generate(ctx context.Context, p Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(p.System, genai.RoleUser),
		MaxOutputTokens:   r.maxTokens,
	}
	if p.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = p.Schema
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", eris.Wrap(err, "analysis: gemini generate")
	}
	return resp.Text(), nil
}
