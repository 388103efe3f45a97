package analysis

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rotisserie/eris"
)

// OpenAIReasoner generates with an OpenAI-compatible chat completions API.
type OpenAIReasoner struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// NewOpenAIReasoner creates an OpenAI-backed Reasoner. baseURL selects a
// compatible endpoint when set.
func NewOpenAIReasoner(apiKey, model, baseURL string, maxTokens int64) *OpenAIReasoner {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIReasoner{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name implements Reasoner.
func (r *OpenAIReasoner) Name() string { return "openai" }

// Generate implements Reasoner. Strict mode stays off: recommendation
// context is an open string map, which strict schemas reject.
func (r *OpenAIReasoner) Generate(ctx context.Context, p Prompt) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
		MaxCompletionTokens: openai.Int(r.maxTokens),
	}
	if p.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   p.SchemaName,
					Schema: p.Schema,
					Strict: openai.Bool(false),
				},
			},
		}
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "analysis: openai generate")
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
