// Package anthropic sends single-turn analysis prompts to the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const schemaInstruction = "Respond with ONLY a JSON object matching this JSON schema. Do not wrap it in markdown."

// ErrTruncated is returned when the model stopped at the max_tokens limit.
// The partial text is not returned.
var ErrTruncated = eris.New("anthropic: reply truncated at max_tokens")

// Client sends one prompt and returns one reply.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-turn prompt.
type Request struct {
	Model     string
	MaxTokens int64
	System    string
	User      string
	// Schema is a JSON schema document. When set, the system block asks
	// for a bare JSON object matching it.
	Schema string
	// Call labels the cost log line.
	Call string
}

// Response is the model's reply.
type Response struct {
	Text       string
	StopReason string
	Usage      TokenUsage
}

// SystemPrompt returns the system text sent for system and schema.
func SystemPrompt(system, schema string) string {
	if schema == "" {
		return system
	}
	instr := schemaInstruction + "\n" + schema
	if strings.TrimSpace(system) == "" {
		return instr
	}
	return system + "\n\n" + instr
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// model → {input $/MTok, output $/MTok}
var modelPricing = map[string][2]float64{
	"claude-haiku-4-5-20251001":  {1.00, 5.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
}

// EstimateCost returns the estimated cost in USD, or 0 for unknown models.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	in := float64(u.InputTokens) * pricing[0]
	out := float64(u.OutputTokens) * pricing[1]
	cacheWrite := float64(u.CacheCreationInputTokens) * pricing[0] * 1.25
	cacheRead := float64(u.CacheReadInputTokens) * pricing[0] * 0.1
	return (in + out + cacheWrite + cacheRead) / 1e6
}

// LogCost logs token usage and estimated cost for one call.
func (u TokenUsage) LogCost(model, call string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("call", call),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Int64("cache_write_tokens", u.CacheCreationInputTokens),
		zap.Int64("cache_read_tokens", u.CacheReadInputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}

type sdkClient struct {
	client sdk.Client
}

// NewClient creates a Client backed by the SDK. Extra request options
// (base URL, retries, HTTP client) are passed through.
func NewClient(apiKey string, opts ...option.RequestOption) Client {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &sdkClient{client: sdk.NewClient(all...)}
}

// Complete sends req with its system text in a single cached block.
func (c *sdkClient) Complete(ctx context.Context, req Request) (*Response, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: req.MaxTokens,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.User))},
	}
	if system := SystemPrompt(req.System, req.Schema); system != "" {
		params.System = []sdk.TextBlockParam{{
			Text:         system,
			CacheControl: sdk.NewCacheControlEphemeralParam(),
		}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	resp := fromSDKMessage(msg)
	resp.Usage.LogCost(req.Model, req.Call)
	if msg.StopReason == sdk.StopReasonMaxTokens {
		return nil, eris.Wrapf(ErrTruncated, "anthropic: %s after %d output tokens", req.Call, resp.Usage.OutputTokens)
	}
	return resp, nil
}

func fromSDKMessage(msg *sdk.Message) *Response {
	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return &Response{
		Text:       sb.String(),
		StopReason: string(msg.StopReason),
		Usage: TokenUsage{
			InputTokens:              msg.Usage.InputTokens,
			OutputTokens:             msg.Usage.OutputTokens,
			CacheCreationInputTokens: msg.Usage.CacheCreationInputTokens,
			CacheReadInputTokens:     msg.Usage.CacheReadInputTokens,
		},
	}
}
