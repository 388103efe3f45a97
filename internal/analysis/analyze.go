// Package analysis obtains schema-conformant structured results from an
// external reasoning service.
//
// Every call makes exactly one outbound request. The response is validated
// against a schema derived from the target type, repaired once if needed,
// and decoded. Failures are classified as apperr.KindUpstreamUnavailable
// (transport) or apperr.KindSchemaViolation (output) and then handed to the
// caller's FallbackPolicy.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadaudit/internal/apperr"
)

// DefaultTimeout bounds a single reasoning call.
const DefaultTimeout = 90 * time.Second

// Internal messages attached to classified failures before a policy
// replaces them.
const (
	msgUnavailable  = "The analysis service is unavailable."
	msgInvalidReply = "The analysis service returned an invalid response."
)

// Request is one analysis call as seen by an orchestrator.
type Request struct {
	// Call names the call-site for logs and metrics (e.g. "audit").
	Call   string
	System string
	User   string
}

// Client runs analysis calls against a Reasoner.
type Client struct {
	reasoner Reasoner
	timeout  time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call deadline. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a Client.
func NewClient(r Reasoner, opts ...ClientOption) *Client {
	c := &Client{reasoner: r, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reasoner returns the backend name.
func (c *Client) Reasoner() string {
	return c.reasoner.Name()
}

func (c *Client) generate(ctx context.Context, p Prompt) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	raw, err := c.reasoner.Generate(ctx, p)
	if errors.Is(err, ErrIncomplete) {
		return "", apperr.Wrap(err, apperr.KindSchemaViolation, msgInvalidReply)
	}
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindUpstreamUnavailable, msgUnavailable)
	}
	return raw, nil
}

// validator is implemented by result types with rules beyond the schema.
type validator interface {
	Validate() error
}

// Analyze asks the reasoner for a T and applies policy on failure.
func Analyze[T any](ctx context.Context, c *Client, req Request, policy FallbackPolicy[T]) (Result[T], error) {
	start := time.Now()
	log := zap.L().With(
		zap.String("component", "analysis"),
		zap.String("call", req.Call),
		zap.String("reasoner", c.reasoner.Name()),
	)
	defer func() {
		callDuration.WithLabelValues(req.Call).Observe(time.Since(start).Seconds())
	}()

	value, repaired, err := structured[T](ctx, c, req)
	if err == nil {
		outcome := outcomeOK
		if repaired {
			outcome = outcomeRepaired
			log.Debug("analysis response repaired")
		}
		callsTotal.WithLabelValues(req.Call, outcome).Inc()
		return Result[T]{Value: value, Repaired: repaired}, nil
	}

	return fail(log, req.Call, policy, err)
}

// AnalyzeText asks the reasoner for free text and applies policy on
// failure. Blank answers count as invalid output.
func AnalyzeText(ctx context.Context, c *Client, req Request, policy FallbackPolicy[string]) (Result[string], error) {
	start := time.Now()
	log := zap.L().With(
		zap.String("component", "analysis"),
		zap.String("call", req.Call),
		zap.String("reasoner", c.reasoner.Name()),
	)
	defer func() {
		callDuration.WithLabelValues(req.Call).Observe(time.Since(start).Seconds())
	}()

	raw, err := c.generate(ctx, Prompt{System: req.System, User: req.User})
	if err == nil {
		text := cleanText(raw)
		if text != "" {
			callsTotal.WithLabelValues(req.Call, outcomeOK).Inc()
			return Result[string]{Value: text}, nil
		}
		err = apperr.Wrap(eris.New("analysis: empty text response"), apperr.KindSchemaViolation, msgInvalidReply)
	}

	return fail(log, req.Call, policy, err)
}

func structured[T any](ctx context.Context, c *Client, req Request) (T, bool, error) {
	var zero T

	schema := SchemaFor[T]()
	compiled, err := compileSchema(schema)
	if err != nil {
		return zero, false, apperr.Wrap(err, apperr.KindSchemaViolation, msgInvalidReply)
	}

	raw, err := c.generate(ctx, Prompt{
		System:     req.System,
		User:       req.User,
		SchemaName: schemaName(req.Call),
		Schema:     schema,
	})
	if err != nil {
		return zero, false, err
	}

	doc, repaired, err := conform(compiled, raw)
	if err != nil {
		return zero, false, apperr.Wrap(err, apperr.KindSchemaViolation, msgInvalidReply)
	}

	var out T
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return zero, false, apperr.Wrap(eris.Wrap(err, "analysis: decode response"), apperr.KindSchemaViolation, msgInvalidReply)
	}
	if v, ok := any(out).(validator); ok {
		if err := v.Validate(); err != nil {
			return zero, false, apperr.Wrap(err, apperr.KindSchemaViolation, msgInvalidReply)
		}
	}
	return out, repaired, nil
}

func fail[T any](log *zap.Logger, call string, policy FallbackPolicy[T], err error) (Result[T], error) {
	kind := apperr.KindOf(err)
	if policy.Substitutes() {
		log.Warn("analysis failed, using fallback", zap.String("kind", string(kind)), zap.Error(err))
		callsTotal.WithLabelValues(call, outcomeFallback).Inc()
		return Result[T]{Value: policy.fallback(), Fallback: true}, nil
	}

	log.Error("analysis failed", zap.String("kind", string(kind)), zap.Error(err))
	callsTotal.WithLabelValues(call, outcomeFailed).Inc()
	return Result[T]{}, apperr.WithMessage(err, policy.Message())
}

// schemaName turns a call-site name into an identifier accepted by every
// backend's structured-output API.
func schemaName(call string) string {
	var sb strings.Builder
	for _, r := range call {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "result"
	}
	return sb.String()
}
