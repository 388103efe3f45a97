package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadaudit/internal/apperr"
)

// RecommendationType identifies what kind of follow-up a recommendation asks for.
type RecommendationType string

const (
	RecReplyReview         RecommendationType = "reply_review"
	RecOptimizeDescription RecommendationType = "optimize_description"
	RecAddPhotos           RecommendationType = "add_photos"
	RecKeywordGap          RecommendationType = "keyword_gap"
	RecGeneral             RecommendationType = "general"
)

// Impact is the expected effect of acting on a recommendation.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Status is the lifecycle state of a recommendation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Context keys understood by Recommendation.Action.
const (
	CtxReviewID    = "reviewId"
	CtxAuthor      = "author"
	CtxSentiment   = "sentiment"
	CtxCurrentText = "currentText"
)

// SwotAnalysis is a four-quadrant strengths/weaknesses/opportunities/threats summary.
type SwotAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// Recommendation is one prioritized action from an audit.
type Recommendation struct {
	ID          string             `json:"id,omitempty"`
	Type        RecommendationType `json:"type" jsonschema:"enum=reply_review,enum=optimize_description,enum=add_photos,enum=keyword_gap,enum=general"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Impact      Impact             `json:"impact" jsonschema:"enum=High,enum=Medium,enum=Low"`
	Status      Status             `json:"status,omitempty" jsonschema:"enum=pending,enum=completed"`
	Context     ContextValues      `json:"context,omitempty"`
}

// ContextValues is the opaque key-value context of a recommendation. Scalar
// values of any JSON type are kept as strings.
type ContextValues map[string]string

// JSONSchema describes the accepted context shape.
func (ContextValues) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "number"},
				{Type: "boolean"},
				{Type: "null"},
			},
		},
	}
}

// UnmarshalJSON accepts string, number and boolean values. Nulls are dropped.
func (c *ContextValues) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return eris.Wrap(err, "model: decode recommendation context")
	}
	if raw == nil {
		*c = nil
		return nil
	}

	out := make(ContextValues, len(raw))
	for k, v := range raw {
		switch x := v.(type) {
		case nil:
		case string:
			out[k] = x
		case float64:
			out[k] = strconv.FormatFloat(x, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(x)
		default:
			nested, err := json.Marshal(x)
			if err != nil {
				return eris.Wrapf(err, "model: encode context value %q", k)
			}
			out[k] = string(nested)
		}
	}
	*c = out
	return nil
}

// AuditResult is the outcome of a reputation-health analysis of one profile.
type AuditResult struct {
	Score           int              `json:"score" jsonschema:"minimum=0,maximum=100"`
	Summary         string           `json:"summary"`
	Swot            SwotAnalysis     `json:"swot"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Complete returns a copy of r in the completed state. Only an external actor
// who reviewed the generated content should call this.
func (r Recommendation) Complete() Recommendation {
	r.Status = StatusCompleted
	if r.Context != nil {
		ctx := make(ContextValues, len(r.Context))
		for k, v := range r.Context {
			ctx[k] = v
		}
		r.Context = ctx
	}
	return r
}

// ActionContext is the typed payload a recommendation carries for its executor.
type ActionContext interface {
	actionContext()
}

// ReplyReviewContext identifies the review a reply should be drafted for.
type ReplyReviewContext struct {
	ReviewID  string
	Author    string
	Sentiment Sentiment // empty when the recommendation did not say
}

// OptimizeDescriptionContext carries the description to rewrite, if known.
type OptimizeDescriptionContext struct {
	CurrentText string
}

// InformationalContext marks recommendations with no automated executor.
type InformationalContext struct {
	Type RecommendationType
}

func (ReplyReviewContext) actionContext()         {}
func (OptimizeDescriptionContext) actionContext() {}
func (InformationalContext) actionContext()       {}

// Action decodes the recommendation's free-form context into the variant
// matching its type.
func (r Recommendation) Action() (ActionContext, error) {
	get := func(key string) string {
		return strings.TrimSpace(r.Context[key])
	}

	switch r.Type {
	case RecReplyReview:
		c := ReplyReviewContext{ReviewID: get(CtxReviewID), Author: get(CtxAuthor)}
		if c.ReviewID == "" || c.Author == "" {
			return nil, apperr.InvalidInput("Reply recommendations need a review id and author.")
		}
		if s := get(CtxSentiment); s != "" {
			sentiment, err := ParseSentiment(s)
			if err != nil {
				return nil, err
			}
			c.Sentiment = sentiment
		}
		return c, nil
	case RecOptimizeDescription:
		return OptimizeDescriptionContext{CurrentText: get(CtxCurrentText)}, nil
	case RecAddPhotos, RecKeywordGap, RecGeneral:
		return InformationalContext{Type: r.Type}, nil
	default:
		return nil, apperr.InvalidInput("Unknown recommendation type.")
	}
}

// Sentiment steers the tone of drafted review replies.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment accepts a sentiment name in any case.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNegative:
		return SentimentNegative, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	default:
		return "", apperr.InvalidInput("Sentiment must be positive, negative or neutral.")
	}
}

// SentimentForRating infers a reply tone from a star rating.
func SentimentForRating(rating int) Sentiment {
	switch {
	case rating <= 2:
		return SentimentNegative
	case rating >= 4:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// ProposalSummary is a short sales pitch for a lead.
type ProposalSummary struct {
	Headline     string   `json:"headline"`
	KeyPoints    []string `json:"keyPoints" jsonschema:"minItems=1,maxItems=5"`
	CallToAction string   `json:"callToAction"`
	Placeholder  bool     `json:"placeholder,omitempty" jsonschema:"-"`
}
