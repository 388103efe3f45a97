// Package action generates the content a recommendation asks for.
package action

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadaudit/internal/apperr"
	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/model"
)

// ErrNoExecutor is returned for informational recommendation types.
var ErrNoExecutor = apperr.InvalidInput("This recommendation is informational and has no automated action.")

// ContentGenerator drafts owner-facing content. *audit.Service satisfies it.
type ContentGenerator interface {
	DraftReviewReplies(ctx context.Context, req audit.ReplyRequest) ([]string, error)
	OptimizeDescription(ctx context.Context, current string) (string, error)
}

// Result is generated content for one recommendation. Drafts is set for
// reply_review, Text for optimize_description.
type Result struct {
	RecommendationID string                   `json:"recommendationId"`
	Type             model.RecommendationType `json:"type"`
	Drafts           []string                 `json:"drafts,omitempty"`
	Text             string                   `json:"text,omitempty"`
}

// Executor dispatches recommendations to generators.
type Executor struct {
	gen ContentGenerator
}

// NewExecutor creates an Executor.
func NewExecutor(gen ContentGenerator) *Executor {
	return &Executor{gen: gen}
}

// Execute produces content for rec using profile for missing context. The
// recommendation itself is not modified; completing it is up to whoever
// reviews the content.
func (e *Executor) Execute(ctx context.Context, rec model.Recommendation, profile model.BusinessProfile) (*Result, error) {
	action, err := rec.Action()
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("component", "action"),
		zap.String("recommendation", rec.ID),
		zap.String("type", string(rec.Type)),
	)

	switch c := action.(type) {
	case model.ReplyReviewContext:
		req := audit.ReplyRequest{
			ReviewID:     c.ReviewID,
			Author:       c.Author,
			Sentiment:    c.Sentiment,
			BusinessName: profile.Name,
		}
		if review, ok := profile.FindReview(c.ReviewID); ok {
			req.ReviewText = review.Text
			if req.Sentiment == "" {
				req.Sentiment = model.SentimentForRating(review.Rating)
			}
		}
		if req.Sentiment == "" {
			req.Sentiment = model.SentimentNeutral
		}

		drafts, err := e.gen.DraftReviewReplies(ctx, req)
		if err != nil {
			return nil, err
		}
		log.Info("drafted review replies", zap.String("sentiment", string(req.Sentiment)))
		return &Result{RecommendationID: rec.ID, Type: rec.Type, Drafts: drafts}, nil

	case model.OptimizeDescriptionContext:
		current := c.CurrentText
		if current == "" {
			current = profile.Description
		}
		text, err := e.gen.OptimizeDescription(ctx, current)
		if err != nil {
			return nil, err
		}
		log.Info("optimized description", zap.Int("length", len(text)))
		return &Result{RecommendationID: rec.ID, Type: rec.Type, Text: text}, nil

	default:
		return nil, ErrNoExecutor
	}
}
