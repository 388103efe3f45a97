// Package audit produces reputation audits and owner-facing content for a
// business profile.
package audit

import (
	"context"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadaudit/internal/analysis"
	"github.com/sells-group/leadaudit/internal/apperr"
	"github.com/sells-group/leadaudit/internal/model"
)

// Fixed user-facing failure messages.
const (
	MsgAuditFailed    = "Failed to analyze business profile. Please try again."
	MsgRepliesFailed  = "Failed to generate response drafts. Please try again."
	MsgDescribeFailed = "Failed to optimize description. Please try again."
)

// MaxDescriptionLen caps optimized descriptions.
const MaxDescriptionLen = 750

// ReplyCount is the number of drafts returned for a review.
const ReplyCount = 3

// MaxReplyWords caps a single draft. Prompts ask for about 50 words.
const MaxReplyWords = 75

// Service runs audit analyses.
type Service struct {
	client *analysis.Client
}

// NewService creates a Service.
func NewService(client *analysis.Client) *Service {
	return &Service{client: client}
}

// AnalyzeProfile audits one profile. Failures are always propagated.
func (s *Service) AnalyzeProfile(ctx context.Context, p model.BusinessProfile) (*model.AuditResult, error) {
	log := zap.L().With(zap.String("component", "audit"), zap.String("business", p.Name))

	user := auditUserPrompt(p)
	log.Debug("requesting audit", zap.Int("prompt_len", len(user)))

	res, err := analysis.Analyze(ctx, s.client, analysis.Request{
		Call:   "audit",
		System: auditSystemPrompt,
		User:   user,
	}, analysis.Propagate[model.AuditResult](MsgAuditFailed))
	if err != nil {
		return nil, err
	}

	out := finalize(res.Value)
	log.Info("audit complete",
		zap.Int("score", out.Score),
		zap.Int("recommendations", len(out.Recommendations)),
		zap.Bool("repaired", res.Repaired),
	)
	return &out, nil
}

// finalize enforces invariants the service is not trusted with: score in
// range, every recommendation pending, ids present and unique.
func finalize(r model.AuditResult) model.AuditResult {
	r.Score = min(max(r.Score, 0), 100)

	seen := make(map[string]bool, len(r.Recommendations))
	recs := make([]model.Recommendation, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		rec.Status = model.StatusPending
		rec.ID = strings.TrimSpace(rec.ID)
		if rec.ID == "" || seen[rec.ID] {
			rec.ID = uuid.NewString()
		}
		seen[rec.ID] = true
		recs[i] = rec
	}
	r.Recommendations = recs
	return r
}

// ReplyRequest identifies a review to answer. ReviewText and BusinessName
// are optional context.
type ReplyRequest struct {
	ReviewID     string
	Author       string
	Sentiment    model.Sentiment
	ReviewText   string
	BusinessName string
}

type replyDrafts struct {
	Replies []string `json:"replies" jsonschema:"minItems=3,maxItems=3"`
}

func (d replyDrafts) Validate() error {
	for i, r := range d.Replies {
		words := len(strings.Fields(r))
		if words == 0 {
			return eris.New("audit: blank reply draft")
		}
		if words > MaxReplyWords {
			return eris.Errorf("audit: reply draft %d has %d words", i, words)
		}
	}
	return nil
}

// DraftReviewReplies writes exactly three alternative owner replies.
func (s *Service) DraftReviewReplies(ctx context.Context, req ReplyRequest) ([]string, error) {
	req.Author = strings.TrimSpace(req.Author)
	if req.Author == "" {
		return nil, apperr.InvalidInput("Review author is required.")
	}
	sentiment, err := model.ParseSentiment(string(req.Sentiment))
	if err != nil {
		return nil, err
	}
	req.Sentiment = sentiment

	res, err := analysis.Analyze(ctx, s.client, analysis.Request{
		Call:   "review_replies",
		System: repliesSystemPrompt,
		User:   repliesUserPrompt(req),
	}, analysis.Propagate[replyDrafts](MsgRepliesFailed))
	if err != nil {
		return nil, err
	}

	replies := make([]string, ReplyCount)
	for i := range replies {
		replies[i] = strings.TrimSpace(res.Value.Replies[i])
	}
	return replies, nil
}

// GenerateResponse drafts replies for a review identified by id and author.
func (s *Service) GenerateResponse(ctx context.Context, reviewID, author, sentiment string) ([]string, error) {
	return s.DraftReviewReplies(ctx, ReplyRequest{
		ReviewID:  reviewID,
		Author:    author,
		Sentiment: model.Sentiment(sentiment),
	})
}

// OptimizeDescription rewrites a listing description.
func (s *Service) OptimizeDescription(ctx context.Context, current string) (string, error) {
	current = strings.TrimSpace(current)
	user := "Current description: " + current
	if current == "" {
		user = "The listing has no description yet. Write a short, factual placeholder the owner can edit."
	}

	res, err := analysis.AnalyzeText(ctx, s.client, analysis.Request{
		Call:   "describe",
		System: describeSystemPrompt,
		User:   user,
	}, analysis.Propagate[string](MsgDescribeFailed))
	if err != nil {
		return "", err
	}
	return truncateWords(res.Value, MaxDescriptionLen), nil
}

// truncateWords cuts s to at most n runes, backing up to a word boundary
// when one exists.
func truncateWords(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	cut := runes[:n]
	if !unicode.IsSpace(runes[n]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(strings.TrimRightFunc(string(cut), unicode.IsSpace), ",;:-")
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}

// ProposalSummary pitches the agency's services to a lead. Failures fall back
// to a summary built from the lead's own opportunities.
func (s *Service) ProposalSummary(ctx context.Context, lead model.Lead) (*model.ProposalSummary, error) {
	res, err := analysis.Analyze(ctx, s.client, analysis.Request{
		Call:   "proposal_summary",
		System: proposalSystemPrompt,
		User:   proposalUserPrompt(lead),
	}, analysis.Substitute(func() model.ProposalSummary {
		return defaultProposal(lead)
	}))
	if err != nil {
		return nil, err
	}
	out := res.Value
	return &out, nil
}

func defaultProposal(lead model.Lead) model.ProposalSummary {
	points := lead.Opportunities
	if len(points) > 5 {
		points = points[:5]
	}
	if len(points) == 0 {
		points = []string{"Keep reviews and listing details fresh to stay ahead of competitors"}
	}
	return model.ProposalSummary{
		Headline:     lead.Name + " can win more local customers with a stronger online reputation",
		KeyPoints:    append([]string(nil), points...),
		CallToAction: "Book a 15-minute call to walk through your free listing audit.",
		Placeholder:  true,
	}
}
