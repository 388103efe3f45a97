// Package competitor builds competitor landscapes for a business.
package competitor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadaudit/internal/analysis"
	"github.com/sells-group/leadaudit/internal/apperr"
	"github.com/sells-group/leadaudit/internal/model"
)

// MsgAnalysisFailed is returned inline when the landscape cannot be built.
const MsgAnalysisFailed = "Failed to analyze competitors. Please try again."

const analysisSystemPrompt = `You are a local-market analyst. Given a business, its industry and its location, identify its three most relevant local competitors and compare them.

Rules:
- Name exactly 3 competitors that plausibly operate in the same area
- ratings are 0 to 5 stars; reviewCount is a whole number
- marketPosition.ranking places the target among the four businesses, 1 = strongest
- Give 3 to 5 recommendations with priority and effort of high, medium or low
- The swot describes the target business, not the competitors`

const quickSystemPrompt = `You are a local-market analyst. Give a fast competitive snapshot.

Rules:
- competitors: exactly 3 likely local competitor names
- differentiators: exactly 3 short ways the target could stand out
- quickWin: one action the owner can take this week`

// Input describes the business to compare.
type Input struct {
	BusinessName string `json:"businessName"`
	Industry     string `json:"industry"`
	Location     string `json:"location"`
	Website      string `json:"website,omitempty"`
}

func (in Input) normalized() Input {
	return Input{
		BusinessName: strings.TrimSpace(in.BusinessName),
		Industry:     strings.TrimSpace(in.Industry),
		Location:     strings.TrimSpace(in.Location),
		Website:      strings.TrimSpace(in.Website),
	}
}

func (in Input) validate() error {
	switch {
	case in.BusinessName == "":
		return apperr.InvalidInput("Business name is required.")
	case in.Industry == "":
		return apperr.InvalidInput("Industry is required.")
	case in.Location == "":
		return apperr.InvalidInput("Location is required.")
	}
	return nil
}

func (in Input) prompt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business: %s\n", in.BusinessName)
	fmt.Fprintf(&sb, "Industry: %s\n", in.Industry)
	fmt.Fprintf(&sb, "Location: %s\n", in.Location)
	if in.Website != "" {
		fmt.Fprintf(&sb, "Website: %s\n", in.Website)
	}
	return sb.String()
}

// Outcome is the result of AnalyzeCompetitors. Exactly one of Analysis and
// Error is set.
type Outcome struct {
	Success  bool                      `json:"success"`
	Analysis *model.CompetitorAnalysis `json:"analysis,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

func failed(err error) Outcome {
	return Outcome{Success: false, Error: err.Error()}
}

// Service runs competitor analyses.
type Service struct {
	client *analysis.Client
}

// NewService creates a Service.
func NewService(client *analysis.Client) *Service {
	return &Service{client: client}
}

// AnalyzeCompetitors builds a full landscape. Failures are reported in the
// Outcome so callers can render them inline.
func (s *Service) AnalyzeCompetitors(ctx context.Context, in Input) Outcome {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return failed(err)
	}

	res, err := analysis.Analyze(ctx, s.client, analysis.Request{
		Call:   "competitors",
		System: analysisSystemPrompt,
		User:   in.prompt(),
	}, analysis.Propagate[model.CompetitorAnalysis](MsgAnalysisFailed))
	if err != nil {
		return failed(err)
	}

	a := res.Value
	if strings.TrimSpace(a.TargetBusiness.Name) == "" {
		a.TargetBusiness.Name = in.BusinessName
	}
	zap.L().Info("competitor analysis complete",
		zap.String("business", in.BusinessName),
		zap.Int("ranking", a.MarketPosition.Ranking),
	)
	return Outcome{Success: true, Analysis: &a}
}

// QuickInsight returns a fast snapshot. It never fails: invalid input or an
// analysis failure yields the labeled default.
func (s *Service) QuickInsight(ctx context.Context, in Input) model.QuickInsight {
	in = in.normalized()
	if err := in.validate(); err != nil {
		zap.L().Warn("quick insight input invalid, using default", zap.Error(err))
		return DefaultQuickInsight()
	}

	res, _ := analysis.Analyze(ctx, s.client, analysis.Request{
		Call:   "quick_insight",
		System: quickSystemPrompt,
		User:   in.prompt(),
	}, analysis.Substitute(DefaultQuickInsight))
	return res.Value
}

// DefaultQuickInsight is the placeholder shown when no snapshot is available.
func DefaultQuickInsight() model.QuickInsight {
	return model.QuickInsight{
		Competitors: []string{
			"Top-rated local competitor",
			"Established regional chain",
			"New entrant with strong reviews",
		},
		Differentiators: []string{
			"Respond to every review within 24 hours",
			"Showcase recent work with fresh photos",
			"Highlight specialties in the business description",
		},
		QuickWin:    "Ask your five most recent happy customers for a review this week.",
		Placeholder: true,
	}
}
