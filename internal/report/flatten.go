// Package report shapes audits for the external report sink and delivers them.
package report

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/leadaudit/internal/model"
)

// Payload is the flat document the report sink renders.
type Payload struct {
	BusinessName    string              `json:"businessName"`
	Location        string              `json:"location,omitempty"`
	Score           *int                `json:"score,omitempty"`
	Profile         *ProfileSummary     `json:"profile,omitempty"`
	Issues          []string            `json:"issues,omitempty"`
	Opportunities   []string            `json:"opportunities,omitempty"`
	Recommendations []RecommendationRow `json:"recommendations,omitempty"`
	Swot            *model.SwotAnalysis `json:"swot,omitempty"`
}

// ProfileSummary is the listing snapshot in a Payload.
type ProfileSummary struct {
	Name        string   `json:"name"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
	Categories  []string `json:"categories,omitempty"`
}

// RecommendationRow is one line of the recommendation table.
type RecommendationRow struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
}

// Flatten builds a Payload. audit may be nil when only the profile is known.
// Issues are the audit's SWOT weaknesses and opportunities its SWOT
// opportunities.
func Flatten(profile model.BusinessProfile, audit *model.AuditResult, location string) Payload {
	p := Payload{
		BusinessName: profile.Name,
		Location:     location,
		Profile: &ProfileSummary{
			Name:        profile.Name,
			Rating:      profile.Rating,
			ReviewCount: profile.TotalReviews,
			Categories:  profile.Categories,
		},
	}
	if p.BusinessName == "" {
		p.BusinessName = model.DefaultBusinessName
		p.Profile.Name = model.DefaultBusinessName
	}
	if audit == nil {
		return p
	}

	score := audit.Score
	p.Score = &score
	p.Issues = audit.Swot.Weaknesses
	p.Opportunities = audit.Swot.Opportunities
	swot := audit.Swot
	p.Swot = &swot

	if len(audit.Recommendations) > 0 {
		lower := cases.Lower(language.Und)
		p.Recommendations = make([]RecommendationRow, len(audit.Recommendations))
		for i, r := range audit.Recommendations {
			p.Recommendations[i] = RecommendationRow{
				Priority: lower.String(string(r.Impact)),
				Action:   r.Title,
			}
		}
	}
	return p
}
