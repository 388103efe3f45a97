// Package scorer computes deterministic sales-readiness scores for business profiles.
package scorer

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadaudit/internal/model"
)

// Score weights. The sum of the heaviest branches is 110, capped to MaxScore.
const (
	MaxScore = 100

	weightVeryFewReviews   = 30
	weightFewReviews       = 20
	weightSomeReviews      = 10
	weightCriticalRating   = 30
	weightBelowAvgRating   = 20
	weightImprovableRating = 10
	weightUnrated          = 15
	weightNoWebsite        = 40
	weightNoPhone          = 10
)

// Tier thresholds on the capped score.
const (
	hotThreshold  = 70
	warmThreshold = 50
	coldThreshold = 30
)

// Opportunity labels, in evaluation order.
const (
	OppVeryLowReviews   = "Very low review count (< 5)"
	OppLowReviews       = "Low review count (< 10)"
	OppModerateReviews  = "Moderate review count (< 20)"
	OppCriticalRating   = "Critical: Low rating (< 3.0 stars)"
	OppBelowAvgRating   = "Below average rating (< 4.0 stars)"
	OppImprovableRating = "Room for rating improvement (< 4.5 stars)"
	OppNoRatings        = "No ratings found"
	OppMissingWebsite   = "Missing Website"
	OppMissingPhone     = "Missing Phone Number"
)

// LeadScore is the result of scoring one profile.
type LeadScore struct {
	Score         int        `json:"leadScore"`
	Tier          model.Tier `json:"tier"`
	Opportunities []string   `json:"opportunities"`
}

// ScoreLead scores a profile. It is defined for every profile, including one
// with every field missing, and always returns the same result for the same
// input.
//
// Review volume and the unrated branch are independent: a listing with no
// reviews and no rating collects both penalties.
func ScoreLead(p model.BusinessProfile) LeadScore {
	raw := 0
	opps := make([]string, 0, 4)
	add := func(points int, label string) {
		raw += points
		opps = append(opps, label)
	}

	switch reviews := p.TotalReviews; {
	case reviews < 5:
		add(weightVeryFewReviews, OppVeryLowReviews)
	case reviews < 10:
		add(weightFewReviews, OppLowReviews)
	case reviews < 20:
		add(weightSomeReviews, OppModerateReviews)
	}

	if p.IsRated() {
		switch {
		case p.Rating < 3.0:
			add(weightCriticalRating, OppCriticalRating)
		case p.Rating < 4.0:
			add(weightBelowAvgRating, OppBelowAvgRating)
		case p.Rating < 4.5:
			add(weightImprovableRating, OppImprovableRating)
		}
	} else {
		add(weightUnrated, OppNoRatings)
	}

	if !p.HasWebsite() {
		add(weightNoWebsite, OppMissingWebsite)
	}
	if !p.HasPhone() {
		add(weightNoPhone, OppMissingPhone)
	}

	score := min(raw, MaxScore)
	return LeadScore{
		Score:         score,
		Tier:          TierFor(score),
		Opportunities: opps,
	}
}

// TierFor buckets a capped score.
func TierFor(score int) model.Tier {
	switch {
	case score >= hotThreshold:
		return model.TierHot
	case score >= warmThreshold:
		return model.TierWarm
	case score >= coldThreshold:
		return model.TierCold
	default:
		return model.TierPoorFit
	}
}

// ScoreLeads scores a batch in parallel. Results are in input order.
func ScoreLeads(profiles []model.BusinessProfile) []LeadScore {
	out := make([]LeadScore, len(profiles))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range profiles {
		g.Go(func() error {
			out[i] = ScoreLead(profiles[i])
			return nil
		})
	}
	_ = g.Wait() // ScoreLead cannot fail

	return out
}
