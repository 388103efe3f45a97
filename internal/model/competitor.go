package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// CompetitorCount is the number of competitors a landscape must name.
const CompetitorCount = 3

// TargetSummary describes the business the landscape was built for.
type TargetSummary struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

// Competitor is one rival business in the landscape.
type Competitor struct {
	Name           string   `json:"name"`
	Rating         float64  `json:"rating" jsonschema:"minimum=0,maximum=5"`
	ReviewCount    int      `json:"reviewCount" jsonschema:"minimum=0"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Differentiator string   `json:"differentiator"`
}

// MarketPosition ranks the target against its competitors (1 = best of 4).
type MarketPosition struct {
	Ranking     int    `json:"ranking" jsonschema:"minimum=1,maximum=4"`
	Gap         string `json:"gap"`
	Opportunity string `json:"opportunity"`
}

// CompetitorAction is a prioritized step suggested by competitor analysis.
type CompetitorAction struct {
	Priority string `json:"priority" jsonschema:"enum=high,enum=medium,enum=low"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Effort   string `json:"effort" jsonschema:"enum=low,enum=medium,enum=high"`
}

// CompetitorAnalysis is the full competitor landscape for one business.
type CompetitorAnalysis struct {
	TargetBusiness  TargetSummary      `json:"targetBusiness"`
	Competitors     []Competitor       `json:"competitors" jsonschema:"minItems=3,maxItems=3"`
	MarketPosition  MarketPosition     `json:"marketPosition"`
	Recommendations []CompetitorAction `json:"recommendations"`
	Swot            SwotAnalysis       `json:"swot"`
}

// Validate enforces the landscape rules a JSON schema cannot fully express.
func (a CompetitorAnalysis) Validate() error {
	if len(a.Competitors) != CompetitorCount {
		return eris.Errorf("competitor analysis: want %d competitors, got %d", CompetitorCount, len(a.Competitors))
	}
	for i, c := range a.Competitors {
		if strings.TrimSpace(c.Name) == "" {
			return eris.Errorf("competitor analysis: competitor %d has no name", i)
		}
	}
	if a.MarketPosition.Ranking < 1 || a.MarketPosition.Ranking > 4 {
		return eris.Errorf("competitor analysis: ranking %d out of range", a.MarketPosition.Ranking)
	}
	return nil
}

// QuickInsight is the low-cost competitor teaser.
type QuickInsight struct {
	Competitors     []string `json:"competitors" jsonschema:"minItems=3,maxItems=3"`
	Differentiators []string `json:"differentiators" jsonschema:"minItems=3,maxItems=3"`
	QuickWin        string   `json:"quickWin"`
	Placeholder     bool     `json:"placeholder,omitempty" jsonschema:"-"`
}
