package model

// Tier is a coarse sales-readiness bucket derived from the lead score.
type Tier string

const (
	TierHot     Tier = "hot"
	TierWarm    Tier = "warm"
	TierCold    Tier = "cold"
	TierPoorFit Tier = "poor_fit"
)

// Lead is a scored BusinessProfile produced by one discovery run. Leads are
// not modified after scoring.
type Lead struct {
	BusinessProfile
	PlaceID       string   `json:"placeId"`
	LeadScore     int      `json:"leadScore"`
	Tier          Tier     `json:"tier"`
	Opportunities []string `json:"opportunities"`
	Email         string   `json:"email,omitempty"`
	PhotoURL      string   `json:"photoUrl,omitempty"`
}
