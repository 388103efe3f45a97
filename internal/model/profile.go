// Package model defines the value types shared by discovery, scoring and analysis.
package model

import "strings"

// MaxReviews bounds the number of reviews carried on a BusinessProfile.
const MaxReviews = 5

// DefaultBusinessName is used when a discovery record has no usable name.
const DefaultBusinessName = "Unknown Business"

// BusinessProfile is the canonical description of a business, independent of
// the directory it was discovered in.
type BusinessProfile struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Rating       float64  `json:"rating"` // 0 means unrated
	TotalReviews int      `json:"totalReviews"`
	Website      string   `json:"website,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	Categories   []string `json:"categories"`
	Description  string   `json:"description"`
	Reviews      []Review `json:"reviews"` // most recent first
	IsClaimed    bool     `json:"isClaimed"`
	Photos       []string `json:"photos"`
}

// Review is a single customer review.
type Review struct {
	ID     string `json:"id,omitempty"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// HasWebsite reports whether the profile lists a website.
func (p BusinessProfile) HasWebsite() bool {
	return strings.TrimSpace(p.Website) != ""
}

// HasPhone reports whether the profile lists a phone number.
func (p BusinessProfile) HasPhone() bool {
	return strings.TrimSpace(p.Phone) != ""
}

// IsRated reports whether the business has any rating at all.
func (p BusinessProfile) IsRated() bool {
	return p.Rating > 0
}

// RecentReviews returns at most n reviews, most recent first.
func (p BusinessProfile) RecentReviews(n int) []Review {
	if n <= 0 || len(p.Reviews) == 0 {
		return nil
	}
	if len(p.Reviews) < n {
		n = len(p.Reviews)
	}
	out := make([]Review, n)
	copy(out, p.Reviews[:n])
	return out
}

// FindReview looks up a review by ID.
func (p BusinessProfile) FindReview(id string) (Review, bool) {
	if id == "" {
		return Review{}, false
	}
	for _, r := range p.Reviews {
		if r.ID == id {
			return r, true
		}
	}
	return Review{}, false
}
