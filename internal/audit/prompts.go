package audit

import (
	"fmt"
	"strings"

	"github.com/sells-group/leadaudit/internal/model"
)

const auditSystemPrompt = `You are a local-business reputation consultant. You audit a business's online listing and produce a health report.

Rules:
- Base every finding on the listing data provided; do not invent reviews or metrics
- score is an overall reputation health score from 0 (critical) to 100 (excellent)
- summary is two or three plain sentences a business owner can understand
- Give 3 to 6 recommendations ordered by impact, each with a short unique id
- Use type reply_review for a specific review that needs a response and set context.reviewId and context.author from the review list
- Use type optimize_description when the description is missing, thin or generic
- Use add_photos, keyword_gap or general for everything else
- Every recommendation status must be pending`

const repliesSystemPrompt = `You write replies from a business owner to customer reviews.

Rules:
- Write exactly 3 alternative replies, each under 50 words
- Address the reviewer by name
- Negative: apologize sincerely, do not argue, and invite them to continue the conversation offline
- Positive: thank them warmly and mention a specific detail from their experience
- Neutral: thank them and invite them back
- No hashtags, no emojis, no placeholders like [Name]`

const describeSystemPrompt = `You rewrite business descriptions for online listings.

Rules:
- Keep every fact from the original; add no claims that are not there
- Lead with what the business does and who it serves
- Use natural local-search keywords
- At most 750 characters
- Return only the description text, with no quotes, headings or commentary`

const proposalSystemPrompt = `You write short sales pitches for a marketing agency offering reputation management to local businesses.

Rules:
- headline is one sentence naming the business
- keyPoints are 1 to 5 concrete problems or opportunities taken from the data
- callToAction is one sentence inviting the owner to a short call`

func auditUserPrompt(p model.BusinessProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business: %s\n", p.Name)
	if p.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", p.Address)
	}
	if p.IsRated() {
		fmt.Fprintf(&sb, "Rating: %.1f stars\n", p.Rating)
	} else {
		sb.WriteString("Rating: unrated\n")
	}
	fmt.Fprintf(&sb, "Total reviews: %d\n", max(p.TotalReviews, 0))
	if len(p.Categories) > 0 {
		fmt.Fprintf(&sb, "Categories: %s\n", strings.Join(p.Categories, ", "))
	}
	fmt.Fprintf(&sb, "Website: %s\n", presence(p.HasWebsite()))
	fmt.Fprintf(&sb, "Phone: %s\n", presence(p.HasPhone()))
	fmt.Fprintf(&sb, "Claimed listing: %t\n", p.IsClaimed)
	fmt.Fprintf(&sb, "Photos: %d\n", len(p.Photos))

	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = "(no description)"
	}
	fmt.Fprintf(&sb, "Description: %s\n", desc)

	reviews := p.RecentReviews(model.MaxReviews)
	if len(reviews) == 0 {
		sb.WriteString("\nRecent reviews: none\n")
		return sb.String()
	}
	sb.WriteString("\nRecent reviews (newest first):\n")
	for _, r := range reviews {
		id := r.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(&sb, "- [id=%s] %s, %d stars: %s\n", id, r.Author, r.Rating, strings.TrimSpace(r.Text))
	}
	return sb.String()
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "missing"
}

func repliesUserPrompt(req ReplyRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reviewer: %s\n", req.Author)
	fmt.Fprintf(&sb, "Sentiment: %s\n", req.Sentiment)
	if req.BusinessName != "" {
		fmt.Fprintf(&sb, "Business: %s\n", req.BusinessName)
	}
	if text := strings.TrimSpace(req.ReviewText); text != "" {
		fmt.Fprintf(&sb, "Review: %s\n", text)
	}
	fmt.Fprintf(&sb, "Review id: %s\n", req.ReviewID)
	return sb.String()
}

func proposalUserPrompt(l model.Lead) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business: %s\n", l.Name)
	fmt.Fprintf(&sb, "Lead score: %d (%s)\n", l.LeadScore, l.Tier)
	if l.IsRated() {
		fmt.Fprintf(&sb, "Rating: %.1f from %d reviews\n", l.Rating, l.TotalReviews)
	} else {
		fmt.Fprintf(&sb, "Rating: unrated, %d reviews\n", l.TotalReviews)
	}
	if len(l.Opportunities) > 0 {
		sb.WriteString("Opportunities:\n")
		for _, o := range l.Opportunities {
			fmt.Fprintf(&sb, "- %s\n", o)
		}
	}
	return sb.String()
}
