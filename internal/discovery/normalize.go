package discovery

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/pkg/google"
)

// NormalizePlace maps a Places result onto a BusinessProfile.
func NormalizePlace(p google.Place) model.BusinessProfile {
	photos := make([]string, 0, len(p.Photos))
	for _, ph := range p.Photos {
		if ph.Name != "" {
			photos = append(photos, ph.Name)
		}
	}

	return model.BusinessProfile{
		Name:         nameOrDefault(p.DisplayName.Text),
		Address:      strings.TrimSpace(p.FormattedAddress),
		Rating:       clampRating(p.Rating),
		TotalReviews: max(p.UserRatingCount, 0),
		Website:      strings.TrimSpace(p.WebsiteURI),
		Phone:        strings.TrimSpace(p.NationalPhoneNumber),
		Categories:   humanizeCategories(p.Types),
		Photos:       photos,
	}
}

// NormalizeRecord maps a loosely-typed record onto a BusinessProfile. It
// accepts both Places-style keys and flat keys, and substitutes defaults for
// anything missing or of the wrong type. It never fails.
func NormalizeRecord(rec map[string]any) model.BusinessProfile {
	name := ""
	if dn, ok := rec["displayName"].(map[string]any); ok {
		name = str(dn["text"])
	}
	if name == "" {
		name = firstString(rec, "displayName")
	}
	// Places records use "name" for the resource name, not the business.
	if n := str(rec["name"]); name == "" && !strings.HasPrefix(n, "places/") {
		name = n
	}
	if name == "" {
		name = firstString(rec, "title")
	}

	return model.BusinessProfile{
		Name:         nameOrDefault(name),
		Address:      firstString(rec, "formattedAddress", "address"),
		Rating:       clampRating(num(rec["rating"])),
		TotalReviews: max(int(firstNum(rec, "userRatingCount", "reviewCount", "totalReviews")), 0),
		Website:      firstString(rec, "websiteUri", "website"),
		Phone:        firstString(rec, "nationalPhoneNumber", "phone"),
		Categories:   humanizeCategories(firstStrings(rec, "types", "categories")),
		Description:  str(rec["description"]),
		Reviews:      normalizeReviews(rec["reviews"]),
		IsClaimed:    truthy(rec["isClaimed"]),
		Photos:       photoNames(rec["photos"]),
	}
}

func nameOrDefault(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return model.DefaultBusinessName
	}
	return s
}

func clampRating(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return math.Min(r, 5)
}

// humanizeCategories turns type codes like "home_goods_store" into
// "home goods store", dropping blanks and case-insensitive duplicates.
func humanizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	fold := cases.Fold()
	for _, c := range in {
		c = strings.NewReplacer("_", " ", "-", " ").Replace(c)
		c = strings.Join(strings.Fields(c), " ")
		if c == "" {
			continue
		}
		key := fold.String(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func normalizeReviews(v any) []model.Review {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.Review, 0, min(len(items), model.MaxReviews))
	for _, item := range items {
		if len(out) == model.MaxReviews {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		author := firstString(m, "author", "authorName")
		if a, ok := m["authorAttribution"].(map[string]any); ok && author == "" {
			author = str(a["displayName"])
		}
		text := firstString(m, "text", "comment")
		if t, ok := m["text"].(map[string]any); ok {
			text = str(t["text"])
		}
		rating := int(math.Round(num(m["rating"])))
		out = append(out, model.Review{
			ID:     firstString(m, "id", "name"),
			Author: author,
			Text:   text,
			Rating: min(max(rating, 1), 5),
		})
	}
	return out
}

func photoNames(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch p := item.(type) {
		case string:
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		case map[string]any:
			if name := str(p["name"]); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstNum(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return num(m[k])
		}
	}
	return 0
}

func firstStrings(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		items, ok := m[k].([]any)
		if !ok {
			if ss, ok := m[k].([]string); ok {
				return ss
			}
			continue
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
