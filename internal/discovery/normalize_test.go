package discovery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/pkg/google"
)

func TestNormalizePlace(t *testing.T) {
	p := NormalizePlace(google.Place{
		ID:                  "ChIJ-1",
		DisplayName:         google.DisplayName{Text: "  Drip Doctors "},
		FormattedAddress:    "1 Main St",
		Rating:              4.2,
		UserRatingCount:     17,
		WebsiteURI:          "https://drip.example",
		NationalPhoneNumber: "(512) 555-0100",
		Types:               []string{"plumber", "home_goods_store", "plumber", ""},
		Photos:              []google.Photo{{Name: "places/ChIJ-1/photos/a"}, {Name: ""}},
	})

	assert.Equal(t, "Drip Doctors", p.Name)
	assert.Equal(t, "1 Main St", p.Address)
	assert.InDelta(t, 4.2, p.Rating, 0.0001)
	assert.Equal(t, 17, p.TotalReviews)
	assert.True(t, p.HasWebsite())
	assert.True(t, p.HasPhone())
	assert.Equal(t, []string{"plumber", "home goods store"}, p.Categories)
	assert.Equal(t, []string{"places/ChIJ-1/photos/a"}, p.Photos)
}

func TestNormalizePlace_Defaults(t *testing.T) {
	p := NormalizePlace(google.Place{Rating: 7, UserRatingCount: -4})

	assert.Equal(t, model.DefaultBusinessName, p.Name)
	assert.Empty(t, p.Address)
	assert.InDelta(t, 5.0, p.Rating, 0.0001)
	assert.Equal(t, 0, p.TotalReviews)
	assert.False(t, p.HasWebsite())
	assert.False(t, p.HasPhone())
	assert.Empty(t, p.Categories)
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestNormalizeRecord_PlacesShape(t *testing.T) {
	p := NormalizeRecord(decode(t, `{
		"displayName": {"text": "Bright Smiles"},
		"formattedAddress": "9 Elm Rd",
		"rating": 3.4,
		"userRatingCount": 8,
		"websiteUri": "https://smiles.example",
		"nationalPhoneNumber": "555-0101",
		"types": ["dentist", "health"],
		"photos": [{"name": "places/x/photos/1"}]
	}`))

	assert.Equal(t, "Bright Smiles", p.Name)
	assert.Equal(t, "9 Elm Rd", p.Address)
	assert.InDelta(t, 3.4, p.Rating, 0.0001)
	assert.Equal(t, 8, p.TotalReviews)
	assert.Equal(t, "https://smiles.example", p.Website)
	assert.Equal(t, "555-0101", p.Phone)
	assert.Equal(t, []string{"dentist", "health"}, p.Categories)
	assert.Equal(t, []string{"places/x/photos/1"}, p.Photos)
}

func TestNormalizeRecord_FlatShape(t *testing.T) {
	p := NormalizeRecord(decode(t, `{
		"title": "Corner Bakery",
		"address": "2 Oak Ave",
		"rating": "4.8",
		"reviewCount": 41,
		"website": "",
		"phone": "555-0102",
		"categories": ["bakery", "Cafe-Shop", "cafe shop"],
		"description": "Fresh bread daily.",
		"isClaimed": true,
		"reviews": [
			{"id": "r1", "author": "Ann", "text": "Great", "rating": 5},
			{"id": "r2", "author": "Bob", "text": "Meh", "rating": 0},
			{"id": "r3", "author": "Cy", "text": "Wow", "rating": 9},
			{"id": "r4", "author": "Di", "text": "ok", "rating": 3},
			{"id": "r5", "author": "Ed", "text": "ok", "rating": 3},
			{"id": "r6", "author": "Fy", "text": "ok", "rating": 3}
		]
	}`))

	assert.Equal(t, "Corner Bakery", p.Name)
	assert.InDelta(t, 4.8, p.Rating, 0.0001)
	assert.Equal(t, 41, p.TotalReviews)
	assert.False(t, p.HasWebsite())
	assert.Equal(t, []string{"bakery", "Cafe Shop"}, p.Categories)
	assert.Equal(t, "Fresh bread daily.", p.Description)
	assert.True(t, p.IsClaimed)

	require.Len(t, p.Reviews, model.MaxReviews)
	assert.Equal(t, 5, p.Reviews[0].Rating)
	assert.Equal(t, 1, p.Reviews[1].Rating, "clamped up")
	assert.Equal(t, 5, p.Reviews[2].Rating, "clamped down")
	assert.Equal(t, "r5", p.Reviews[4].ID)
}

func TestNormalizeRecord_GarbageNeverFails(t *testing.T) {
	for _, rec := range []map[string]any{
		nil,
		{},
		{"displayName": 12, "rating": []any{1}, "reviews": "none", "types": "plumber", "photos": 3},
		{"rating": -2.0, "totalReviews": "lots"},
	} {
		p := NormalizeRecord(rec)
		assert.Equal(t, model.DefaultBusinessName, p.Name)
		assert.GreaterOrEqual(t, p.Rating, 0.0)
		assert.LessOrEqual(t, p.Rating, 5.0)
		assert.GreaterOrEqual(t, p.TotalReviews, 0)
	}
}

func TestNormalizeRecord_SkipsResourceName(t *testing.T) {
	p := NormalizeRecord(map[string]any{"name": "places/ChIJ1", "rating": 4.0})
	assert.Equal(t, model.DefaultBusinessName, p.Name)

	p = NormalizeRecord(map[string]any{"name": "places/ChIJ1", "title": "Drip Coffee"})
	assert.Equal(t, "Drip Coffee", p.Name)

	p = NormalizeRecord(map[string]any{"name": "Drip"})
	assert.Equal(t, "Drip", p.Name)
}

func TestHumanizeCategories(t *testing.T) {
	assert.Equal(t,
		[]string{"home goods store", "car repair"},
		humanizeCategories([]string{"home_goods_store", " car--repair ", "Home Goods Store", "  "}),
	)
	assert.Empty(t, humanizeCategories(nil))
}
