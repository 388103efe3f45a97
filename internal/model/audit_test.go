package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadaudit/internal/apperr"
)

func TestRecommendation_ActionReplyReview(t *testing.T) {
	rec := Recommendation{
		Type:    RecReplyReview,
		Context: map[string]string{CtxReviewID: "r-9", CtxAuthor: "Dana", CtxSentiment: "Negative"},
	}

	action, err := rec.Action()
	require.NoError(t, err)
	reply, ok := action.(ReplyReviewContext)
	require.True(t, ok)
	assert.Equal(t, "r-9", reply.ReviewID)
	assert.Equal(t, "Dana", reply.Author)
	assert.Equal(t, SentimentNegative, reply.Sentiment)
}

func TestRecommendation_ActionReplyReviewMissingKeys(t *testing.T) {
	tests := []struct {
		name string
		ctx  map[string]string
	}{
		{"nil context", nil},
		{"missing author", map[string]string{CtxReviewID: "r-1"}},
		{"blank review id", map[string]string{CtxReviewID: " ", CtxAuthor: "Dana"}},
		{"bad sentiment", map[string]string{CtxReviewID: "r-1", CtxAuthor: "Dana", CtxSentiment: "angry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Recommendation{Type: RecReplyReview, Context: tt.ctx}.Action()
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
		})
	}
}

func TestRecommendation_ActionVariants(t *testing.T) {
	action, err := Recommendation{Type: RecOptimizeDescription, Context: map[string]string{CtxCurrentText: "We fix bikes."}}.Action()
	require.NoError(t, err)
	assert.Equal(t, OptimizeDescriptionContext{CurrentText: "We fix bikes."}, action)

	for _, typ := range []RecommendationType{RecAddPhotos, RecKeywordGap, RecGeneral} {
		action, err := Recommendation{Type: typ}.Action()
		require.NoError(t, err)
		assert.Equal(t, InformationalContext{Type: typ}, action)
	}

	_, err = Recommendation{Type: "launch_rocket"}.Action()
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestRecommendation_Complete(t *testing.T) {
	rec := Recommendation{ID: "1", Status: StatusPending, Context: map[string]string{"a": "b"}}
	done := rec.Complete()

	assert.Equal(t, StatusCompleted, done.Status)
	assert.Equal(t, StatusPending, rec.Status)

	done.Context["a"] = "changed"
	assert.Equal(t, "b", rec.Context["a"])
}

func TestContextValues_AcceptsScalars(t *testing.T) {
	var rec Recommendation
	require.NoError(t, json.Unmarshal([]byte(`{"type":"reply_review","context":{"reviewId":"r-1","rating":2,"score":4.5,"urgent":true,"note":null}}`), &rec))

	assert.Equal(t, ContextValues{"reviewId": "r-1", "rating": "2", "score": "4.5", "urgent": "true"}, rec.Context)

	var bare Recommendation
	require.NoError(t, json.Unmarshal([]byte(`{"type":"general","context":null}`), &bare))
	assert.Nil(t, bare.Context)

	assert.Error(t, json.Unmarshal([]byte(`{"context":["a"]}`), &bare))
}

func TestContextValues_Schema(t *testing.T) {
	s := ContextValues{}.JSONSchema()
	assert.Equal(t, "object", s.Type)
	require.NotNil(t, s.AdditionalProperties)
	assert.Len(t, s.AdditionalProperties.AnyOf, 4)
}

func TestSentimentForRating(t *testing.T) {
	assert.Equal(t, SentimentNegative, SentimentForRating(1))
	assert.Equal(t, SentimentNegative, SentimentForRating(2))
	assert.Equal(t, SentimentNeutral, SentimentForRating(3))
	assert.Equal(t, SentimentPositive, SentimentForRating(4))
	assert.Equal(t, SentimentPositive, SentimentForRating(5))
}

func TestCompetitorAnalysis_Validate(t *testing.T) {
	valid := CompetitorAnalysis{
		Competitors:    []Competitor{{Name: "A"}, {Name: "B"}, {Name: "C"}},
		MarketPosition: MarketPosition{Ranking: 2},
	}
	require.NoError(t, valid.Validate())

	two := valid
	two.Competitors = valid.Competitors[:2]
	assert.Error(t, two.Validate())

	unnamed := valid
	unnamed.Competitors = []Competitor{{Name: "A"}, {Name: ""}, {Name: "C"}}
	assert.Error(t, unnamed.Validate())

	badRank := valid
	badRank.MarketPosition.Ranking = 5
	assert.Error(t, badRank.Validate())
}
