package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/internal/resilience"
)

func sampleAudit() *model.AuditResult {
	return &model.AuditResult{
		Score:   58,
		Summary: "Needs reviews.",
		Swot: model.SwotAnalysis{
			Strengths:     []string{"Friendly"},
			Weaknesses:    []string{"Few reviews", "No website"},
			Opportunities: []string{"Review campaign"},
			Threats:       []string{"Chains"},
		},
		Recommendations: []model.Recommendation{
			{ID: "1", Title: "Reply to Sam", Impact: model.ImpactHigh},
			{ID: "2", Title: "Add photos", Impact: model.ImpactMedium},
			{ID: "3", Title: "Claim listing", Impact: model.ImpactLow},
		},
	}
}

func TestFlatten(t *testing.T) {
	profile := model.BusinessProfile{Name: "Drip Doctors", Rating: 3.9, TotalReviews: 12, Categories: []string{"plumber"}}

	got := Flatten(profile, sampleAudit(), "Austin, TX")

	assert.Equal(t, "Drip Doctors", got.BusinessName)
	assert.Equal(t, "Austin, TX", got.Location)
	require.NotNil(t, got.Score)
	assert.Equal(t, 58, *got.Score)
	assert.Equal(t, &ProfileSummary{Name: "Drip Doctors", Rating: 3.9, ReviewCount: 12, Categories: []string{"plumber"}}, got.Profile)
	assert.Equal(t, []string{"Few reviews", "No website"}, got.Issues)
	assert.Equal(t, []string{"Review campaign"}, got.Opportunities)
	assert.Equal(t, []RecommendationRow{
		{Priority: "high", Action: "Reply to Sam"},
		{Priority: "medium", Action: "Add photos"},
		{Priority: "low", Action: "Claim listing"},
	}, got.Recommendations)
	require.NotNil(t, got.Swot)
	assert.Equal(t, []string{"Chains"}, got.Swot.Threats)
}

func TestFlatten_ProfileOnly(t *testing.T) {
	got := Flatten(model.BusinessProfile{}, nil, "")

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"businessName":"Unknown Business","profile":{"name":"Unknown Business","rating":0,"reviewCount":0}}`, string(raw))
}

func fastBackoff() resilience.Backoff {
	return resilience.Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestWebhookSink_Deliver(t *testing.T) {
	var got Payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	payload := Flatten(model.BusinessProfile{Name: "Drip Doctors"}, sampleAudit(), "Austin")
	require.NoError(t, NewWebhookSink(srv.URL, WithBackoff(fastBackoff())).Deliver(context.Background(), payload))
	assert.Equal(t, "Drip Doctors", got.BusinessName)
	assert.Len(t, got.Recommendations, 3)
}

func TestWebhookSink_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL, WithBackoff(fastBackoff())).Deliver(context.Background(), Payload{BusinessName: "x"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookSink_PermanentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`bad payload`)) //nolint:errcheck
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL, WithBackoff(fastBackoff())).Deliver(context.Background(), Payload{BusinessName: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookSink_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSink(srv.URL, WithBackoff(fastBackoff())).Deliver(context.Background(), Payload{BusinessName: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookSink_NoURL(t *testing.T) {
	assert.Error(t, NewWebhookSink("").Deliver(context.Background(), Payload{}))
}

var _ Sink = (*WebhookSink)(nil)
