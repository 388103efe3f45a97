package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadaudit/internal/action"
	"github.com/sells-group/leadaudit/internal/apperr"
	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/competitor"
	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/internal/report"
)

type fakeLeads struct {
	leads []model.Lead
	err   error
	query string
	loc   string
}

func (f *fakeLeads) FindLeads(_ context.Context, q, loc string) ([]model.Lead, error) {
	f.query, f.loc = q, loc
	return f.leads, f.err
}

type fakeAuditor struct {
	result   *model.AuditResult
	err      error
	profile  model.BusinessProfile
	replyReq audit.ReplyRequest
}

func (f *fakeAuditor) AnalyzeProfile(_ context.Context, p model.BusinessProfile) (*model.AuditResult, error) {
	f.profile = p
	return f.result, f.err
}

func (f *fakeAuditor) DraftReviewReplies(_ context.Context, req audit.ReplyRequest) ([]string, error) {
	f.replyReq = req
	if f.err != nil {
		return nil, f.err
	}
	return []string{"a", "b", "c"}, nil
}

func (f *fakeAuditor) OptimizeDescription(_ context.Context, current string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "better: " + current, nil
}

func (f *fakeAuditor) ProposalSummary(_ context.Context, lead model.Lead) (*model.ProposalSummary, error) {
	return &model.ProposalSummary{Headline: lead.Name, KeyPoints: lead.Opportunities, Placeholder: true}, nil
}

type fakeCompetitors struct{}

func (fakeCompetitors) AnalyzeCompetitors(_ context.Context, in competitor.Input) competitor.Outcome {
	if in.BusinessName == "" {
		return competitor.Outcome{Success: false, Error: "Business name is required."}
	}
	return competitor.Outcome{Success: true, Analysis: &model.CompetitorAnalysis{TargetBusiness: model.TargetSummary{Name: in.BusinessName}}}
}

func (fakeCompetitors) QuickInsight(context.Context, competitor.Input) model.QuickInsight {
	return competitor.DefaultQuickInsight()
}

type fakeExecutor struct{}

func (fakeExecutor) Execute(_ context.Context, rec model.Recommendation, p model.BusinessProfile) (*action.Result, error) {
	if rec.Type != model.RecOptimizeDescription {
		return nil, action.ErrNoExecutor
	}
	return &action.Result{RecommendationID: rec.ID, Type: rec.Type, Text: "new " + p.Description}, nil
}

type fakeSink struct {
	got report.Payload
	err error
}

func (f *fakeSink) Deliver(_ context.Context, p report.Payload) error {
	f.got = p
	return f.err
}

type fixture struct {
	leads   *fakeLeads
	auditor *fakeAuditor
	sink    *fakeSink
	srv     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{leads: &fakeLeads{}, auditor: &fakeAuditor{}, sink: &fakeSink{}}
	h := &Handler{Leads: f.leads, Audits: f.auditor, Competitors: fakeCompetitors{}, Actions: fakeExecutor{}, Sink: f.sink}
	f.srv = httptest.NewServer(NewRouter(h, []string{"*"}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) post(t *testing.T, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(f.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchLeads(t *testing.T) {
	f := newFixture(t)
	f.leads.leads = []model.Lead{{PlaceID: "a", LeadScore: 95}, {PlaceID: "b", LeadScore: 10}}

	status, body := f.post(t, "/v1/leads/search", `{"query":"plumbers","location":"Austin"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])
	assert.Equal(t, "plumbers", f.leads.query)
	assert.Equal(t, "Austin", f.leads.loc)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid input", apperr.InvalidInput("Search query is required."), http.StatusBadRequest, "Search query is required."},
		{"schema violation", apperr.New(apperr.KindSchemaViolation, "bad output"), http.StatusBadGateway, "bad output"},
		{"upstream", apperr.New(apperr.KindUpstreamUnavailable, "down"), http.StatusServiceUnavailable, "down"},
		{"unclassified", errors.New("secret detail"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.leads.err = tt.err

			status, body := f.post(t, "/v1/leads/search", `{"query":"x"}`)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}

func TestBadBody(t *testing.T) {
	f := newFixture(t)

	status, body := f.post(t, "/v1/leads/search", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body.", body["error"])
}

func TestCreateAudit_NormalizesProfile(t *testing.T) {
	f := newFixture(t)
	f.auditor.result = &model.AuditResult{Score: 70, Summary: "ok"}

	status, body := f.post(t, "/v1/audits", `{"profile":{"displayName":{"text":"Drip"},"userRatingCount":4,"types":["plumber_service"]}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 70, body["score"])
	assert.Equal(t, "Drip", f.auditor.profile.Name)
	assert.Equal(t, 4, f.auditor.profile.TotalReviews)
	assert.Equal(t, []string{"plumber service"}, f.auditor.profile.Categories)

	status, _ = f.post(t, "/v1/audits", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCompetitors_AlwaysOK(t *testing.T) {
	f := newFixture(t)

	status, body := f.post(t, "/v1/competitors", `{"businessName":""}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])

	status, body = f.post(t, "/v1/competitors", `{"businessName":"Drip","industry":"Plumbing","location":"Austin"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = f.post(t, "/v1/competitors/quick", `{"businessName":"Drip"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["placeholder"])
}

func TestDraftReplies(t *testing.T) {
	f := newFixture(t)

	status, body := f.post(t, "/v1/reviews/replies", `{"reviewId":"r1","author":"Sam","sentiment":"negative"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["replies"], 3)
	assert.Equal(t, model.Sentiment("negative"), f.auditor.replyReq.Sentiment)
}

func TestOptimizeDescription(t *testing.T) {
	f := newFixture(t)

	status, body := f.post(t, "/v1/descriptions/optimize", `{"text":"we fix pipes"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "better: we fix pipes", body["description"])
}

func TestExecuteRecommendation(t *testing.T) {
	f := newFixture(t)

	status, body := f.post(t, "/v1/recommendations/execute", `{"recommendation":{"id":"d1","type":"optimize_description"},"profile":{"description":"old"}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new old", body["text"])

	status, _ = f.post(t, "/v1/recommendations/execute", `{"recommendation":{"id":"p1","type":"add_photos"},"profile":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestProposalSummary(t *testing.T) {
	f := newFixture(t)

	status, body := f.post(t, "/v1/proposals/summary", `{"lead":{"name":"Drip","opportunities":["Missing Website"]}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Drip", body["headline"])
	assert.Equal(t, true, body["placeholder"])
}

func TestFlattenReport(t *testing.T) {
	f := newFixture(t)
	reqBody := `{"profile":{"name":"Drip","rating":3.9,"totalReviews":12},"audit":{"score":58,"summary":"s","swot":{"strengths":[],"weaknesses":["Few reviews"],"opportunities":["Ask"],"threats":[]},"recommendations":[{"id":"1","type":"general","title":"Claim listing","description":"d","impact":"High","status":"pending"}]},"location":"Austin"}`

	status, body := f.post(t, "/v1/reports/flatten", reqBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["delivered"])
	rep := body["report"].(map[string]any)
	assert.Equal(t, "Drip", rep["businessName"])
	assert.Equal(t, []any{"Few reviews"}, rep["issues"])
	recs := rep["recommendations"].([]any)
	assert.Equal(t, "high", recs[0].(map[string]any)["priority"])

	status, body = f.post(t, "/v1/reports/flatten", strings.Replace(reqBody, `"location":"Austin"`, `"location":"Austin","deliver":true`, 1))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["delivered"])
	assert.Equal(t, "Austin", f.sink.got.Location)

	f.sink.err = errors.New("sink down")
	status, _ = f.post(t, "/v1/reports/flatten", strings.Replace(reqBody, `"location":"Austin"`, `"deliver":true`, 1))
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestFlattenReport_NoSink(t *testing.T) {
	h := &Handler{}
	srv := httptest.NewServer(NewRouter(h, nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/reports/flatten", "application/json", strings.NewReader(`{"profile":{},"deliver":true}`))
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+"/v1/leads/search", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
