package api

import (
	"net/http"

	"github.com/sells-group/leadaudit/internal/apperr"
	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/competitor"
	"github.com/sells-group/leadaudit/internal/discovery"
	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/internal/report"
)

type searchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location"`
}

func (h *Handler) searchLeads(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	leads, err := h.Leads.FindLeads(r.Context(), req.Query, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
}

// Profiles arrive as loose records and are normalized, so callers can post
// either a Places result or a BusinessProfile.
type auditRequest struct {
	Profile map[string]any `json:"profile"`
}

func (h *Handler) createAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Profile == nil {
		writeError(w, r, apperr.InvalidInput("profile is required."))
		return
	}
	res, err := h.Audits.AnalyzeProfile(r.Context(), discovery.NormalizeRecord(req.Profile))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) analyzeCompetitors(w http.ResponseWriter, r *http.Request) {
	var in competitor.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Competitors.AnalyzeCompetitors(r.Context(), in))
}

func (h *Handler) quickInsight(w http.ResponseWriter, r *http.Request) {
	var in competitor.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Competitors.QuickInsight(r.Context(), in))
}

type repliesRequest struct {
	ReviewID     string `json:"reviewId"`
	Author       string `json:"author"`
	Sentiment    string `json:"sentiment"`
	ReviewText   string `json:"reviewText,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
}

func (h *Handler) draftReplies(w http.ResponseWriter, r *http.Request) {
	var req repliesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	replies, err := h.Audits.DraftReviewReplies(r.Context(), audit.ReplyRequest{
		ReviewID:     req.ReviewID,
		Author:       req.Author,
		Sentiment:    model.Sentiment(req.Sentiment),
		ReviewText:   req.ReviewText,
		BusinessName: req.BusinessName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"replies": replies})
}

type describeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) optimizeDescription(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	text, err := h.Audits.OptimizeDescription(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": text})
}

type executeRequest struct {
	Recommendation model.Recommendation `json:"recommendation"`
	Profile        map[string]any       `json:"profile"`
}

func (h *Handler) executeRecommendation(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Actions.Execute(r.Context(), req.Recommendation, discovery.NormalizeRecord(req.Profile))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type proposalRequest struct {
	Lead model.Lead `json:"lead"`
}

func (h *Handler) proposalSummary(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Audits.ProposalSummary(r.Context(), req.Lead)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type flattenRequest struct {
	Profile  map[string]any     `json:"profile"`
	Audit    *model.AuditResult `json:"audit,omitempty"`
	Location string             `json:"location,omitempty"`
	Deliver  bool               `json:"deliver,omitempty"`
}

type flattenResponse struct {
	Report    report.Payload `json:"report"`
	Delivered bool           `json:"delivered"`
}

func (h *Handler) flattenReport(w http.ResponseWriter, r *http.Request) {
	var req flattenRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	payload := report.Flatten(discovery.NormalizeRecord(req.Profile), req.Audit, req.Location)
	if !req.Deliver {
		writeJSON(w, http.StatusOK, flattenResponse{Report: payload})
		return
	}

	if h.Sink == nil {
		writeError(w, r, apperr.InvalidInput("Report delivery is not configured."))
		return
	}
	if err := h.Sink.Deliver(r.Context(), payload); err != nil {
		writeError(w, r, apperr.Wrap(err, apperr.KindUpstreamUnavailable, "Report delivery failed. Please try again."))
		return
	}
	writeJSON(w, http.StatusOK, flattenResponse{Report: payload, Delivered: true})
}
