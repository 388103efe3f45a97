// Package api exposes the lead and audit operations over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/leadaudit/internal/action"
	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/competitor"
	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/internal/report"
)

// LeadFinder discovers scored leads.
type LeadFinder interface {
	FindLeads(ctx context.Context, query, location string) ([]model.Lead, error)
}

// Auditor runs profile audits and content generation.
type Auditor interface {
	AnalyzeProfile(ctx context.Context, p model.BusinessProfile) (*model.AuditResult, error)
	DraftReviewReplies(ctx context.Context, req audit.ReplyRequest) ([]string, error)
	OptimizeDescription(ctx context.Context, current string) (string, error)
	ProposalSummary(ctx context.Context, lead model.Lead) (*model.ProposalSummary, error)
}

// CompetitorAnalyzer builds competitor landscapes.
type CompetitorAnalyzer interface {
	AnalyzeCompetitors(ctx context.Context, in competitor.Input) competitor.Outcome
	QuickInsight(ctx context.Context, in competitor.Input) model.QuickInsight
}

// ActionExecutor generates content for recommendations.
type ActionExecutor interface {
	Execute(ctx context.Context, rec model.Recommendation, profile model.BusinessProfile) (*action.Result, error)
}

// Handler serves the HTTP API. Sink may be nil when report delivery is not
// configured.
type Handler struct {
	Leads       LeadFinder
	Audits      Auditor
	Competitors CompetitorAnalyzer
	Actions     ActionExecutor
	Sink        report.Sink
}

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// NewRouter wires routes and middleware.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/leads/search", h.searchLeads)
		r.Post("/audits", h.createAudit)
		r.Post("/competitors", h.analyzeCompetitors)
		r.Post("/competitors/quick", h.quickInsight)
		r.Post("/reviews/replies", h.draftReplies)
		r.Post("/descriptions/optimize", h.optimizeDescription)
		r.Post("/recommendations/execute", h.executeRecommendation)
		r.Post("/proposals/summary", h.proposalSummary)
		r.Post("/reports/flatten", h.flattenReport)
	})

	return r
}

// requestLogger logs one line per request with the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
