// Package discovery finds candidate businesses for a query and location and
// ranks them by lead score.
package discovery

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadaudit/internal/apperr"
	"github.com/sells-group/leadaudit/internal/model"
	"github.com/sells-group/leadaudit/internal/scorer"
	"github.com/sells-group/leadaudit/pkg/google"
)

// User-facing failure messages.
const (
	msgEmptyQuery    = "Search query is required."
	msgRejectedQuery = "The directory rejected the search query."
	msgUnavailable   = "Business search is temporarily unavailable. Please try again."
)

var searchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "leadaudit_discovery_searches_total",
		Help: "Directory searches by outcome",
	},
	[]string{"outcome"},
)

// Settings tunes a Service.
type Settings struct {
	APIKey     string  // embedded in photo URLs
	BaseURL    string  // Places endpoint photo URLs are built under
	MaxResults int     // per search, at most google.MaxResultCount
	RateLimit  float64 // searches per second, shared by all callers
	PhotoMaxPx int
}

// Service discovers and scores leads.
type Service struct {
	places   google.Client
	limiter  *rate.Limiter
	settings Settings
}

// NewService creates a Service.
func NewService(places google.Client, s Settings) *Service {
	if s.RateLimit <= 0 {
		s.RateLimit = 5
	}
	if s.MaxResults <= 0 || s.MaxResults > google.MaxResultCount {
		s.MaxResults = google.MaxResultCount
	}
	return &Service{
		places:   places,
		limiter:  rate.NewLimiter(rate.Limit(s.RateLimit), 1),
		settings: s,
	}
}

// FindLeads searches the directory once for query in location, normalizes
// and scores each candidate, and returns them ordered by descending score.
// Candidates with equal scores keep the order the directory returned.
func (s *Service) FindLeads(ctx context.Context, query, location string) ([]model.Lead, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" {
		return nil, apperr.InvalidInput(msgEmptyQuery)
	}

	textQuery := query
	if location != "" {
		textQuery = query + " in " + location
	}

	log := zap.L().With(zap.String("component", "discovery"), zap.String("query", textQuery))
	start := time.Now()

	if err := s.limiter.Wait(ctx); err != nil {
		searchesTotal.WithLabelValues("failed").Inc()
		return nil, apperr.Wrap(err, apperr.KindUpstreamUnavailable, msgUnavailable)
	}

	resp, err := s.places.SearchText(ctx, google.SearchRequest{
		TextQuery:      textQuery,
		MaxResultCount: s.settings.MaxResults,
	})
	if err != nil {
		searchesTotal.WithLabelValues("failed").Inc()
		log.Error("directory search failed", zap.Error(err))
		return nil, classify(err)
	}

	leads := s.rank(ctx, resp.Places)
	searchesTotal.WithLabelValues("ok").Inc()
	log.Info("discovery complete",
		zap.Int("candidates", len(resp.Places)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return leads, nil
}

// rank normalizes and scores places in parallel, then sorts.
func (s *Service) rank(ctx context.Context, places []google.Place) []model.Lead {
	leads := make([]model.Lead, len(places))
	ids := placeIDs(places)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range places {
		g.Go(func() error {
			leads[i] = s.toLead(ids[i], places[i])
			return nil
		})
	}
	_ = g.Wait() // toLead cannot fail

	sort.SliceStable(leads, func(a, b int) bool {
		return leads[a].LeadScore > leads[b].LeadScore
	})
	return leads
}

func (s *Service) toLead(id string, p google.Place) model.Lead {
	profile := NormalizePlace(p)
	score := scorer.ScoreLead(profile)

	lead := model.Lead{
		BusinessProfile: profile,
		PlaceID:         id,
		LeadScore:       score.Score,
		Tier:            score.Tier,
		Opportunities:   score.Opportunities,
	}
	if len(profile.Photos) > 0 {
		urls := make([]string, len(profile.Photos))
		for i, name := range profile.Photos {
			urls[i] = google.PhotoURL(s.settings.BaseURL, name, s.settings.PhotoMaxPx, s.settings.APIKey)
		}
		lead.Photos = urls
		lead.PhotoURL = urls[0]
	}
	return lead
}

// placeIDs picks a unique id per place: the place id, else the resource
// name, else a random one. Repeats get a fresh random id.
func placeIDs(places []google.Place) []string {
	ids := make([]string, len(places))
	seen := make(map[string]bool, len(places))
	for i, p := range places {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			id = strings.TrimPrefix(strings.TrimSpace(p.Name), "places/")
		}
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		ids[i] = id
	}
	return ids
}

// classify maps a directory failure onto a domain error. A rejected request
// is the caller's problem; everything else is an upstream outage.
func classify(err error) error {
	var apiErr *google.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		return apperr.Wrap(err, apperr.KindInvalidInput, msgRejectedQuery)
	}
	return apperr.Wrap(err, apperr.KindUpstreamUnavailable, msgUnavailable)
}
