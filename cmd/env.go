package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadaudit/internal/analysis"
	"github.com/sells-group/leadaudit/internal/discovery"
	"github.com/sells-group/leadaudit/internal/report"
	"github.com/sells-group/leadaudit/internal/resilience"
	"github.com/sells-group/leadaudit/pkg/google"
)

// newLeadFinder builds the discovery service from cfg.Google.
func newLeadFinder() *discovery.Service {
	places := google.NewClient(cfg.Google.Key, google.WithBaseURL(cfg.Google.BaseURL))
	return discovery.NewService(places, discovery.Settings{
		APIKey:     cfg.Google.Key,
		BaseURL:    cfg.Google.BaseURL,
		MaxResults: cfg.Google.MaxResults,
		RateLimit:  cfg.Google.RateLimit,
		PhotoMaxPx: cfg.Google.PhotoMaxPx,
	})
}

func newAnalysisClient(ctx context.Context) (*analysis.Client, error) {
	client, err := analysis.NewClientFromConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "init analysis client")
	}
	return client, nil
}

// newSink returns a webhook sink for url, or nil when url is empty.
func newSink(url string) report.Sink {
	if url == "" {
		return nil
	}
	backoff := resilience.NewBackoff(cfg.Report.MaxAttempts, cfg.Report.InitialBackoffMs)
	return report.NewWebhookSink(url, report.WithBackoff(backoff))
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
