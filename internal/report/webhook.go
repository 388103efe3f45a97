package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadaudit/internal/resilience"
)

// Sink receives flattened reports.
type Sink interface {
	Deliver(ctx context.Context, p Payload) error
}

// WebhookSink POSTs payloads as JSON to a fixed URL.
type WebhookSink struct {
	url     string
	http    *http.Client
	backoff resilience.Backoff
}

// WebhookOption configures a WebhookSink.
type WebhookOption func(*WebhookSink)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) WebhookOption {
	return func(s *WebhookSink) { s.http = hc }
}

// WithBackoff overrides the retry schedule.
func WithBackoff(b resilience.Backoff) WebhookOption {
	return func(s *WebhookSink) { s.backoff = b }
}

// NewWebhookSink creates a WebhookSink.
func NewWebhookSink(url string, opts ...WebhookOption) *WebhookSink {
	s := &WebhookSink{
		url:     url,
		http:    &http.Client{Timeout: 15 * time.Second},
		backoff: resilience.DefaultBackoff(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deliver sends p, retrying transient failures.
func (s *WebhookSink) Deliver(ctx context.Context, p Payload) error {
	if s.url == "" {
		return eris.New("report: webhook url is not configured")
	}

	body, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "report: marshal payload")
	}

	err = resilience.Do(ctx, s.backoff, "report.deliver", func(ctx context.Context) error {
		return s.post(ctx, body)
	})
	if err != nil {
		return eris.Wrap(err, "report: deliver")
	}

	zap.L().Info("report delivered", zap.String("business", p.BusinessName), zap.Int("bytes", len(body)))
	return nil
}

func (s *WebhookSink) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "report: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "report: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	statusErr := fmt.Errorf("report: sink returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	if resilience.IsTransientStatus(resp.StatusCode) {
		return resilience.NewTransientError(statusErr, resp.StatusCode)
	}
	return statusErr
}
