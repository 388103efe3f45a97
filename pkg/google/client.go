// Package google wraps the Google Places API (v1) text search.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// MaxResultCount is the largest page size the Places text search accepts.
const MaxResultCount = 20

// searchFieldMask lists the place fields requested from text search.
var searchFieldMask = strings.Join([]string{
	"places.id",
	"places.name",
	"places.displayName",
	"places.formattedAddress",
	"places.rating",
	"places.userRatingCount",
	"places.websiteUri",
	"places.nationalPhoneNumber",
	"places.types",
	"places.photos",
}, ",")

// Client performs Google Places API operations.
type Client interface {
	SearchText(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest is the body of a Places text search.
type SearchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount,omitempty"`
}

// SearchResponse is the response from Places text search.
type SearchResponse struct {
	Places []Place `json:"places"`
}

// Place represents a place returned by the API. Every field may be absent.
type Place struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"` // resource name, "places/{id}"
	DisplayName         DisplayName `json:"displayName"`
	FormattedAddress    string      `json:"formattedAddress"`
	Rating              float64     `json:"rating"`
	UserRatingCount     int         `json:"userRatingCount"`
	WebsiteURI          string      `json:"websiteUri"`
	NationalPhoneNumber string      `json:"nationalPhoneNumber"`
	Types               []string    `json:"types"`
	Photos              []Photo     `json:"photos"`
}

// DisplayName holds the place's display name.
type DisplayName struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Photo references a place photo by resource name.
type Photo struct {
	Name     string `json:"name"` // "places/{id}/photos/{ref}"
	WidthPx  int    `json:"widthPx,omitempty"`
	HeightPx int    `json:"heightPx,omitempty"`
}

// APIError is returned when the API answers with a non-200 status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Google Places API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchText(ctx context.Context, sr SearchRequest) (*SearchResponse, error) {
	if sr.MaxResultCount <= 0 || sr.MaxResultCount > MaxResultCount {
		sr.MaxResultCount = MaxResultCount
	}

	body, err := json.Marshal(sr)
	if err != nil {
		return nil, eris.Wrap(err, "google: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "google: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "google: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "google: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "google: unmarshal response")
	}

	return &result, nil
}

// PhotoURL builds a media URL for a photo resource name under baseURL (the
// public endpoint when empty). The URL embeds the API key, so it must only be
// handed to trusted callers.
func PhotoURL(baseURL, photoName string, maxPx int, apiKey string) string {
	if photoName == "" {
		return ""
	}
	if maxPx <= 0 {
		maxPx = 400
	}
	q := url.Values{}
	q.Set("maxHeightPx", fmt.Sprint(maxPx))
	q.Set("maxWidthPx", fmt.Sprint(maxPx))
	q.Set("key", apiKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(photoName, "/") + "/media?" + q.Encode()
}
