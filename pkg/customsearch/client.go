// Package customsearch provides a client for the Google Custom Search JSON
// API, used to pre-fetch web results for injection into extraction prompts.
package customsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// maxResultsPerQuery is the API's hard cap on num.
const maxResultsPerQuery = 10

// Client performs Custom Search queries.
type Client interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// Result is a single search result.
type Result struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
}

type searchResponse struct {
	SearchInformation struct {
		TotalResults string  `json:"totalResults"`
		SearchTime   float64 `json:"searchTime"`
	} `json:"searchInformation"`
	Items []Result `json:"items"`
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

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

type httpClient struct {
	apiKey   string
	engineID string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a Custom Search client. The free tier allows 100 queries
// per day, so requests are rate limited conservatively by default.
func NewClient(apiKey, engineID string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		engineID: engineID,
		baseURL:  defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, eris.New("customsearch: api key and engine id are required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "customsearch: rate limit wait")
	}

	if numResults <= 0 || numResults > maxResultsPerQuery {
		numResults = maxResultsPerQuery
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", numResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "customsearch: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "customsearch: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "customsearch: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("customsearch: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "customsearch: unmarshal response")
	}

	return result.Items, nil
}
