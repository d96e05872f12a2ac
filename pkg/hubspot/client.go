// Package hubspot provides a client for the HubSpot CRM pipelines and search APIs.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://api.hubapi.com"
	defaultObjectType = "tickets"
)

// Client defines the HubSpot CRM operations used by the report.
type Client interface {
	// ListPipelines returns every pipeline defined for the client's object type.
	ListPipelines(ctx context.Context) ([]Pipeline, error)
	// Search runs one page of a CRM object search.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// Pipeline is a CRM pipeline with its ordered stages.
type Pipeline struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Stages []Stage `json:"stages"`
}

// Stage is a single pipeline stage.
type Stage struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type pipelinesResponse struct {
	Results []Pipeline `json:"results"`
}

// SearchRequest is the body for POST /crm/v3/objects/{objectType}/search.
type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Limit        int           `json:"limit"`
	Properties   []string      `json:"properties,omitempty"`
	After        string        `json:"after,omitempty"`
}

// FilterGroup is a set of filters combined with AND.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// Filter is a single property comparison.
type Filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Paging  *Paging        `json:"paging,omitempty"`
}

// SearchResult is a matched CRM object.
type SearchResult struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// Paging carries the cursor for the next page.
type Paging struct {
	Next *NextPage `json:"next,omitempty"`
}

// NextPage holds the opaque continuation cursor.
type NextPage struct {
	After string `json:"after"`
	Link  string `json:"link,omitempty"`
}

// NextAfter returns the continuation cursor, or "" on the last page.
func (r *SearchResponse) NextAfter() string {
	if r == nil || r.Paging == nil || r.Paging.Next == nil {
		return ""
	}
	return r.Paging.Next.After
}

// Option configures the HubSpot client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithObjectType overrides the CRM object type (default "tickets").
func WithObjectType(objectType string) Option {
	return func(c *httpClient) {
		if objectType != "" {
			c.objectType = objectType
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate (4 req/s). A value <= 0
// disables throttling.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	token      string
	baseURL    string
	objectType string
	http       *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a HubSpot client authenticated with a private app token.
// Calls are throttled to 4 req/s, the search API's per-account limit.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:      token,
		baseURL:    defaultBaseURL,
		objectType: defaultObjectType,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(4, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	var resp pipelinesResponse
	path := fmt.Sprintf("/crm/v3/pipelines/%s", c.objectType)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, eris.Wrap(err, "hubspot: list pipelines")
	}
	return resp.Results, nil
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	path := fmt.Sprintf("/crm/v3/objects/%s/search", c.objectType)
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, eris.Wrap(err, "hubspot: search")
	}
	return &resp, nil
}

// do sends one JSON request and decodes a 2xx response into out.
func (c *httpClient) do(ctx context.Context, method, path string, payload, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "hubspot: rate limit")
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return eris.Wrap(err, "hubspot: marshal request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "hubspot: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "hubspot: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "hubspot: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "hubspot: unmarshal response")
	}
	return nil
}
