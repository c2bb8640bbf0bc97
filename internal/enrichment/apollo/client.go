// Package apollo provides the HTTP client for the bulk contact-search provider.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadflow_backend/internal/enrichment/provider"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 30 * time.Second

	// DefaultPerPage is used when no page size is requested; it is also
	// the provider's hard cap.
	DefaultPerPage = 100
)

// SearchFilter is the structured query for people search. Empty slices are
// omitted from the outgoing payload entirely: omission, not null, signals
// "no constraint" to the provider.
type SearchFilter struct {
	PersonTitles      []string `json:"person_titles,omitempty"`
	PersonSeniorities []string `json:"person_seniorities,omitempty"`
	PersonLocations   []string `json:"person_locations,omitempty"`

	OrganizationNames     []string `json:"organization_names,omitempty"`
	OrganizationLocations []string `json:"organization_locations,omitempty"`
	IndustryTagIDs        []string `json:"organization_industry_tag_ids,omitempty"`
	EmployeeRanges        []string `json:"organization_num_employees_ranges,omitempty"`

	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Pagination is echoed from the provider's search response.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// SearchResult carries the raw person records plus pagination metadata.
// Records are left untouched; mapping is the mapper package's job.
type SearchResult struct {
	People     []map[string]any
	Pagination Pagination
}

type searchResponse struct {
	People     []map[string]any `json:"people"`
	Pagination Pagination       `json:"pagination"`
}

// Client is the HTTP client for the people-search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a new search client. ratePerSecond bounds outgoing request
// rate; zero or negative disables client-side limiting.
func New(baseURL, apiKey string, ratePerSecond float64, log *logger.Logger) *Client {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    limiter,
		log:        log,
	}
}

// Search issues one filtered, paginated people-search request. Page defaults
// to 1 and the page size is clamped to the provider cap. The credential is
// checked before any network I/O.
func (c *Client) Search(ctx context.Context, filter SearchFilter) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, apperr.Internal("search provider not configured: missing API key")
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > DefaultPerPage {
		filter.PerPage = DefaultPerPage
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("marshal search filter: %w", err)
	}

	reqURL := c.baseURL + "/mixed_people/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("apollo search request failed", "error", err)
		return nil, fmt.Errorf("apollo search: %w", err)
	}
	defer resp.Body.Close()

	c.log.ProviderCall("apollo", "search", resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		provErr := provider.NewError("apollo", "search", resp.StatusCode, strings.TrimSpace(string(data)))
		return nil, apperr.Wrap(apperr.KindUpstream, "people search failed", provErr).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("apollo search decode failed", "error", err)
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &SearchResult{
		People:     payload.People,
		Pagination: payload.Pagination,
	}, nil
}
