// Package apollo provides a client for the Apollo people-search API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/erictisme/outreach-ai-sub002/internal/resilience"
)

// Client defines the Apollo operations used by the pipeline.
type Client interface {
	// SearchPeople runs a mixed people search filtered by organization
	// domain and titles.
	SearchPeople(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest is a people-search query.
type SearchRequest struct {
	OrganizationDomains []string `json:"q_organization_domains_list,omitempty"`
	PersonTitles        []string `json:"person_titles,omitempty"`
	Page                int      `json:"page,omitempty"`
	PerPage             int      `json:"per_page,omitempty"`
}

// SearchResponse is the parsed people-search response.
type SearchResponse struct {
	People     []PersonRecord `json:"people"`
	Pagination Pagination     `json:"pagination"`
}

// PersonRecord is one row from Apollo's people search.
type PersonRecord struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Name         string       `json:"name"`
	Title        string       `json:"title"`
	Email        string       `json:"email"`
	EmailStatus  string       `json:"email_status"` // "verified", "guessed", "unavailable"
	LinkedInURL  string       `json:"linkedin_url"`
	Organization Organization `json:"organization"`
}

// Organization is the company block attached to a person row.
type Organization struct {
	Name          string `json:"name"`
	WebsiteURL    string `json:"website_url"`
	PrimaryDomain string `json:"primary_domain"`
}

// Pagination holds paging metadata.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// APIError is a non-2xx response from Apollo. Callers classify it by
// status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apollo: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the Apollo client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
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

// NewClient creates an Apollo client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.apollo.io/api/v1",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchPeople(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal request")
	}

	// Transport-level failures get one quick retry; API statuses are
	// returned as-is for the provider layer to classify.
	body, err := resilience.DoVal(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) ([]byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/mixed_people/search", bytes.NewReader(payload))
		if err != nil {
			return nil, eris.Wrap(err, "apollo: create request")
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Cache-Control", "no-cache")
		httpReq.Header.Set("X-Api-Key", c.apiKey)

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "apollo: request failed")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "apollo: read response body")
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: unmarshal response")
	}
	return &result, nil
}
