// Package hunter provides a client for the Hunter domain-search API.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/erictisme/outreach-ai-sub002/internal/resilience"
)

// Client defines the Hunter operations used by the pipeline.
type Client interface {
	// DomainSearch lists email addresses found for a domain.
	DomainSearch(ctx context.Context, req DomainSearchRequest) (*DomainSearchResponse, error)
}

// DomainSearchRequest is a domain-search query.
type DomainSearchRequest struct {
	Domain string
	Limit  int
	// Seniority narrows results ("senior", "executive"); optional.
	Seniority string
}

// DomainSearchResponse is the parsed domain-search response.
type DomainSearchResponse struct {
	Data DomainData `json:"data"`
	Meta Meta       `json:"meta"`
}

// DomainData holds the domain-level block of a response.
type DomainData struct {
	Domain       string        `json:"domain"`
	Organization string        `json:"organization"`
	Pattern      string        `json:"pattern"` // e.g. "{first}.{last}"
	Emails       []EmailRecord `json:"emails"`
}

// EmailRecord is one address found for the domain.
type EmailRecord struct {
	Value        string       `json:"value"`
	Type         string       `json:"type"` // "personal" or "generic"
	Confidence   int          `json:"confidence"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Position     string       `json:"position"`
	LinkedIn     string       `json:"linkedin"`
	Verification Verification `json:"verification"`
}

// Verification is Hunter's own deliverability assessment.
type Verification struct {
	Status string `json:"status"` // "valid", "accept_all", "unknown", ""
	Date   string `json:"date"`
}

// Meta holds result counts and paging offsets.
type Meta struct {
	Results int `json:"results"`
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
}

// APIError is a non-2xx response from Hunter. Callers classify it by
// status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hunter: status %d: %s", e.StatusCode, e.Body)
}

// Option configures the Hunter client.
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

// NewClient creates a Hunter client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.hunter.io/v2",
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) DomainSearch(ctx context.Context, req DomainSearchRequest) (*DomainSearchResponse, error) {
	q := url.Values{}
	q.Set("domain", req.Domain)
	q.Set("api_key", c.apiKey)
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Seniority != "" {
		q.Set("seniority", req.Seniority)
	}

	// Transport-level failures get one quick retry; API statuses are
	// returned as-is for the provider layer to classify.
	body, err := resilience.DoVal(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) ([]byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/domain-search?"+q.Encode(), nil)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: create request")
		}
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: request failed")
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "hunter: read response body")
		}

		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	var result DomainSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal response")
	}
	return &result, nil
}
