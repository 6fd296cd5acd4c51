package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/apollo"
)

const apolloPeopleJSON = `{
	"people": [
		{"id": "p1", "first_name": "Ana", "last_name": "Li", "name": "Ana Li",
		 "title": "VP Sales", "email": "Ana.Li@acme.com", "email_status": "verified",
		 "linkedin_url": "https://linkedin.com/in/anali",
		 "organization": {"name": "Acme", "primary_domain": "acme.com"}},
		{"id": "p2", "first_name": "Bob", "last_name": "Ray",
		 "title": "CTO", "email": "bob@acme.com", "email_status": "guessed",
		 "organization": {"name": "Acme"}},
		{"id": "p3", "first_name": "", "last_name": "", "name": "",
		 "title": "Unknown", "email": "mystery@acme.com", "email_status": "verified",
		 "organization": {"name": "Acme"}},
		{"id": "p4", "first_name": "Cam", "last_name": "Diaz",
		 "title": "CFO", "email": "cam@acme.com", "email_status": "unavailable",
		 "organization": {"name": "Acme"}}
	],
	"pagination": {"page": 1, "per_page": 10, "total_entries": 4, "total_pages": 1}
}`

func newStructuredSearch(t *testing.T, handler http.HandlerFunc) *StructuredSearch {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStructuredSearch(apollo.NewClient("test-key", apollo.WithBaseURL(srv.URL)))
}

func TestStructuredSearch_NormalizesRows(t *testing.T) {
	adapter := newStructuredSearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mixed_people/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Write([]byte(apolloPeopleJSON))
	})

	res, err := adapter.Search(context.Background(), SearchRequest{
		Domain:       "acme.com",
		CompanyName:  "Acme",
		CompanyID:    "c1",
		TargetTitles: []string{"VP Sales", "CTO"},
	})
	require.NoError(t, err)

	// Row without a usable name is dropped silently.
	require.Len(t, res.Persons, 3)
	assert.Equal(t, 1, res.CreditsUsed)

	ana := res.Persons[0]
	assert.Equal(t, "Ana Li", ana.Name)
	assert.Equal(t, "ana.li@acme.com", ana.Email)
	assert.Equal(t, TierVerified, ana.EmailCertainty)
	assert.True(t, ana.EmailVerified)
	assert.Equal(t, model.VerificationVerified, ana.VerificationStatus)
	assert.Equal(t, model.SourceStructuredSearch, ana.Source)
	assert.Equal(t, "c1", ana.CompanyID)

	bob := res.Persons[1]
	assert.Equal(t, TierPattern, bob.EmailCertainty)
	assert.False(t, bob.EmailVerified)

	cam := res.Persons[2]
	assert.Equal(t, TierUnconfirmed, cam.EmailCertainty)
	assert.False(t, cam.EmailVerified)
}

func TestStructuredSearch_ErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, IsAuth},
		{http.StatusUnprocessableEntity, IsRequestFormat},
		{http.StatusTooManyRequests, IsRateLimited},
	}
	for _, tt := range tests {
		adapter := newStructuredSearch(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := adapter.Search(context.Background(), SearchRequest{Domain: "acme.com"})
		require.Error(t, err, "status %d", tt.status)
		assert.True(t, tt.check(err), "status %d classified as %v", tt.status, err)
	}
}

func TestStructuredSearch_ServerErrorIsUnavailable(t *testing.T) {
	adapter := newStructuredSearch(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := adapter.Search(context.Background(), SearchRequest{Domain: "acme.com"})
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestStructuredSearch_EmptyResults(t *testing.T) {
	adapter := newStructuredSearch(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"people": [], "pagination": {"page": 1}}`))
	})
	res, err := adapter.Search(context.Background(), SearchRequest{Domain: "acme.com"})
	require.NoError(t, err)
	assert.Empty(t, res.Persons)
}
