package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/hunter"
)

const hunterDomainJSON = `{
	"data": {
		"domain": "acme.com",
		"organization": "Acme",
		"pattern": "{first}.{last}",
		"emails": [
			{"value": "Ana.Li@acme.com", "type": "personal", "confidence": 97,
			 "first_name": "Ana", "last_name": "Li", "position": "VP Sales",
			 "verification": {"status": "valid", "date": "2026-08-01"}},
			{"value": "bob.ray@acme.com", "type": "personal", "confidence": 85,
			 "first_name": "Bob", "last_name": "Ray", "position": "CTO",
			 "verification": {"status": "unknown"}},
			{"value": "info@acme.com", "type": "generic", "confidence": 90,
			 "first_name": "", "last_name": "",
			 "verification": {"status": "valid"}},
			{"value": "cam.diaz@acme.com", "type": "personal", "confidence": 40,
			 "first_name": "Cam", "last_name": "Diaz", "position": "CFO",
			 "verification": {"status": ""}}
		]
	},
	"meta": {"results": 4, "limit": 10, "offset": 0}
}`

func newDomainSearch(t *testing.T, handler http.HandlerFunc) *DomainSearch {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewDomainSearch(hunter.NewClient("test-key", hunter.WithBaseURL(srv.URL)))
}

func TestDomainSearch_NormalizesRows(t *testing.T) {
	adapter := newDomainSearch(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(hunterDomainJSON))
	})

	res, err := adapter.Search(context.Background(), SearchRequest{
		Domain:      "acme.com",
		CompanyName: "Acme",
		CompanyID:   "c1",
	})
	require.NoError(t, err)

	// The generic info@ row has no name and is dropped.
	require.Len(t, res.Persons, 3)

	ana := res.Persons[0]
	assert.Equal(t, "Ana Li", ana.Name)
	assert.Equal(t, "ana.li@acme.com", ana.Email)
	assert.Equal(t, TierVerified, ana.EmailCertainty)
	assert.True(t, ana.EmailVerified)
	assert.Equal(t, model.SourceDomainSearch, ana.Source)

	bob := res.Persons[1]
	assert.Equal(t, TierPattern, bob.EmailCertainty)
	assert.False(t, bob.EmailVerified)

	cam := res.Persons[2]
	assert.Equal(t, TierUnconfirmed, cam.EmailCertainty)
}

func TestDomainSearch_ErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, IsAuth},
		{http.StatusUnprocessableEntity, IsRequestFormat},
		{http.StatusTooManyRequests, IsRateLimited},
	}
	for _, tt := range tests {
		adapter := newDomainSearch(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := adapter.Search(context.Background(), SearchRequest{Domain: "acme.com"})
		require.Error(t, err)
		assert.True(t, tt.check(err), "status %d classified as %v", tt.status, err)
	}
}
