package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/salesforce"
)

type mockSFClient struct {
	inserted []map[string]any
	updated  map[string]map[string]any // lead ID → fields
	existing []salesforce.Lead         // canned query answer
	results  []salesforce.CollectionResult
	err      error
	soql     string
}

func (m *mockSFClient) Query(_ context.Context, soql string, out any) error {
	m.soql = soql
	leads := out.(*[]salesforce.Lead)
	*leads = m.existing
	return nil
}

func (m *mockSFClient) InsertCollection(_ context.Context, _ string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	m.inserted = records
	if m.err != nil {
		return nil, m.err
	}
	if m.results != nil {
		return m.results, nil
	}
	results := make([]salesforce.CollectionResult, len(records))
	for i := range records {
		results[i] = salesforce.CollectionResult{ID: "lead-" + records[i]["LastName"].(string), Success: true}
	}
	return results, nil
}

func (m *mockSFClient) UpdateOne(_ context.Context, _, id string, fields map[string]any) error {
	if m.updated == nil {
		m.updated = make(map[string]map[string]any)
	}
	m.updated[id] = fields
	return nil
}

func TestSalesforcePush(t *testing.T) {
	mock := &mockSFClient{}
	target := NewSalesforceTarget(mock)

	res, err := target.PushContacts(context.Background(), []model.Person{
		{Name: "Alice Wong", Title: "VP Ops", Company: "Acme", Email: "alice.wong@acme.com", EmailCertainty: 100, EmailSource: "provider verified"},
		{Name: "Bob Stone", Company: "Acme", Email: "bob.stone@acme.com", EmailCertainty: 50},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pushed)
	assert.Zero(t, res.Failed)
	require.Len(t, mock.inserted, 2)

	lead := mock.inserted[0]
	assert.Equal(t, "Alice", lead["FirstName"])
	assert.Equal(t, "Wong", lead["LastName"])
	assert.Equal(t, "Acme", lead["Company"])
	assert.Equal(t, "Contact Pipeline", lead["LeadSource"])
	assert.Contains(t, lead["Description"], "100")
}

func TestSalesforcePush_SkipsUnrepresentable(t *testing.T) {
	mock := &mockSFClient{}
	target := NewSalesforceTarget(mock)

	res, err := target.PushContacts(context.Background(), []model.Person{
		{Name: "Cher", Company: "Acme"},     // single-token name goes to LastName
		{Name: "Dana Fox", Company: ""},     // no company, skipped
		{Name: "", Company: "Acme"},         // no name, skipped
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pushed)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, mock.inserted, 1)
	assert.Equal(t, "Cher", mock.inserted[0]["LastName"])
	assert.Equal(t, "", mock.inserted[0]["FirstName"])
}

func TestSalesforcePush_PartialFailure(t *testing.T) {
	mock := &mockSFClient{results: []salesforce.CollectionResult{
		{ID: "lead-1", Success: true},
		{Success: false, Errors: []string{"REQUIRED_FIELD_MISSING"}},
	}}
	target := NewSalesforceTarget(mock)

	res, err := target.PushContacts(context.Background(), []model.Person{
		{Name: "Alice Wong", Company: "Acme"},
		{Name: "Bob Stone", Company: "Beta"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pushed)
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, res.Errors, "REQUIRED_FIELD_MISSING")
}

func TestSalesforcePush_UpdatesExistingLead(t *testing.T) {
	mock := &mockSFClient{existing: []salesforce.Lead{
		{ID: "lead-9", Email: "alice.wong@acme.com"},
	}}
	target := NewSalesforceTarget(mock)

	res, err := target.PushContacts(context.Background(), []model.Person{
		{Name: "Alice Wong", Title: "VP Ops", Company: "Acme", Email: "alice.wong@acme.com", EmailCertainty: 100},
		{Name: "Bob Stone", Company: "Acme", Email: "bob.stone@acme.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Pushed)
	assert.Contains(t, mock.soql, "'alice.wong@acme.com'")

	require.Contains(t, mock.updated, "lead-9")
	assert.Equal(t, "VP Ops", mock.updated["lead-9"]["Title"])

	// Only the unmatched person is inserted.
	require.Len(t, mock.inserted, 1)
	assert.Equal(t, "Stone", mock.inserted[0]["LastName"])
}

func TestSalesforcePush_NothingToPush(t *testing.T) {
	mock := &mockSFClient{}
	target := NewSalesforceTarget(mock)

	res, err := target.PushContacts(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Pushed)
	assert.Nil(t, mock.inserted)
}
