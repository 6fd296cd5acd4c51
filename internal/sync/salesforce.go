package sync

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/salesforce"
)

// leadSource is stamped on every pushed lead so reps can tell pipeline
// output from hand-entered records.
const leadSource = "Contact Pipeline"

// SalesforceTarget pushes contacts as Salesforce Leads.
type SalesforceTarget struct {
	client salesforce.Client
}

// NewSalesforceTarget creates a Salesforce sync target.
func NewSalesforceTarget(client salesforce.Client) *SalesforceTarget {
	return &SalesforceTarget{client: client}
}

func (t *SalesforceTarget) Name() string { return "salesforce" }

// PushContacts upserts persons as Leads: existing Leads (matched by
// email) are updated in place, the rest are inserted in one collection
// call. Salesforce requires LastName and Company; persons missing either
// are skipped.
func (t *SalesforceTarget) PushContacts(ctx context.Context, persons []model.Person) (*Result, error) {
	result := &Result{Target: t.Name()}

	type lead struct {
		email  string
		fields map[string]any
	}
	var leads []lead
	var emails []string
	for _, p := range persons {
		first, last := model.SplitName(p.Name)
		if last == "" {
			// Single-token names go into LastName, SF's only required name field.
			first, last = "", first
		}
		if last == "" || p.Company == "" {
			result.Skipped++
			continue
		}
		if p.Email != "" {
			emails = append(emails, p.Email)
		}
		leads = append(leads, lead{
			email: strings.ToLower(p.Email),
			fields: map[string]any{
				"FirstName":   first,
				"LastName":    last,
				"Title":       p.Title,
				"Email":       p.Email,
				"Company":     p.Company,
				"LeadSource":  leadSource,
				"Description": "email certainty " + strconv.Itoa(p.EmailCertainty) + " (" + p.EmailSource + ")",
			},
		})
	}
	if len(leads) == 0 {
		return result, nil
	}

	existing, err := salesforce.FindLeadsByEmail(ctx, t.client, emails)
	if err != nil {
		return nil, eris.Wrap(err, "sync: salesforce existing leads")
	}

	var records []map[string]any
	for _, l := range leads {
		id := existing[l.email]
		if id == "" {
			records = append(records, l.fields)
			continue
		}
		if err := t.client.UpdateOne(ctx, "Lead", id, l.fields); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		result.Updated++
	}

	if len(records) > 0 {
		results, err := t.client.InsertCollection(ctx, "Lead", records)
		if err != nil {
			return nil, eris.Wrap(err, "sync: salesforce insert leads")
		}
		for _, r := range results {
			if r.Success {
				result.Pushed++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, r.Errors...)
		}
	}

	zap.L().Info("sync: salesforce push complete",
		zap.Int("pushed", result.Pushed),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
