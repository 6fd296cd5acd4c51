package provider

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/hunter"
)

// DomainSearch adapts the Hunter domain-search API to the provider
// contract.
type DomainSearch struct {
	client hunter.Client
}

// NewDomainSearch creates the domain-search adapter.
func NewDomainSearch(client hunter.Client) *DomainSearch {
	return &DomainSearch{client: client}
}

// Name implements Provider.
func (d *DomainSearch) Name() string {
	return NameDomainSearch
}

// Search implements Provider.
func (d *DomainSearch) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	limit := req.PageSize
	if limit <= 0 || limit > DefaultPageSize {
		limit = DefaultPageSize
	}

	resp, err := d.client.DomainSearch(ctx, hunter.DomainSearchRequest{
		Domain: req.Domain,
		Limit:  limit,
	})
	if err != nil {
		var apiErr *hunter.APIError
		if eris.As(err, &apiErr) {
			return nil, ClassifyStatus(NameDomainSearch, apiErr.StatusCode, apiErr.Body)
		}
		return nil, &UnavailableError{Provider: NameDomainSearch, Err: err}
	}

	companyName := req.CompanyName
	if companyName == "" {
		companyName = resp.Data.Organization
	}

	persons := make([]model.Person, 0, len(resp.Data.Emails))
	for _, row := range resp.Data.Emails {
		name := strings.TrimSpace(strings.TrimSpace(row.FirstName) + " " + strings.TrimSpace(row.LastName))
		if name == "" {
			// Generic addresses (info@, sales@) carry no person name; drop.
			continue
		}

		p := model.Person{
			ID:                 model.NewID(),
			Company:            companyName,
			CompanyID:          req.CompanyID,
			Name:               name,
			Title:              row.Position,
			Email:              strings.ToLower(row.Value),
			LinkedIn:           row.LinkedIn,
			Source:             model.SourceDomainSearch,
			VerificationStatus: model.VerificationUnverified,
		}

		switch {
		case row.Verification.Status == "valid":
			p.EmailCertainty = TierVerified
			p.EmailVerified = true
			p.EmailSource = "provider verified"
			p.VerificationStatus = model.VerificationVerified
		case row.Confidence >= 80:
			p.EmailCertainty = TierPattern
			p.EmailSource = "provider pattern match"
		default:
			p.EmailCertainty = TierUnconfirmed
			p.EmailSource = "provider listing, unconfirmed"
		}

		persons = append(persons, p)
	}

	zap.L().Debug("provider: domain search complete",
		zap.String("domain", req.Domain),
		zap.Int("rows", len(resp.Data.Emails)),
		zap.Int("persons", len(persons)),
		zap.String("pattern", resp.Data.Pattern),
	)

	return &SearchResult{Persons: persons, CreditsUsed: 1}, nil
}
