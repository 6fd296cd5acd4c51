package provider

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/apollo"
)

// StructuredSearch adapts the Apollo people-search API to the provider
// contract.
type StructuredSearch struct {
	client apollo.Client
}

// NewStructuredSearch creates the structured-search adapter.
func NewStructuredSearch(client apollo.Client) *StructuredSearch {
	return &StructuredSearch{client: client}
}

// Name implements Provider.
func (s *StructuredSearch) Name() string {
	return NameStructuredSearch
}

// Search implements Provider.
func (s *StructuredSearch) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}

	resp, err := s.client.SearchPeople(ctx, apollo.SearchRequest{
		OrganizationDomains: []string{req.Domain},
		PersonTitles:        req.TargetTitles,
		Page:                1,
		PerPage:             pageSize,
	})
	if err != nil {
		var apiErr *apollo.APIError
		if eris.As(err, &apiErr) {
			return nil, ClassifyStatus(NameStructuredSearch, apiErr.StatusCode, apiErr.Body)
		}
		return nil, &UnavailableError{Provider: NameStructuredSearch, Err: err}
	}

	persons := make([]model.Person, 0, len(resp.People))
	for _, row := range resp.People {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = strings.TrimSpace(strings.TrimSpace(row.FirstName) + " " + strings.TrimSpace(row.LastName))
		}
		if name == "" {
			// Rows without a usable name are dropped, not errors.
			continue
		}

		companyName := req.CompanyName
		if companyName == "" {
			companyName = row.Organization.Name
		}

		p := model.Person{
			ID:                 model.NewID(),
			Company:            companyName,
			CompanyID:          req.CompanyID,
			Name:               name,
			Title:              row.Title,
			LinkedIn:           row.LinkedInURL,
			Source:             model.SourceStructuredSearch,
			VerificationStatus: model.VerificationUnverified,
		}

		if row.Email != "" {
			p.Email = strings.ToLower(row.Email)
			switch row.EmailStatus {
			case "verified":
				p.EmailCertainty = TierVerified
				p.EmailVerified = true
				p.EmailSource = "provider verified"
				p.VerificationStatus = model.VerificationVerified
			case "guessed":
				p.EmailCertainty = TierPattern
				p.EmailSource = "provider pattern match"
			default:
				p.EmailCertainty = TierUnconfirmed
				p.EmailSource = "provider listing, unconfirmed"
			}
		}

		persons = append(persons, p)
	}

	zap.L().Debug("provider: structured search complete",
		zap.String("domain", req.Domain),
		zap.Int("rows", len(resp.People)),
		zap.Int("persons", len(persons)),
	)

	return &SearchResult{Persons: persons, CreditsUsed: 1}, nil
}
