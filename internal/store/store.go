package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// CompanyFilter specifies criteria for listing companies.
type CompanyFilter struct {
	VerificationStatus model.VerificationStatus `json:"verification_status,omitempty"`
	Limit              int                      `json:"limit,omitempty"`
	Offset             int                      `json:"offset,omitempty"`
}

// PersonFilter specifies criteria for listing persons.
type PersonFilter struct {
	CompanyID    string `json:"company_id,omitempty"`
	MinCertainty int    `json:"min_certainty,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for the contact pipeline. The
// discovery and verification passes read companies and write back enriched
// persons; writes are upserts keyed by record ID.
type Store interface {
	// Companies
	UpsertCompany(ctx context.Context, c model.Company) error
	GetCompany(ctx context.Context, id string) (*model.Company, error)
	ListCompanies(ctx context.Context, filter CompanyFilter) ([]model.Company, error)

	// Persons
	UpsertPersons(ctx context.Context, persons []model.Person) error
	ListPersons(ctx context.Context, filter PersonFilter) ([]model.Person, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the configured backend, migrated and ready.
func Open(ctx context.Context, driver, databaseURL string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch driver {
	case "sqlite", "":
		s, err = NewSQLite(databaseURL)
	case "postgres":
		s, err = NewPostgres(ctx, databaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
