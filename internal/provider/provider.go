// Package provider wraps the external contact-data sources behind a
// uniform search contract and a shared error taxonomy.
package provider

import (
	"context"
	"sync"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// Provider names. These double as the person Source values the waterfall
// tags results with.
const (
	NameStructuredSearch = "structured-search"
	NameDomainSearch     = "domain-search"
	NameScraper          = "scraper"
)

// Certainty tiers derived from a provider's own confidence signals.
const (
	TierVerified    = 100 // provider asserts deliverability
	TierPattern     = 75  // provider pattern-matched the address
	TierUnconfirmed = 60  // address present but unconfirmed
)

// DefaultPageSize caps per-request result counts for cost control.
const DefaultPageSize = 10

// SearchRequest asks a provider for contacts at one company domain.
type SearchRequest struct {
	Domain       string
	CompanyName  string
	CompanyID    string
	TargetTitles []string
	PageSize     int
}

// SearchResult is a provider's normalized answer for one company.
type SearchResult struct {
	Persons     []model.Person
	CreditsUsed int
}

// Provider is the uniform adapter contract. Implementations normalize
// heterogeneous person shapes into model.Person, drop rows without a
// usable name, and surface failures through the package error taxonomy.
type Provider interface {
	Name() string
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

// Registry holds the adapters configured for a run, keyed by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a provider by name, or nil if not found.
func (r *Registry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
