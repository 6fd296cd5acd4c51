// Package model defines the core records shared across the contact pipeline.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus tracks whether a record has been checked against an
// external source.
type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "verified"
	VerificationUnverified VerificationStatus = "unverified"
	VerificationFailed     VerificationStatus = "failed"
)

// ContactSource identifies where a person record came from.
type ContactSource string

const (
	SourceStructuredSearch ContactSource = "structured-search"
	SourceDomainSearch     ContactSource = "domain-search"
	SourceScraper          ContactSource = "scraper"
	SourceImport           ContactSource = "import"
	SourceManual           ContactSource = "manual"
	SourceAIGuess          ContactSource = "ai-guess"
)

// Company is a target company to source contacts for.
//
// Domain, when non-empty, is always derived from Website by the domain
// resolver — provider responses never write it directly.
type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Domain      string `json:"domain,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Relevance   string `json:"relevance,omitempty"`

	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	VerificationSource string             `json:"verification_source,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	WebsiteAccessible  bool               `json:"website_accessible,omitempty"`

	// Custom holds user-defined columns that ride along with the record.
	Custom map[string]string `json:"custom,omitempty"`
}

// Person is a discovered contact at a company.
type Person struct {
	ID        string `json:"id"`
	Company   string `json:"company"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Email     string `json:"email,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`

	Source             ContactSource      `json:"source"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`

	// Email confidence triple. EmailVerified is true only for
	// provider-asserted verification, never for pattern guesses.
	EmailCertainty int    `json:"email_certainty"`
	EmailSource    string `json:"email_source,omitempty"`
	EmailVerified  bool   `json:"email_verified"`

	Custom map[string]string `json:"custom,omitempty"`
}

// EmailSourceWebsite marks an address that appeared verbatim on the
// company's own site. The verifier matches on it when scoring.
const EmailSourceWebsite = "found on company website"

// ProviderAttempt records one provider try within a waterfall run. It is
// surfaced to callers for observability and never persisted.
type ProviderAttempt struct {
	Provider  string `json:"provider"`
	Succeeded bool   `json:"succeeded"`
	Reason    string `json:"reason,omitempty"`
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// DedupeKey is the identity used to collapse duplicate persons: lowercased
// name plus company foreign key.
func (p Person) DedupeKey() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "|" + p.CompanyID
}

// SplitName breaks a display name into first and last parts. Middle tokens
// fold into the last name. A single-token name yields an empty last name.
func SplitName(name string) (first, last string) {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

// DedupePersons collapses persons sharing a DedupeKey, keeping the first
// occurrence. Input order is preserved.
func DedupePersons(persons []Person) []Person {
	seen := make(map[string]struct{}, len(persons))
	out := make([]Person, 0, len(persons))
	for _, p := range persons {
		key := p.DedupeKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
