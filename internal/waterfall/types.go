package waterfall

import "github.com/erictisme/outreach-ai-sub002/internal/model"

// Input is one discovery run: the companies to source contacts for plus
// per-run provider preferences.
type Input struct {
	Companies []model.Company `json:"companies"`
	// TargetTitles narrows searches to the roles the outreach targets.
	TargetTitles []string `json:"target_titles,omitempty"`
	// PreferredProvider, when set, is moved to the front of the
	// configured order. The rest of the order is unchanged.
	PreferredProvider string `json:"preferred_provider,omitempty"`
	// SkipProviders removes providers from this run entirely.
	SkipProviders []string `json:"skip_providers,omitempty"`
}

// Result is the outcome of one waterfall run. Persons always come from
// exactly one provider; Summary carries the per-provider trail.
type Result struct {
	Persons []model.Person `json:"persons"`
	Summary Summary        `json:"summary"`
}

// Summary describes what the run did, including the exhaustion path.
// Exhaustion (no provider produced contacts) is a legitimate outcome,
// not an orchestrator failure.
type Summary struct {
	CompaniesProcessed int                     `json:"companies_processed"`
	CompaniesSkipped   int                     `json:"companies_skipped"` // no resolvable domain
	ContactsFound      int                     `json:"contacts_found"`
	ProviderUsed       *string                 `json:"provider_used"` // nil when exhausted
	AttemptedProviders []string                `json:"attempted_providers"`
	CreditsUsed        int                     `json:"credits_used"`
	Errors             map[string]string       `json:"errors,omitempty"`
	Attempts           []model.ProviderAttempt `json:"attempts,omitempty"`
}
