// Package verify scores and backfills contact emails after discovery. It
// pre-resolves MX for every company domain, then fans out over persons in
// bounded windows, assigning each address a certainty from its provenance
// plus the domain's mail setup. Missing addresses are filled from the
// company's known format when one exists, otherwise from the pattern
// engine, with an optional AI format guess at the lowest trust tier.
package verify

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/batch"
	"github.com/erictisme/outreach-ai-sub002/internal/certainty"
	"github.com/erictisme/outreach-ai-sub002/internal/domains"
	"github.com/erictisme/outreach-ai-sub002/internal/emailpattern"
	"github.com/erictisme/outreach-ai-sub002/internal/model"
)

// Email sources assigned by the verifier when it fills a missing address.
const (
	emailSourceCompanyFormat = "company format pattern"
	emailSourcePatternGuess  = "pattern guess"
	emailSourceAIFormat      = "ai format guess"
)

// FormatGuesser supplies a last-resort email format guess for a company.
// Its answers never rise above the bare-guess certainty tier.
type FormatGuesser interface {
	GuessEmailFormat(ctx context.Context, companyName, domain string) (string, error)
}

// Verifier is the verification pass over discovered persons.
type Verifier struct {
	mx         *domains.MXChecker
	guesser    FormatGuesser
	batchLimit int
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithGuesser enables AI format guessing for companies where nothing else
// produced an address format.
func WithGuesser(g FormatGuesser) Option {
	return func(v *Verifier) { v.guesser = g }
}

// WithBatchLimit overrides the per-window person concurrency.
func WithBatchLimit(n int) Option {
	return func(v *Verifier) { v.batchLimit = n }
}

// New creates a verifier over the given MX checker.
func New(mx *domains.MXChecker, opts ...Option) *Verifier {
	v := &Verifier{mx: mx, batchLimit: batch.DefaultLimit}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Summary aggregates the outcome of one verification run.
type Summary struct {
	Total         int `json:"total"`
	Verified      int `json:"verified"`
	WithEmail     int `json:"with_email"`
	HighCertainty int `json:"high_certainty"`
}

// Result carries the enriched, deduplicated persons plus the summary.
type Result struct {
	Persons []model.Person `json:"persons"`
	Summary Summary        `json:"summary"`
}

// Run verifies persons against their companies. Companies supply the
// domain for MX checks and address generation; persons whose company is
// unknown are scored on provenance alone.
func (v *Verifier) Run(ctx context.Context, companies []model.Company, persons []model.Person) (*Result, error) {
	if v.mx == nil {
		return nil, eris.New("verify: mx checker required")
	}

	companyDomain := make(map[string]string, len(companies))
	companyName := make(map[string]string, len(companies))
	domainList := make([]string, 0, len(companies))
	for _, c := range companies {
		domain := c.Domain
		if domain == "" {
			domain = domains.Resolve(c.Website)
		}
		companyDomain[c.ID] = domain
		companyName[c.ID] = c.Name
		if domain != "" {
			domainList = append(domainList, domain)
		}
	}

	// All DNS work happens here, before the fan-out, so scoring reads a
	// fixed map.
	mxMap := v.mx.CheckAll(ctx, domainList)

	knownFormat := detectKnownFormats(persons)
	aiFormat := v.guessFormats(ctx, persons, companyDomain, companyName, knownFormat)

	enriched := batch.RunBounded(ctx, persons, v.batchLimit, func(_ context.Context, p model.Person) model.Person {
		domain := companyDomain[p.CompanyID]
		return scorePerson(p, domain, mxMap[domain], knownFormat[p.CompanyID], aiFormat[p.CompanyID])
	})

	deduped := model.DedupePersons(enriched)

	result := &Result{Persons: deduped}
	result.Summary.Total = len(deduped)
	for _, p := range deduped {
		if p.VerificationStatus == model.VerificationVerified {
			result.Summary.Verified++
		}
		if p.Email != "" {
			result.Summary.WithEmail++
		}
		if p.EmailCertainty >= certainty.HighCertaintyThreshold {
			result.Summary.HighCertainty++
		}
	}

	zap.L().Info("verify: run complete",
		zap.Int("total", result.Summary.Total),
		zap.Int("with_email", result.Summary.WithEmail),
		zap.Int("high_certainty", result.Summary.HighCertainty),
	)
	return result, nil
}

// scorePerson fills a missing address if it can and assigns the certainty.
// One scoring authority: everything funnels through certainty.Score.
func scorePerson(p model.Person, domain string, hasMX bool, knownTpl, aiTpl string) model.Person {
	first, last := model.SplitName(p.Name)
	ev := certainty.Evidence{DomainHasMXRecord: hasMX}
	hadEmail := p.Email != ""

	if p.Email == "" {
		if knownTpl != "" {
			if addr := emailpattern.Apply(knownTpl, first, last, domain); addr != "" {
				p.Email = addr
				p.EmailSource = emailSourceCompanyFormat
				ev.PatternMatchesKnownFormat = true
				ev.BarePatternGuess = true
			}
		}
		if p.Email == "" && aiTpl != "" {
			if addr := emailpattern.Apply(aiTpl, first, last, domain); addr != "" {
				p.Email = addr
				p.EmailSource = emailSourceAIFormat
				// AI guesses stay at the bare-guess tier; the MX signal
				// must not promote them.
				ev = certainty.Evidence{BarePatternGuess: true}
			}
		}
		if p.Email == "" {
			if candidates := emailpattern.Generate(first, last, domain); len(candidates) > 0 {
				p.Email = candidates[0]
				p.EmailSource = emailSourcePatternGuess
				ev.BarePatternGuess = true
			}
		}
		if p.Email == "" {
			p.EmailCertainty = 0
			if p.VerificationStatus == "" {
				p.VerificationStatus = model.VerificationUnverified
			}
			return p
		}
	} else {
		ev.VerifiedByProvider = p.EmailVerified
		ev.FoundOnCompanyWebsite = strings.Contains(p.EmailSource, model.EmailSourceWebsite)
		if knownTpl != "" && emailpattern.Detect(p.Email, first, last) == knownTpl {
			ev.PatternMatchesKnownFormat = true
		}
	}

	score := certainty.Score(ev)
	if hadEmail && p.EmailCertainty > score {
		// Providers assign their own confidence tiers. Verification only
		// corroborates or upgrades a pre-existing address; it never lowers
		// what the provider asserted.
		score = p.EmailCertainty
	}
	p.EmailCertainty = score
	if p.EmailVerified {
		p.VerificationStatus = model.VerificationVerified
	} else if p.VerificationStatus == "" {
		p.VerificationStatus = model.VerificationUnverified
	}
	return p
}

// detectKnownFormats learns a format per company from provider-verified
// addresses. First detected format wins.
func detectKnownFormats(persons []model.Person) map[string]string {
	known := make(map[string]string)
	for _, p := range persons {
		if !p.EmailVerified || p.Email == "" {
			continue
		}
		if known[p.CompanyID] != "" {
			continue
		}
		first, last := model.SplitName(p.Name)
		if tpl := emailpattern.Detect(p.Email, first, last); tpl != "" {
			known[p.CompanyID] = tpl
		}
	}
	return known
}

// guessFormats asks the AI backend for a format, once per company, for
// companies that have persons missing an address and no learned format.
// Runs sequentially before the fan-out so the batch work stays pure.
func (v *Verifier) guessFormats(ctx context.Context, persons []model.Person, companyDomain, companyName, knownFormat map[string]string) map[string]string {
	if v.guesser == nil {
		return nil
	}

	out := make(map[string]string)
	for _, p := range persons {
		if p.Email != "" {
			continue
		}
		id := p.CompanyID
		if _, asked := out[id]; asked {
			continue
		}
		if knownFormat[id] != "" {
			continue
		}
		domain := companyDomain[id]
		if domain == "" {
			continue
		}

		tpl, err := v.guesser.GuessEmailFormat(ctx, companyName[id], domain)
		if err != nil {
			zap.L().Debug("verify: format guess failed",
				zap.String("company", companyName[id]),
				zap.Error(err),
			)
			tpl = ""
		}
		out[id] = tpl
	}
	return out
}
