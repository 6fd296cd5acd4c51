// Package waterfall drives the contact providers in priority order,
// stopping at the first one that finds people. Providers are never
// merged: a run's results come from exactly one provider.
package waterfall

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/domains"
	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/internal/provider"
)

// reasonNoResults is the per-provider error recorded when a provider
// completed but found nobody.
const reasonNoResults = "No results found"

// Orchestrator runs the provider waterfall for a discovery request.
type Orchestrator struct {
	cfg      Config
	registry *provider.Registry
}

// New creates an orchestrator over the registered providers.
func New(cfg Config, registry *provider.Registry) *Orchestrator {
	return &Orchestrator{cfg: cfg, registry: registry}
}

// target is a company with its pre-resolved lookup domain.
type target struct {
	company model.Company
	domain  string
}

// Run tries each configured provider in order until one returns at least
// one person. Per-provider failures and empty results advance the
// waterfall; an exhausted run returns empty persons plus the error map
// and a nil error. Only structurally missing input is an error.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Result, error) {
	if len(in.Companies) == 0 {
		return nil, eris.New("waterfall: no companies supplied")
	}

	order := o.providerOrder(in)
	if len(order) == 0 {
		return nil, eris.New("waterfall: no provider configured")
	}

	result := &Result{
		Summary: Summary{
			Errors: make(map[string]string),
		},
	}

	// Resolve domains up front; companies without one are skipped for
	// every provider, counted once.
	targets := make([]target, 0, len(in.Companies))
	for _, c := range in.Companies {
		domain := c.Domain
		if domain == "" {
			domain = domains.Resolve(c.Website)
		}
		if domain == "" {
			zap.L().Debug("waterfall: skipping company without resolvable domain",
				zap.String("company", c.Name),
				zap.String("website", c.Website),
			)
			result.Summary.CompaniesSkipped++
			continue
		}
		targets = append(targets, target{company: c, domain: domain})
	}
	result.Summary.CompaniesProcessed = len(targets)

	for i, name := range order {
		p := o.registry.Get(name)
		result.Summary.AttemptedProviders = append(result.Summary.AttemptedProviders, name)

		zap.L().Info("waterfall: trying provider",
			zap.String("provider", name),
			zap.Int("position", i),
			zap.Int("companies", len(targets)),
		)

		persons, credits, provErr := o.runProvider(ctx, p, targets, in.TargetTitles)
		result.Summary.CreditsUsed += credits

		if len(persons) > 0 {
			tagPersons(persons, name)
			result.Persons = model.DedupePersons(persons)
			result.Summary.ContactsFound = len(result.Persons)
			used := name
			result.Summary.ProviderUsed = &used
			attempt := model.ProviderAttempt{
				Provider:  name,
				Succeeded: true,
			}
			// A provider abandoned mid-batch can still win with what it
			// collected. Surface the abandon reason so operators see the
			// broken key behind the partial result.
			if provErr != nil {
				attempt.Reason = provErr.Error()
				result.Summary.Errors[name] = provErr.Error()
			}
			result.Summary.Attempts = append(result.Summary.Attempts, attempt)
			zap.L().Info("waterfall: provider succeeded",
				zap.String("provider", name),
				zap.Int("contacts", len(result.Persons)),
			)
			return result, nil
		}

		reason := reasonNoResults
		if provErr != nil {
			reason = provErr.Error()
		}
		result.Summary.Errors[name] = reason
		result.Summary.Attempts = append(result.Summary.Attempts, model.ProviderAttempt{
			Provider: name,
			Reason:   reason,
		})
		zap.L().Info("waterfall: provider yielded nothing, advancing",
			zap.String("provider", name),
			zap.String("reason", reason),
		)

		if i < len(order)-1 {
			if err := o.sleep(ctx, o.advanceDelay()); err != nil {
				return result, nil
			}
		}
	}

	// Exhausted: every provider attempted, none succeeded.
	return result, nil
}

// runProvider iterates companies under one provider. A rate limit pauses
// and skips to the next company; it never advances the waterfall by
// itself. Auth and request-format errors stop the company loop because
// they would fail identically for every remaining company.
func (o *Orchestrator) runProvider(ctx context.Context, p provider.Provider, targets []target, titles []string) ([]model.Person, int, error) {
	var (
		persons []model.Person
		credits int
		lastErr error
	)

	for i, tgt := range targets {
		res, err := p.Search(ctx, provider.SearchRequest{
			Domain:       tgt.domain,
			CompanyName:  tgt.company.Name,
			CompanyID:    tgt.company.ID,
			TargetTitles: titles,
			PageSize:     o.cfg.PageSize,
		})

		switch {
		case err == nil:
			persons = append(persons, res.Persons...)
			credits += res.CreditsUsed

		case provider.IsAuth(err):
			zap.L().Warn("waterfall: provider credential rejected, abandoning provider",
				zap.String("provider", p.Name()),
			)
			return persons, credits, err

		case provider.IsRequestFormat(err):
			// Contract drift, not a bad key. Distinct log so operators
			// can tell the two apart.
			zap.L().Error("waterfall: provider rejected request format, abandoning provider",
				zap.String("provider", p.Name()),
				zap.Error(err),
			)
			return persons, credits, err

		case provider.IsRateLimited(err):
			zap.L().Warn("waterfall: provider rate limited, skipping to next company",
				zap.String("provider", p.Name()),
				zap.String("company", tgt.company.Name),
			)
			lastErr = err
			if serr := o.sleep(ctx, o.cfg.RateLimitPause); serr != nil {
				return persons, credits, lastErr
			}
			continue

		default:
			zap.L().Debug("waterfall: provider unavailable for company, skipping",
				zap.String("provider", p.Name()),
				zap.String("company", tgt.company.Name),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		if i < len(targets)-1 && o.cfg.CompanyPacing > 0 {
			if serr := o.sleep(ctx, o.cfg.CompanyPacing); serr != nil {
				return persons, credits, lastErr
			}
		}
	}

	return persons, credits, lastErr
}

// providerOrder applies skips, credential availability (registration),
// and the preferred-provider promotion. Preferred is a stable reorder of
// the configured set, not a replacement.
func (o *Orchestrator) providerOrder(in Input) []string {
	skip := make(map[string]struct{}, len(in.SkipProviders))
	for _, s := range in.SkipProviders {
		skip[s] = struct{}{}
	}

	order := make([]string, 0, len(o.cfg.Order))
	for _, name := range o.cfg.Order {
		if _, skipped := skip[name]; skipped {
			continue
		}
		if o.registry.Get(name) == nil {
			continue
		}
		order = append(order, name)
	}

	if in.PreferredProvider != "" {
		for i, name := range order {
			if name == in.PreferredProvider {
				order = append([]string{name}, append(append([]string{}, order[:i]...), order[i+1:]...)...)
				break
			}
		}
	}

	return order
}

// tagPersons stamps the winning provider onto every returned person.
func tagPersons(persons []model.Person, providerName string) {
	suffix := "(via " + providerName + ")"
	for i := range persons {
		persons[i].Source = model.ContactSource(providerName)
		if persons[i].Email == "" {
			continue
		}
		if strings.Contains(persons[i].EmailSource, suffix) {
			continue
		}
		if persons[i].EmailSource == "" {
			persons[i].EmailSource = suffix
		} else {
			persons[i].EmailSource += " " + suffix
		}
	}
}

func (o *Orchestrator) advanceDelay() time.Duration {
	d := o.cfg.AdvanceDelayBase
	if o.cfg.AdvanceDelayJitter > 0 {
		d += time.Duration(rand.Int64N(int64(o.cfg.AdvanceDelayJitter)))
	}
	return d
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
