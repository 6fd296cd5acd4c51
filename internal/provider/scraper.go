package provider

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/jina"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// "Ana Li - VP of Sales - Acme | LinkedIn" and similar title shapes.
	nameTitleRe = regexp.MustCompile(`^([A-Z][\w'.-]+(?: [A-Z][\w'.-]+)+)\s*[-–|—]\s*([^-–|—]+)`)
)

// Scraper is the last-resort adapter: it searches the public web for
// people pages and harvests names and on-domain addresses. Quality is
// lower than the API providers, so it sits at the end of the waterfall.
type Scraper struct {
	client jina.Client
}

// NewScraper creates the scraper-fallback adapter.
func NewScraper(client jina.Client) *Scraper {
	return &Scraper{client: client}
}

// Name implements Provider.
func (s *Scraper) Name() string {
	return NameScraper
}

// Search implements Provider.
func (s *Scraper) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	query := req.CompanyName
	if query == "" {
		query = req.Domain
	}
	if len(req.TargetTitles) > 0 {
		query += " " + strings.Join(req.TargetTitles, " ")
	}
	query += " contact email"

	resp, err := s.client.Search(ctx, query)
	if err != nil {
		var apiErr *jina.APIError
		if eris.As(err, &apiErr) {
			return nil, ClassifyStatus(NameScraper, apiErr.StatusCode, apiErr.Body)
		}
		return nil, &UnavailableError{Provider: NameScraper, Err: err}
	}

	persons := s.harvest(req, resp.Data)

	// If a result lives on the company's own site, read the full page:
	// addresses found there are the strongest scrape signal.
	for _, r := range resp.Data {
		if !strings.Contains(r.URL, req.Domain) {
			continue
		}
		page, err := s.client.Read(ctx, r.URL)
		if err != nil {
			zap.L().Debug("provider: scraper page read failed",
				zap.String("url", r.URL),
				zap.Error(err),
			)
			break
		}
		persons = mergeOnDomainEmails(persons, req, page.Data.Content)
		break
	}

	zap.L().Debug("provider: scrape complete",
		zap.String("domain", req.Domain),
		zap.Int("results", len(resp.Data)),
		zap.Int("persons", len(persons)),
	)

	return &SearchResult{Persons: model.DedupePersons(persons), CreditsUsed: len(resp.Data)}, nil
}

// harvest extracts person candidates from search results. A result
// contributes a person only when its title yields a plausible human name.
func (s *Scraper) harvest(req SearchRequest, results []jina.SearchResult) []model.Person {
	var persons []model.Person
	for _, r := range results {
		m := nameTitleRe.FindStringSubmatch(strings.TrimSpace(r.Title))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		title := strings.TrimSpace(m[2])

		p := model.Person{
			ID:                 model.NewID(),
			Company:            req.CompanyName,
			CompanyID:          req.CompanyID,
			Name:               name,
			Title:              title,
			Source:             model.SourceScraper,
			VerificationStatus: model.VerificationUnverified,
		}
		if strings.Contains(r.URL, "linkedin.com/in/") {
			p.LinkedIn = r.URL
		}

		if email := firstOnDomainEmail(r.Content+" "+r.Description, req.Domain); email != "" {
			p.Email = email
			p.EmailCertainty = TierUnconfirmed
			p.EmailSource = "scraped from web"
		}

		persons = append(persons, p)
	}
	return persons
}

// mergeOnDomainEmails backfills emails found on the company's own website
// into persons still missing one, matching on name tokens.
func mergeOnDomainEmails(persons []model.Person, req SearchRequest, content string) []model.Person {
	emails := onDomainEmails(content, req.Domain)
	if len(emails) == 0 {
		return persons
	}

	for i := range persons {
		if persons[i].Email != "" {
			continue
		}
		first, last := model.SplitName(persons[i].Name)
		for _, email := range emails {
			local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
			if (first != "" && strings.Contains(local, strings.ToLower(first))) ||
				(last != "" && strings.Contains(local, strings.ToLower(last))) {
				persons[i].Email = email
				persons[i].EmailCertainty = TierUnconfirmed
				persons[i].EmailSource = model.EmailSourceWebsite
				break
			}
		}
	}
	return persons
}

func firstOnDomainEmail(text, domain string) string {
	for _, email := range onDomainEmails(text, domain) {
		return email
	}
	return ""
}

func onDomainEmails(text, domain string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, email := range emailRe.FindAllString(text, -1) {
		email = strings.ToLower(email)
		if !strings.HasSuffix(email, "@"+domain) {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}
