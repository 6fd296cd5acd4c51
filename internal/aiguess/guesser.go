package aiguess

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/pkg/anthropic"
)

// DefaultModel is the generation model used for guesses. Guess quality
// matters less than cost here.
const DefaultModel = "claude-haiku-4-5-20251001"

// Guesser asks the generation backend for plausible contacts and email
// formats when every provider has come up empty.
type Guesser struct {
	client anthropic.Client
	model  string
}

// NewGuesser creates a guesser.
func NewGuesser(client anthropic.Client, model string) *Guesser {
	if model == "" {
		model = DefaultModel
	}
	return &Guesser{client: client, model: model}
}

type contactGuess struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// GuessContacts asks for likely people holding the target roles at a
// company. Returned persons carry Source ai-guess, no email, and no
// certainty; verification assigns the bare-guess tier later.
func (g *Guesser) GuessContacts(ctx context.Context, company model.Company, targetTitles []string) ([]model.Person, error) {
	prompt := fmt.Sprintf(
		"List up to 5 people likely to hold these roles at %s (%s): %s.\n"+
			"Respond with a JSON array of objects with keys \"name\" and \"title\". "+
			"Only include real, publicly known people; return [] if unsure.",
		company.Name, company.Website, strings.Join(targetTitles, ", "),
	)

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: 1024,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "aiguess: contact guess")
	}

	parsed := ExtractJSON(resp.Text())
	if parsed.Kind != ParsedList {
		zap.L().Debug("aiguess: unparseable contact guess",
			zap.String("company", company.Name),
		)
		return nil, nil
	}

	var persons []model.Person
	for _, raw := range parsed.List {
		var cg contactGuess
		if err := json.Unmarshal(raw, &cg); err != nil {
			continue
		}
		if strings.TrimSpace(cg.Name) == "" {
			continue
		}
		persons = append(persons, model.Person{
			ID:                 model.NewID(),
			Company:            company.Name,
			CompanyID:          company.ID,
			Name:               strings.TrimSpace(cg.Name),
			Title:              strings.TrimSpace(cg.Title),
			Source:             model.SourceAIGuess,
			VerificationStatus: model.VerificationUnverified,
		})
	}
	return persons, nil
}

type patternGuess struct {
	Pattern string `json:"pattern"`
}

// GuessEmailFormat asks which address format a company is likely to use.
// Returns a pattern like "{first}.{last}", or "" when the answer cannot
// be parsed.
func (g *Guesser) GuessEmailFormat(ctx context.Context, companyName, domain string) (string, error) {
	prompt := fmt.Sprintf(
		"What email address format does %s (@%s) most likely use?\n"+
			"Respond with a JSON object {\"pattern\": \"...\"} using placeholders "+
			"{first}, {last}, {f}, {l}. Example: {\"pattern\": \"{first}.{last}\"}.",
		companyName, domain,
	)

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: 256,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "aiguess: format guess")
	}

	parsed := ExtractJSON(resp.Text())
	if parsed.Kind != ParsedSingle {
		return "", nil
	}
	var pg patternGuess
	if err := json.Unmarshal(parsed.Single, &pg); err != nil {
		return "", nil
	}
	return strings.TrimSpace(pg.Pattern), nil
}
