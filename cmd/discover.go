package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/aiguess"
	"github.com/erictisme/outreach-ai-sub002/internal/model"
	"github.com/erictisme/outreach-ai-sub002/internal/store"
	"github.com/erictisme/outreach-ai-sub002/internal/waterfall"
	anthropicpkg "github.com/erictisme/outreach-ai-sub002/pkg/anthropic"
)

var (
	discoverInput      string
	discoverTitles     []string
	discoverPrefer     string
	discoverSkip       []string
	discoverAIFallback bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the provider waterfall over target companies",
	Long:  "Sources contacts for companies from the store (or a CSV file) and persists the winning provider's results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("discover"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var companies []model.Company
		if discoverInput != "" {
			companies, err = loadCompaniesCSV(discoverInput)
			if err != nil {
				return err
			}
			for _, c := range companies {
				if err := st.UpsertCompany(ctx, c); err != nil {
					return eris.Wrap(err, "save company")
				}
			}
		} else {
			companies, err = st.ListCompanies(ctx, store.CompanyFilter{})
			if err != nil {
				return err
			}
		}
		if len(companies) == 0 {
			return eris.New("no companies to discover; load some with --input first")
		}

		wcfg, err := waterfallConfig()
		if err != nil {
			return err
		}

		orch := waterfall.New(wcfg, buildRegistry(nil))
		result, err := orch.Run(ctx, waterfall.Input{
			Companies:         companies,
			TargetTitles:      discoverTitles,
			PreferredProvider: discoverPrefer,
			SkipProviders:     discoverSkip,
		})
		if err != nil {
			return eris.Wrap(err, "waterfall run")
		}

		// Exhausted runs can fall back to exploratory AI guesses. These
		// carry no email and land in the lowest certainty tier later.
		if result.Summary.ProviderUsed == nil && discoverAIFallback {
			if cfg.Anthropic.Key == "" {
				return eris.New("--ai-fallback requires anthropic.key")
			}
			guesser := aiguess.NewGuesser(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic.Model)
			var guessed []model.Person
			for _, c := range companies {
				persons, err := guesser.GuessContacts(ctx, c, discoverTitles)
				if err != nil {
					zap.L().Warn("ai contact guess failed",
						zap.String("company", c.Name),
						zap.Error(err),
					)
					continue
				}
				guessed = append(guessed, persons...)
			}
			result.Persons = model.DedupePersons(guessed)
			result.Summary.ContactsFound = len(result.Persons)
		}

		if err := st.UpsertPersons(ctx, result.Persons); err != nil {
			return eris.Wrap(err, "save persons")
		}

		zap.L().Info("discovery complete",
			zap.Int("companies", len(companies)),
			zap.Int("contacts", result.Summary.ContactsFound),
			zap.Stringp("provider", result.Summary.ProviderUsed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// loadCompaniesCSV reads companies from a CSV with a header row. Name is
// required; website is used for domain resolution when present.
func loadCompaniesCSV(path string) ([]model.Company, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	if len(records) < 2 {
		return nil, eris.Errorf("%s has no data rows", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, eris.Errorf("%s is missing a name column", path)
	}

	field := func(row []string, key string) string {
		idx, ok := col[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var companies []model.Company
	for _, row := range records[1:] {
		name := field(row, "name")
		if name == "" {
			continue
		}
		companies = append(companies, model.Company{
			ID:      model.NewID(),
			Name:    name,
			Website: field(row, "website"),
			Type:    field(row, "type"),
		})
	}
	return companies, nil
}

func init() {
	discoverCmd.Flags().StringVar(&discoverInput, "input", "", "CSV of companies to load before discovery (name,website columns)")
	discoverCmd.Flags().StringSliceVar(&discoverTitles, "titles", nil, "target titles to narrow provider searches")
	discoverCmd.Flags().StringVar(&discoverPrefer, "prefer", "", "provider to try first")
	discoverCmd.Flags().StringSliceVar(&discoverSkip, "skip", nil, "providers to skip this run")
	discoverCmd.Flags().BoolVar(&discoverAIFallback, "ai-fallback", false, "guess contacts with the generation backend when every provider comes up empty")
	rootCmd.AddCommand(discoverCmd)
}
