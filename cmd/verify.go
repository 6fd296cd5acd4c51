package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/store"
)

var verifyCompanyID string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Score email certainty for stored contacts",
	Long:  "Backfills missing emails from known or guessed company formats, checks MX records, and writes the certainty scores back to the store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("verify"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		companies, err := st.ListCompanies(ctx, store.CompanyFilter{})
		if err != nil {
			return err
		}
		persons, err := st.ListPersons(ctx, store.PersonFilter{CompanyID: verifyCompanyID})
		if err != nil {
			return err
		}
		if len(persons) == 0 {
			return eris.New("no persons to verify; run discover first")
		}

		result, err := buildVerifier().Run(ctx, companies, persons)
		if err != nil {
			return eris.Wrap(err, "verify run")
		}

		if err := st.UpsertPersons(ctx, result.Persons); err != nil {
			return eris.Wrap(err, "save persons")
		}

		zap.L().Info("verification complete",
			zap.Int("total", result.Summary.Total),
			zap.Int("with_email", result.Summary.WithEmail),
			zap.Int("high_certainty", result.Summary.HighCertainty),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Summary)
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyCompanyID, "company", "", "limit verification to one company ID")
	rootCmd.AddCommand(verifyCmd)
}
