package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/export"
	"github.com/erictisme/outreach-ai-sub002/internal/store"
)

var (
	exportOut          string
	exportCompanyID    string
	exportMinCertainty int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored contacts to an XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("export"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		persons, err := st.ListPersons(ctx, store.PersonFilter{
			CompanyID:    exportCompanyID,
			MinCertainty: exportMinCertainty,
		})
		if err != nil {
			return err
		}

		if err := export.WriteContactsXLSX(exportOut, persons); err != nil {
			return eris.Wrap(err, "export contacts")
		}

		zap.L().Info("export complete",
			zap.String("path", exportOut),
			zap.Int("contacts", len(persons)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "contacts.xlsx", "output file path")
	exportCmd.Flags().StringVar(&exportCompanyID, "company", "", "limit export to one company ID")
	exportCmd.Flags().IntVar(&exportMinCertainty, "min-certainty", 0, "only export contacts at or above this certainty")
	rootCmd.AddCommand(exportCmd)
}
