package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erictisme/outreach-ai-sub002/internal/certainty"
	"github.com/erictisme/outreach-ai-sub002/internal/store"
	syncpkg "github.com/erictisme/outreach-ai-sub002/internal/sync"
	"github.com/erictisme/outreach-ai-sub002/pkg/notion"
)

var (
	syncTarget       string
	syncMinCertainty int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push stored contacts to Salesforce or Notion",
	Long:  "Pushes contacts at or above the certainty cutoff to every configured sync target, or to one named with --target.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sync"); err != nil {
			return err
		}

		targets, err := buildSyncTargets()
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return eris.Errorf("no sync target matches %q", syncTarget)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		persons, err := st.ListPersons(ctx, store.PersonFilter{MinCertainty: syncMinCertainty})
		if err != nil {
			return err
		}

		var results []*syncpkg.Result
		for _, target := range targets {
			res, err := target.PushContacts(ctx, persons)
			if err != nil {
				return eris.Wrapf(err, "push to %s", target.Name())
			}
			results = append(results, res)
		}

		zap.L().Info("sync complete",
			zap.Int("contacts", len(persons)),
			zap.Int("targets", len(targets)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func buildSyncTargets() ([]syncpkg.Target, error) {
	var targets []syncpkg.Target

	if cfg.Salesforce.Username != "" && (syncTarget == "" || syncTarget == "salesforce") {
		sf, err := initSalesforce()
		if err != nil {
			return nil, err
		}
		targets = append(targets, syncpkg.NewSalesforceTarget(sf))
	}
	if cfg.Notion.Token != "" && (syncTarget == "" || syncTarget == "notion") {
		client := notion.NewClient(cfg.Notion.Token)
		targets = append(targets, syncpkg.NewNotionTarget(client, cfg.Notion.ContactDB))
	}

	return targets, nil
}

func init() {
	syncCmd.Flags().StringVar(&syncTarget, "target", "", "sync only this target (salesforce or notion)")
	syncCmd.Flags().IntVar(&syncMinCertainty, "min-certainty", certainty.HighCertaintyThreshold, "only push contacts at or above this certainty")
	rootCmd.AddCommand(syncCmd)
}
