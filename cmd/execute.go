package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadaudit/internal/action"
	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/discovery"
	"github.com/sells-group/leadaudit/internal/model"
)

var executeCmd = &cobra.Command{
	Use:   "execute",
	Short: "Generate content for an audit recommendation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("execute"); err != nil {
			return err
		}

		recPath, _ := cmd.Flags().GetString("recommendation")
		profilePath, _ := cmd.Flags().GetString("profile")

		var rec model.Recommendation
		if err := readJSONFile(recPath, &rec); err != nil {
			return err
		}
		var record map[string]any
		if profilePath != "" {
			if err := readJSONFile(profilePath, &record); err != nil {
				return err
			}
		}

		client, err := newAnalysisClient(cmd.Context())
		if err != nil {
			return err
		}
		res, err := action.NewExecutor(audit.NewService(client)).
			Execute(cmd.Context(), rec, discovery.NormalizeRecord(record))
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	},
}

func init() {
	executeCmd.Flags().String("recommendation", "", "path to a recommendation JSON file")
	executeCmd.Flags().String("profile", "", "path to the audited profile JSON file")
	_ = executeCmd.MarkFlagRequired("recommendation")
	rootCmd.AddCommand(executeCmd)
}
