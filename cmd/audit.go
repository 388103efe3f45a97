package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/discovery"
	"github.com/sells-group/leadaudit/internal/report"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a business profile's online reputation",
	Long:  "Reads a business profile (a Places result or a flat record) from a JSON file, runs the reputation audit and optionally delivers the flattened report.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("audit"); err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("profile")
		location, _ := cmd.Flags().GetString("location")
		webhook, _ := cmd.Flags().GetString("report-webhook")
		if webhook == "" {
			webhook = cfg.Report.WebhookURL
		}

		var record map[string]any
		if err := readJSONFile(path, &record); err != nil {
			return err
		}
		profile := discovery.NormalizeRecord(record)

		client, err := newAnalysisClient(cmd.Context())
		if err != nil {
			return err
		}
		result, err := audit.NewService(client).AnalyzeProfile(cmd.Context(), profile)
		if err != nil {
			return err
		}

		if sink := newSink(webhook); sink != nil {
			if err := sink.Deliver(cmd.Context(), report.Flatten(profile, result, location)); err != nil {
				return eris.Wrap(err, "audit: deliver report")
			}
		}

		return printJSON(os.Stdout, result)
	},
}

func init() {
	auditCmd.Flags().String("profile", "", "path to a profile JSON file")
	auditCmd.Flags().String("location", "", "location shown on the delivered report")
	auditCmd.Flags().String("report-webhook", "", "deliver the flattened report to this URL (default from config)")
	_ = auditCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(auditCmd)
}
