package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadaudit/internal/competitor"
)

var competitorsCmd = &cobra.Command{
	Use:   "competitors",
	Short: "Compare a business with its local competitors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("competitors"); err != nil {
			return err
		}

		in := competitor.Input{}
		in.BusinessName, _ = cmd.Flags().GetString("name")
		in.Industry, _ = cmd.Flags().GetString("industry")
		in.Location, _ = cmd.Flags().GetString("location")
		in.Website, _ = cmd.Flags().GetString("website")
		quick, _ := cmd.Flags().GetBool("quick")

		client, err := newAnalysisClient(cmd.Context())
		if err != nil {
			return err
		}
		svc := competitor.NewService(client)

		if quick {
			return printJSON(os.Stdout, svc.QuickInsight(cmd.Context(), in))
		}

		out := svc.AnalyzeCompetitors(cmd.Context(), in)
		if err := printJSON(os.Stdout, out); err != nil {
			return err
		}
		if !out.Success {
			return eris.New(out.Error)
		}
		return nil
	},
}

func init() {
	competitorsCmd.Flags().String("name", "", "business name")
	competitorsCmd.Flags().String("industry", "", "industry or category")
	competitorsCmd.Flags().String("location", "", "city or area")
	competitorsCmd.Flags().String("website", "", "business website")
	competitorsCmd.Flags().Bool("quick", false, "return the short competitor snapshot")
	rootCmd.AddCommand(competitorsCmd)
}
