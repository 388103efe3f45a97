package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadaudit/internal/audit"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Rewrite a business description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("describe"); err != nil {
			return err
		}

		text, _ := cmd.Flags().GetString("text")
		if path, _ := cmd.Flags().GetString("file"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return eris.Wrapf(err, "read %s", path)
			}
			text = string(data)
		}

		client, err := newAnalysisClient(cmd.Context())
		if err != nil {
			return err
		}
		out, err := audit.NewService(client).OptimizeDescription(cmd.Context(), text)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, out)
		return nil
	},
}

func init() {
	describeCmd.Flags().String("text", "", "current description")
	describeCmd.Flags().String("file", "", "read the current description from a file")
	describeCmd.MarkFlagsMutuallyExclusive("text", "file")
	rootCmd.AddCommand(describeCmd)
}
