package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var leadsCmd = &cobra.Command{
	Use:   "leads <query>",
	Short: "Search for businesses and rank them as sales leads",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("leads"); err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if format == formatXLSX && output == "" {
			return eris.New("leads: --output is required for xlsx")
		}

		query := strings.Join(args, " ")
		leads, err := newLeadFinder().FindLeads(cmd.Context(), query, location)
		if err != nil {
			return err
		}

		zap.L().Info("leads found",
			zap.String("query", query),
			zap.String("location", location),
			zap.Int("count", len(leads)),
		)

		if format == formatXLSX {
			return saveLeadsXLSX(output, leads)
		}

		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return eris.Wrap(err, "leads: create output")
			}
			defer f.Close() //nolint:errcheck
			w = f
		}
		if len(leads) == 0 && format == formatTable {
			fmt.Fprintln(os.Stderr, "No leads found.")
			return nil
		}
		return writeLeads(w, format, leads)
	},
}

func init() {
	leadsCmd.Flags().String("location", "", "city or area to search in")
	leadsCmd.Flags().String("format", formatTable, "output format: table, json, yaml, csv, xlsx")
	leadsCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(leadsCmd)
}
