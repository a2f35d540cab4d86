package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/charts"
	"github.com/rustyeddy/tradejournal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show performance statistics",
	Long: `Compute performance statistics over the filtered trades.

The report covers trade counts, win rate, profit factor, expectancy,
drawdown, rolling expectancy and weekday averages.

Examples:
  tradejournal stats
  tradejournal stats --from 2024-03-01 --to 2024-03-31 --symbol ES
  tradejournal stats --format json
  tradejournal stats --format org --output journal.org --chart equity.png`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var (
	statsFilter filterFlags
	statsFormat string
	statsWindow int
	statsOutput string
	statsChart  string
	statsNotes  string
)

func init() {
	rootCmd.AddCommand(statsCmd)

	statsFilter.register(statsCmd)
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "output format: text, json, yaml or org")
	statsCmd.Flags().IntVarP(&statsWindow, "window", "w", 0, "rolling window size (default from config)")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "", "write to this file instead of stdout")
	statsCmd.Flags().StringVar(&statsChart, "chart", "", "org only: also render the equity curve to this PNG and link it")
	statsCmd.Flags().StringVar(&statsNotes, "notes", "", "org only: text for the Notes section")
}

func runStats(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(statsFormat)
	if err != nil {
		return err
	}
	f, err := statsFilter.filter()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := newService(store).Analytics(cmd.Context(), who, f, statsWindow)
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}

	if format == report.FormatOrg {
		extras := report.OrgExtras{Notes: statsNotes}
		if statsChart != "" {
			png, err := charts.EquityPNG(res.Equity)
			if err != nil {
				return fmt.Errorf("equity chart: %w", err)
			}
			if err := os.WriteFile(statsChart, png, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			extras.EquityPNG = statsChart
		}
		if statsOutput != "" {
			if err := report.WriteOrgFile(statsOutput, res, extras); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote org report: %s\n", statsOutput)
			return nil
		}
		return report.WriteOrg(cmd.OutOrStdout(), res, extras)
	}

	if statsOutput == "" {
		return report.Write(cmd.OutOrStdout(), format, res)
	}
	out, err := os.Create(statsOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", statsOutput, err)
	}
	if err := report.Write(out, format, res); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report: %s\n", statsOutput)
	return nil
}
