package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/report"
)

var seriesKinds = []string{"equity", "daily", "daily-equity", "weekdays", "heatmap", "rolling"}

var seriesCmd = &cobra.Command{
	Use:   "series <kind>",
	Short: "Print one analytics series",
	Long: `Print one of the analytics series computed over the filtered trades.

Kinds:
  equity        - cumulative P/L after each trade
  daily         - net P/L and trade count per UTC day
  daily-equity  - cumulative P/L per day, anchored at Start
  weekdays      - average P/L per weekday
  heatmap       - average P/L per weekday and hour
  rolling       - rolling expectancy with a two standard error band

Examples:
  tradejournal series daily --from 2024-03-01
  tradejournal series rolling --window 10 --format yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: seriesKinds,
	RunE:      runSeries,
}

var (
	seriesFilter filterFlags
	seriesFormat string
	seriesWindow int
)

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesFilter.register(seriesCmd)
	seriesCmd.Flags().StringVarP(&seriesFormat, "format", "f", "json", "output format: json or yaml")
	seriesCmd.Flags().IntVarP(&seriesWindow, "window", "w", 0, "rolling window size (default from config)")
}

func runSeries(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	f, err := seriesFilter.filter()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := newService(store).Analytics(cmd.Context(), who, f, seriesWindow)
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}

	var v any
	switch strings.ToLower(args[0]) {
	case "equity":
		v = res.Equity
	case "daily":
		v = res.Daily
	case "daily-equity":
		v = res.DailyEquity
	case "weekdays":
		v = res.Weekdays
	case "heatmap":
		v = res.Heatmap
	case "rolling":
		v = res.Rolling
	default:
		return fmt.Errorf("unknown series %q (want one of %s)", args[0], strings.Join(seriesKinds, ", "))
	}

	switch seriesFormat {
	case "yaml":
		return report.WriteYAML(cmd.OutOrStdout(), v)
	case "json", "":
		return report.WriteJSON(cmd.OutOrStdout(), v)
	default:
		return fmt.Errorf("unknown format %q", seriesFormat)
	}
}
