package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/charts"
)

var chartCmd = &cobra.Command{
	Use:   "chart <kind>",
	Short: "Render a chart to PNG",
	Long: `Render one chart of the filtered trades to a PNG file.

Kinds: equity, daily, daily-equity, rolling

Examples:
  tradejournal chart equity -o equity.png
  tradejournal chart rolling --window 10 -o rolling.png`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"equity", "daily", "daily-equity", "rolling"},
	RunE:      runChart,
}

var (
	chartFilter filterFlags
	chartOutput string
	chartWindow int
)

func init() {
	rootCmd.AddCommand(chartCmd)

	chartFilter.register(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output PNG file (default <kind>.png)")
	chartCmd.Flags().IntVarP(&chartWindow, "window", "w", 0, "rolling window size (default from config)")
}

func runChart(cmd *cobra.Command, args []string) error {
	kind, err := charts.ParseKind(args[0])
	if err != nil {
		return err
	}
	who, err := owner()
	if err != nil {
		return err
	}
	f, err := chartFilter.filter()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := newService(store).Analytics(cmd.Context(), who, f, chartWindow)
	if err != nil {
		return fmt.Errorf("analytics: %w", err)
	}

	png, err := charts.Render(kind, res.Report)
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}

	out := chartOutput
	if out == "" {
		out = string(kind) + ".png"
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s chart: %s\n", kind, out)
	return nil
}
