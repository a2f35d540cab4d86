package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import trades from CSV",
	Long: `Import trades from a CSV file with a header row.

The symbol and side columns are required. Recognized columns:
  id, symbol, market, side, executed_at, created_at, date, timestamp,
  entry_price, exit_price, size, pnl, notes

Example:
  tradejournal import trades.csv --owner alice`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export trades to CSV",
	Long: `Export the filtered trades, oldest first, to a CSV file.

Example:
  tradejournal export march.csv --from 2024-03-01 --to 2024-03-31`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	importKeepIDs bool
	exportFilter  filterFlags
)

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	importCmd.Flags().BoolVar(&importKeepIDs, "keep-ids", false, "keep the ids from the file instead of assigning new ones")
	exportFilter.register(exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}

	fh, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer fh.Close()

	trades, err := journal.ImportCSV(fh, who)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	for i, t := range trades {
		if !importKeepIDs {
			t.ID = ""
		}
		if _, err := store.AddTrade(cmd.Context(), t); err != nil {
			return fmt.Errorf("trade %d (%s): %w", i+1, t.Symbol, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d trades from %s\n", len(trades), args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	f, err := exportFilter.filter()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	trades, err := newService(store).Trades(cmd.Context(), who, f)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if err := journal.ExportCSVFile(args[0], trades); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trades to %s\n", len(trades), args[0])
	return nil
}
