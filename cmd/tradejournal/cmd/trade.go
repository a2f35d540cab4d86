package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Add, list, show and delete trades",
	Long: `Manage the trades in your journal.

Subcommands:
  add     - Record a trade
  list    - List trades, optionally filtered
  show    - Show one trade as an org-mode entry
  delete  - Delete a trade by ID

Examples:
  tradejournal trade add --symbol ES --side long --pnl 125 --at "2024-03-04 14:30"
  tradejournal trade add --symbol ES --side short --entry 5010 --exit 5000 --size 2 --multiplier 50
  tradejournal trade list --from 2024-03-01 --symbol ES
  tradejournal trade show 01HS...`,
}

var tradeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a trade",
	Args:  cobra.NoArgs,
	RunE:  runTradeAdd,
}

var tradeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runTradeList,
}

var tradeShowCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Show a trade as an org-mode entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeShow,
}

var tradeDeleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runTradeDelete,
}

var (
	addSymbol, addSide, addMarket, addAt, addNotes string
	addPnl, addEntry, addExit, addSize, addMult    string

	listFilter filterFlags
	listFormat string
)

func init() {
	rootCmd.AddCommand(tradeCmd)
	tradeCmd.AddCommand(tradeAddCmd)
	tradeCmd.AddCommand(tradeListCmd)
	tradeCmd.AddCommand(tradeShowCmd)
	tradeCmd.AddCommand(tradeDeleteCmd)

	f := tradeAddCmd.Flags()
	f.StringVarP(&addSymbol, "symbol", "s", "", "instrument symbol (required)")
	f.StringVar(&addSide, "side", "", "long or short (required)")
	f.StringVar(&addMarket, "market", "", "futures, options, stock, forex, crypto")
	f.StringVar(&addAt, "at", "", "execution time (RFC3339, \"YYYY-MM-DD HH:MM\", ...; default now)")
	f.StringVar(&addPnl, "pnl", "", "realized P/L")
	f.StringVar(&addEntry, "entry", "", "entry price")
	f.StringVar(&addExit, "exit", "", "exit price")
	f.StringVar(&addSize, "size", "", "position size")
	f.StringVar(&addMult, "multiplier", "", "contract multiplier used to suggest P/L (default 1)")
	f.StringVar(&addNotes, "notes", "", "free-form notes")
	tradeAddCmd.MarkFlagRequired("symbol")
	tradeAddCmd.MarkFlagRequired("side")

	listFilter.register(tradeListCmd)
	tradeListCmd.Flags().StringVarP(&listFormat, "format", "f", "text", "output format: text, json or org")
}

func runTradeAdd(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	side, err := journal.ParseSide(addSide)
	if err != nil {
		return err
	}

	t := journal.Trade{
		OwnerID:    who,
		Symbol:     addSymbol,
		Market:     addMarket,
		Side:       side,
		EntryPrice: journal.ParseOptionalAmount(addEntry),
		ExitPrice:  journal.ParseOptionalAmount(addExit),
		Size:       journal.ParseOptionalAmount(addSize),
		Notes:      addNotes,
	}
	if addAt != "" {
		at, ok := analytics.ParseInstant(addAt)
		if !ok {
			return fmt.Errorf("--at %q: unrecognized time", addAt)
		}
		t.ExecutedAt = at
	}

	switch {
	case addPnl != "":
		pnl, ok := journal.ParseAmount(addPnl)
		if !ok {
			return fmt.Errorf("--pnl %q: not a number", addPnl)
		}
		t.PnL = pnl
	case t.EntryPrice != nil && t.ExitPrice != nil && t.Size != nil:
		t.PnL = journal.ComputeRealizedPnl(side, t.EntryPrice, t.ExitPrice, t.Size, journal.ParseOptionalAmount(addMult))
		fmt.Fprintf(cmd.ErrOrStderr(), "P/L computed from prices: %.2f\n", t.PnL)
	default:
		return fmt.Errorf("--pnl is required unless --entry, --exit and --size are all given")
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.AddTrade(cmd.Context(), t)
	if err != nil {
		return fmt.Errorf("add trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added trade %s: %s %s %.2f\n", rec.ID, rec.Symbol, rec.Side, rec.PnL)
	return nil
}

func runTradeList(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	f, err := listFilter.filter()
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

	out := cmd.OutOrStdout()
	switch listFormat {
	case "json":
		return report.WriteJSON(out, trades)
	case "org":
		fmt.Fprintln(out, journal.FormatTradesOrg(trades))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSYMBOL\tSIDE\tMARKET\tP/L")
	for _, t := range trades {
		when := "(untimed)"
		if at, ok := analytics.CanonicalTime(t); ok {
			when = at.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\n", t.ID, when, t.Symbol, t.Side, t.Market, t.PnL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d trades\n", len(trades))
	return nil
}

func runTradeShow(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetTrade(cmd.Context(), who, args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatTradeOrg(rec))
	return nil
}

func runTradeDelete(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteTrade(cmd.Context(), who, args[0]); err != nil {
		return fmt.Errorf("delete trade: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted trade %s\n", args[0])
	return nil
}
