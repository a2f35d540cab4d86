package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/report"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show daily P/L for one month",
	Long: `Lay out one month of daily net P/L as a Sunday-first grid.

Examples:
  tradejournal calendar
  tradejournal calendar --month 2024-03 --symbol ES
  tradejournal calendar --month 2024-03 --format json`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

var (
	calFilter filterFlags
	calMonth  string
	calFormat string
)

func init() {
	rootCmd.AddCommand(calendarCmd)

	calFilter.register(calendarCmd)
	calendarCmd.Flags().StringVarP(&calMonth, "month", "m", "", "month to show, YYYY-MM (default current month, UTC)")
	calendarCmd.Flags().StringVarP(&calFormat, "format", "f", "text", "output format: text or json")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	f, err := calFilter.filter()
	if err != nil {
		return err
	}
	var ref analytics.MonthRef
	if calMonth != "" {
		if ref, err = analytics.ParseMonthRef(calMonth); err != nil {
			return err
		}
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	view, err := newService(store).Calendar(cmd.Context(), who, f, ref)
	if err != nil {
		return fmt.Errorf("calendar: %w", err)
	}

	if calFormat == "json" {
		return report.WriteJSON(cmd.OutOrStdout(), view)
	}
	printCalendar(cmd.OutOrStdout(), view)
	return nil
}

const calCell = 10

func printCalendar(w io.Writer, v report.CalendarView) {
	title := fmt.Sprintf("%s %d", v.Month, v.Year)
	width := 7*calCell + 6
	fmt.Fprintf(w, "%*s\n", (width+len(title))/2, title)

	heads := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for i, h := range heads {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%*s", calCell, h)
	}
	fmt.Fprintln(w)

	for _, week := range v.Weeks {
		days := make([]string, len(week))
		pnls := make([]string, len(week))
		for i, d := range week {
			if d == nil {
				continue
			}
			days[i] = fmt.Sprintf("%d", d.Day)
			if d.TradeCount > 0 {
				pnls[i] = fmt.Sprintf("%+.2f", d.NetPnl)
			}
		}
		fmt.Fprintln(w, row(days))
		fmt.Fprintln(w, row(pnls))
	}

	var net float64
	var count int
	for _, week := range v.Weeks {
		for _, d := range week {
			if d != nil {
				net += d.NetPnl
				count += d.TradeCount
			}
		}
	}
	fmt.Fprintf(w, "\nMonth: %+.2f over %d trades  (<- %s | %s ->)\n", net, count, v.Prev, v.Next)
}

func row(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%*s", calCell, c)
	}
	return strings.TrimRight(strings.Join(parts, " "), " ")
}
