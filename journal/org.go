package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatTradeOrg renders a Trade as an Org-mode block for pasting into a
// journal. Structured facts go in the PROPERTIES drawer; the Thesis and
// Review headings are left for the trader to fill in.
func FormatTradeOrg(t Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s (%s)\n", t.Symbol, t.Side, shortID(t.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":TRADE_ID: %s\n", t.ID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	if t.Market != "" {
		fmt.Fprintf(&b, ":MARKET: %s\n", t.Market)
	}
	if !t.ExecutedAt.IsZero() {
		fmt.Fprintf(&b, ":EXECUTED_AT: %s\n", t.ExecutedAt.UTC().Format(time.RFC3339))
	}
	if !t.CreatedAt.IsZero() {
		fmt.Fprintf(&b, ":CREATED_AT: %s\n", t.CreatedAt.UTC().Format(time.RFC3339))
	}
	if t.EntryPrice != nil {
		fmt.Fprintf(&b, ":ENTRY_PRICE: %s\n", f(*t.EntryPrice))
	}
	if t.ExitPrice != nil {
		fmt.Fprintf(&b, ":EXIT_PRICE: %s\n", f(*t.ExitPrice))
	}
	if t.Size != nil {
		fmt.Fprintf(&b, ":SIZE: %s\n", f(*t.Size))
	}
	fmt.Fprintf(&b, ":PNL: %.2f\n", t.PnL)
	b.WriteString(":END:\n\n")

	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n")
	if t.Notes != "" {
		for _, line := range strings.Split(t.Notes, "\n") {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	} else {
		b.WriteString("- \n")
	}
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
