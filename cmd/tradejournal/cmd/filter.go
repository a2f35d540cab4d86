package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/analytics"
)

type filterFlags struct {
	from, to, symbol, market, side, match string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first day to include (YYYY-MM-DD, UTC)")
	cmd.Flags().StringVar(&f.to, "to", "", "last day to include (YYYY-MM-DD, UTC)")
	cmd.Flags().StringVarP(&f.symbol, "symbol", "s", "", "symbol filter")
	cmd.Flags().StringVar(&f.market, "market", "", "market filter (futures, options, stock, forex, crypto)")
	cmd.Flags().StringVar(&f.side, "side", "", "side filter (long or short)")
	cmd.Flags().StringVar(&f.match, "match", "", "symbol match mode: exact or contains (default from config)")
}

func (f *filterFlags) filter() (analytics.Filter, error) {
	out := analytics.Filter{
		From:   f.from,
		To:     f.to,
		Symbol: f.symbol,
		Market: f.market,
		Side:   f.side,
	}
	if f.match != "" {
		m, err := analytics.ParseMatchMode(f.match)
		if err != nil {
			return analytics.Filter{}, err
		}
		out.SymbolMatch = m
	}
	return out, nil
}
