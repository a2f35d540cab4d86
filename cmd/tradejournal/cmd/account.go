package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradejournal/journal"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show or update the trading account",
	Long: `Every owner has one account, created on first use with a zero
initial balance.

Examples:
  tradejournal account show
  tradejournal account set-balance 25000`,
}

var accountShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the account",
	Args:  cobra.NoArgs,
	RunE:  runAccountShow,
}

var accountSetBalanceCmd = &cobra.Command{
	Use:   "set-balance <amount>",
	Short: "Set the initial balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountSetBalance,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountShowCmd)
	accountCmd.AddCommand(accountSetBalanceCmd)
}

func runAccountShow(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	acct, err := store.EnsureAccount(cmd.Context(), who)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	printAccount(cmd, acct)
	return nil
}

func runAccountSetBalance(cmd *cobra.Command, args []string) error {
	who, err := owner()
	if err != nil {
		return err
	}
	balance, ok := journal.ParseAmount(args[0])
	if !ok {
		return fmt.Errorf("balance %q: not a number", args[0])
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpdateInitialBalance(cmd.Context(), who, balance); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	acct, err := store.GetAccount(cmd.Context(), who)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Initial balance updated")
	printAccount(cmd, acct)
	return nil
}

func printAccount(cmd *cobra.Command, acct journal.Account) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account:         %s\n", acct.Name)
	fmt.Fprintf(out, "Owner:           %s\n", acct.OwnerID)
	fmt.Fprintf(out, "Initial Balance: %.2f\n", acct.InitialBalance)
}
