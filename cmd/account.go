package cmd

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"savings-ledger/app"
	"savings-ledger/domain"
)

var (
	accountName    string
	accountBalance string
)

// accountCmd represents the account command group
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage savings accounts",
	Long:  `Provides commands to create and list savings accounts without entering the shell.`,
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new savings account",
	Long: `Creates a new savings account with the next sequential id and an optional
starting balance, e.g. --name Alice --balance 100.50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if accountName == "" {
			return errors.New("account name (--name) is required")
		}

		amount := decimal.Zero
		if accountBalance != "" {
			parsed, err := domain.ParseAmount(accountBalance)
			if err != nil {
				return fmt.Errorf("invalid starting balance: %w", err)
			}
			amount = parsed
		}
		if amount.IsNegative() {
			return fmt.Errorf("initial balance cannot be negative: %s", amount)
		}

		account, err := accountService.CreateAccount(app.CreateAccountCommand{Name: accountName, InitialBalance: amount})
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Account '%s' (%s) created successfully with the balance of %s.\n",
			account.Name, account.ID, domain.FormatAmount(account.Balance))
		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		accounts := accountService.Accounts()
		if len(accounts) == 0 {
			fmt.Fprintln(out, "No accounts found.")
			return nil
		}
		fmt.Fprintf(out, "%-12s %-24s %s\n", "ID", "NAME", "BALANCE")
		for _, acc := range accounts {
			fmt.Fprintf(out, "%-12s %-24s %s\n", acc.ID, acc.Name, domain.FormatAmount(acc.Balance))
		}
		return nil
	},
}

func init() {
	// Add accountCmd to root command
	rootCmd.AddCommand(accountCmd)

	accountCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&accountName, "name", "", "Display name for the account (required)")
	createCmd.Flags().StringVarP(&accountBalance, "balance", "b", "", "Starting balance (default 0)")
	_ = createCmd.MarkFlagRequired("name")

	accountCmd.AddCommand(listCmd)
}
