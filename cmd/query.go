package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"savings-ledger/app"
	"savings-ledger/domain"
)

// Variables for query flags
var (
	queryAccountID string
	querySkip      int
	queryLimit     int
)

// queryCmd represents the query command group
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query account information",
	Long:  `Provides read-only commands to query account balances and transaction history.`,
}

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Get an account balance",
	Long:  `Retrieves the current balance of the account with the given id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryAccountID == "" {
			return errors.New("account ID (--id) is required")
		}

		balance, err := accountService.GetCurrentBalance(app.GetBalanceQuery{AccountID: queryAccountID})
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}

		account, _ := accountService.GetAccount(queryAccountID)
		fmt.Fprintf(cmd.OutOrStdout(), "Account '%s' (%s) Balance: %s\n", account.Name, account.ID, domain.FormatAmount(balance))
		return nil
	},
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Get account transaction history",
	Long:  `Retrieves the recorded transactions for a specified account, oldest first, with optional pagination.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryAccountID == "" {
			return errors.New("account ID (--id) is required")
		}

		// Basic validation for pagination flags
		if querySkip < 0 {
			return errors.New("skip value cannot be negative")
		}
		if queryLimit < 0 {
			return errors.New("limit value cannot be negative")
		}

		history, err := accountService.GetTransactionHistory(app.GetHistoryQuery{
			AccountID: queryAccountID,
			Skip:      querySkip,
			Limit:     queryLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(history) == 0 {
			fmt.Fprintf(out, "No transaction history found for account '%s'.\n", queryAccountID)
			return nil
		}

		fmt.Fprintf(out, "Transaction History for Account '%s':\n", queryAccountID)
		fmt.Fprintln(out, "--------------------------------------------------")
		for i, tx := range history {
			fmt.Fprintf(out, "Transaction %d:\n", querySkip+i+1)
			printTransactionDetails(out, tx)
			fmt.Fprintln(out, "--------------------------------------------------")
		}
		return nil
	},
}

// printTransactionDetails formats a single record. Transfers and receipts
// also show the counterparty.
func printTransactionDetails(out io.Writer, tx domain.Transaction) {
	fmt.Fprintf(out, "  Type:      %s\n", tx.Type)
	fmt.Fprintf(out, "  ID:        %s\n", tx.ID)
	fmt.Fprintf(out, "  Timestamp: %s\n", tx.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(out, "  Amount:    %s\n", domain.FormatAmount(tx.Amount))
	fmt.Fprintf(out, "  Balance:   %s\n", domain.FormatAmount(tx.BalanceAfter))

	switch tx.Type {
	case domain.TransferType:
		fmt.Fprintf(out, "  To:        %s (%s)\n", tx.Receiver.Name, tx.Receiver.ID)
	case domain.ReceiveType:
		fmt.Fprintf(out, "  From:      %s (%s)\n", tx.Transferer.Name, tx.Transferer.ID)
	}
}

func init() {
	// Add queryCmd to root command
	rootCmd.AddCommand(queryCmd)

	// Add balanceCmd to queryCmd
	queryCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&queryAccountID, "id", "", "Account ID to query (required)")
	_ = balanceCmd.MarkFlagRequired("id")

	// Add historyCmd to queryCmd
	queryCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&queryAccountID, "id", "", "Account ID to query (required)")
	historyCmd.Flags().IntVar(&querySkip, "skip", 0, "Number of records to skip (for pagination)")
	historyCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of records to return (0 for no limit)")
	_ = historyCmd.MarkFlagRequired("id")
}
