package cmd

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"savings-ledger/app"
	"savings-ledger/domain"
)

// Variables to hold flag values for transaction commands
var (
	txAccountID string
	txAmountStr string
	txFromID    string
	txTo        string
)

// transactionCmd represents the transaction command group
var transactionCmd = &cobra.Command{
	Use:   "transaction",
	Short: "Perform savings transactions",
	Long:  `Provides commands for depositing, withdrawing and transferring funds between accounts.`,
}

// depositCmd represents the deposit command
var depositCmd = &cobra.Command{
	Use:   "deposit",
	Short: "Deposit funds into an account",
	Long:  `Adds a positive amount to an account's balance and records a DEPOSIT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if txAccountID == "" {
			return errors.New("account ID (--id) is required")
		}
		amount, err := parseTxAmount()
		if err != nil {
			return err
		}

		tx, err := accountService.Deposit(app.DepositMoneyCommand{AccountID: txAccountID, Amount: amount})
		if err != nil {
			return fmt.Errorf("deposit failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tx)
		return nil
	},
}

// withdrawCmd represents the withdraw command
var withdrawCmd = &cobra.Command{
	Use:   "withdraw",
	Short: "Withdraw funds from an account",
	Long:  `Removes a positive amount, no larger than the balance, and records a WITHDRAW.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if txAccountID == "" {
			return errors.New("account ID (--id) is required")
		}
		amount, err := parseTxAmount()
		if err != nil {
			return err
		}

		tx, err := accountService.Withdraw(app.WithdrawMoneyCommand{AccountID: txAccountID, Amount: amount})
		if err != nil {
			return fmt.Errorf("withdrawal failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tx)
		return nil
	},
}

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer funds between two accounts",
	Long: `Moves an amount from the source account to the target account. The target
may be given by name or id; the source records a TRANSFER, the target a RECEIVE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if txFromID == "" || txTo == "" {
			return errors.New("source (--from-id) and target (--to) are required")
		}
		amount, err := parseTxAmount()
		if err != nil {
			return err
		}
		target := accountService.FindAccount(txTo)
		if target == nil {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, txTo)
		}

		tx, err := accountService.TransferMoney(app.TransferMoneyCommand{
			SourceAccountID: txFromID,
			TargetAccountID: target.ID,
			Amount:          amount,
		})
		if err != nil {
			return fmt.Errorf("transfer failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tx)
		return nil
	},
}

func parseTxAmount() (decimal.Decimal, error) {
	if txAmountStr == "" {
		return decimal.Zero, errors.New("amount (--amount) is required")
	}
	amount, err := domain.ParsePositiveAmount(txAmountStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	return amount, nil
}

func init() {
	// Add transactionCmd to root command
	rootCmd.AddCommand(transactionCmd)

	transactionCmd.AddCommand(depositCmd)
	depositCmd.Flags().StringVar(&txAccountID, "id", "", "Account ID to deposit into (required)")
	depositCmd.Flags().StringVar(&txAmountStr, "amount", "", "Amount to deposit (required)")

	transactionCmd.AddCommand(withdrawCmd)
	withdrawCmd.Flags().StringVar(&txAccountID, "id", "", "Account ID to withdraw from (required)")
	withdrawCmd.Flags().StringVar(&txAmountStr, "amount", "", "Amount to withdraw (required)")

	transactionCmd.AddCommand(transferCmd)
	transferCmd.Flags().StringVar(&txFromID, "from-id", "", "Source account ID (required)")
	transferCmd.Flags().StringVar(&txTo, "to", "", "Target account name or ID (required)")
	transferCmd.Flags().StringVar(&txAmountStr, "amount", "", "Amount to transfer (required)")
}
