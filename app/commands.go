package app

import (
	"github.com/shopspring/decimal"
)

// Inputs to the AccountService mutations. Amounts are already parsed; the
// service and the Account entity validate them.

type CreateAccountCommand struct {
	Name           string
	InitialBalance decimal.Decimal
}

type DepositMoneyCommand struct {
	AccountID string
	Amount    decimal.Decimal
}

type WithdrawMoneyCommand struct {
	AccountID string
	Amount    decimal.Decimal
}

type TransferMoneyCommand struct {
	SourceAccountID string
	TargetAccountID string
	Amount          decimal.Decimal
}

type GetBalanceQuery struct {
	AccountID string
}

// GetHistoryQuery pages through a log oldest first. A Limit of 0 or less
// means no limit.
type GetHistoryQuery struct {
	AccountID string
	Limit     int
	Skip      int
}
