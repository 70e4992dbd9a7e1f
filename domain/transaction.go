package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	DepositType  TransactionType = "DEPOSIT"
	WithdrawType TransactionType = "WITHDRAW"
	TransferType TransactionType = "TRANSFER"
	ReceiveType  TransactionType = "RECEIVE"
)

func (t TransactionType) Valid() bool {
	switch t {
	case DepositType, WithdrawType, TransferType, ReceiveType:
		return true
	}
	return false
}

// AccountRef identifies a counterparty without holding a pointer to the
// live account, so a record never changes after it is built.
type AccountRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func RefOf(a *Account) AccountRef {
	return AccountRef{ID: a.ID, Name: a.Name}
}

// Transaction is one balance-affecting fact recorded against a single account.
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	AccountName  string          `json:"accountName"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Timestamp    time.Time       `json:"timestamp"`
	Transferer   AccountRef      `json:"transferer"`
	Receiver     AccountRef      `json:"receiver"`
}

// NewTransactionID returns the short form (first 8 hex chars) of a random UUID.
func NewTransactionID() string {
	return uuid.NewString()[:8]
}

// NewTransaction captures the account's state as of now. It must be called
// after the balance has been mutated.
func NewTransaction(account *Account, txType TransactionType, amount decimal.Decimal, transferer, receiver *Account) Transaction {
	return Transaction{
		ID:           NewTransactionID(),
		AccountID:    account.ID,
		AccountName:  account.Name,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: account.Balance,
		Timestamp:    time.Now(),
		Transferer:   RefOf(transferer),
		Receiver:     RefOf(receiver),
	}
}

func (t Transaction) String() string {
	amount := FormatAmount(t.Amount)
	after := FormatAmount(t.BalanceAfter)
	switch t.Type {
	case DepositType:
		return fmt.Sprintf("DEPOSITED %s to %s, now %s.", amount, t.AccountName, after)
	case WithdrawType:
		return fmt.Sprintf("WITHDREW %s from %s, now %s.", amount, t.AccountName, after)
	case TransferType:
		return fmt.Sprintf("TRANSFERRED %s from %s to %s, now %s.", amount, t.Transferer.Name, t.Receiver.Name, after)
	case ReceiveType:
		return fmt.Sprintf("RECEIVED %s from %s, now %s.", amount, t.Transferer.Name, after)
	default:
		return fmt.Sprintf("A transaction log has been created for %s.", t.AccountName)
	}
}
