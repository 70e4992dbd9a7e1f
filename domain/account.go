package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Account holds identity, display name and balance. The balance is only
// changed through the Handle* methods, which validate before mutating, so
// it never drops below zero.
type Account struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// IDForSequence returns the stable id assigned to the n-th created account.
func IDForSequence(n int) string {
	return fmt.Sprintf("account%d", n)
}

// DefaultAccountName is the placeholder used when an account has no name.
func DefaultAccountName(n int) string {
	return fmt.Sprintf("Account %d", n)
}

func NewAccount(id, name string, balance decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewDomainError("account ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: account %s", ErrInvalidAccountName, id)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative: %s", ErrInvalidAmount, balance.String())
	}
	return &Account{ID: id, Name: name, Balance: balance}, nil
}

// Matches reports whether the token is this account's exact name or id.
func (a *Account) Matches(nameOrID string) bool {
	return nameOrID == a.Name || nameOrID == a.ID
}

// CanDebit checks the rules a withdrawal or outgoing transfer must satisfy
// without touching the balance.
func (a *Account) CanDebit(amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	if a.Balance.LessThan(amount) {
		return fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientFunds, FormatAmount(amount), FormatAmount(a.Balance))
	}
	return nil
}

// --- Command Handlers ---
// Each handler validates first and only then mutates, returning the
// record(s) describing the change.

func (a *Account) HandleDeposit(amount decimal.Decimal) (Transaction, error) {
	if err := requirePositive(amount); err != nil {
		return Transaction{}, fmt.Errorf("cannot deposit: %w", err)
	}
	a.credit(amount)
	return NewTransaction(a, DepositType, amount, a, a), nil
}

func (a *Account) HandleWithdraw(amount decimal.Decimal) (Transaction, error) {
	if err := a.CanDebit(amount); err != nil {
		return Transaction{}, fmt.Errorf("cannot withdraw: %w", err)
	}
	a.debit(amount)
	return NewTransaction(a, WithdrawType, amount, a, a), nil
}

// HandleTransfer moves amount from a to target. Both records carry both
// counterparties; sent is recorded against a, received against target.
// A transfer to a itself is allowed and leaves the balance unchanged.
func (a *Account) HandleTransfer(target *Account, amount decimal.Decimal) (sent, received Transaction, err error) {
	if target == nil {
		return Transaction{}, Transaction{}, fmt.Errorf("%w: target account", ErrAccountNotFound)
	}
	if err := a.CanDebit(amount); err != nil {
		return Transaction{}, Transaction{}, fmt.Errorf("cannot transfer: %w", err)
	}

	a.debit(amount)
	target.credit(amount)

	sent = NewTransaction(a, TransferType, amount, a, target)
	received = NewTransaction(target, ReceiveType, amount, a, target)
	return sent, received, nil
}

func (a *Account) credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
}

func (a *Account) debit(amount decimal.Decimal) {
	a.Balance = a.Balance.Sub(amount)
}

func (a *Account) String() string {
	return a.Name
}
