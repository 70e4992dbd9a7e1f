package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of decimal places used when rendering money.
const AmountPlaces = 2

// ParseAmount converts user input into a decimal amount. It does not check
// the sign; callers decide whether zero or negative values are acceptable.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is empty", ErrInvalidAmount)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, raw)
	}
	return amount, nil
}

// ParsePositiveAmount is ParseAmount plus the "> 0" rule shared by every
// balance-affecting operation.
func ParsePositiveAmount(raw string) (decimal.Decimal, error) {
	amount, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if err := requirePositive(amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPlaces)
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0, got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}
