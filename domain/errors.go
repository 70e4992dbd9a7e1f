package domain

import "fmt"

// DomainError is a rule violation the user can fix by retrying with other
// input. The parser reports it as a rejected request.
type DomainError struct {
	message string
}

func NewDomainError(format string, args ...any) *DomainError {
	return &DomainError{message: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	return e.message
}

// Wrap these with fmt.Errorf("%w: ...") to add the amounts or ids involved.
var (
	ErrInsufficientFunds  = NewDomainError("insufficient funds")
	ErrAccountNotFound    = NewDomainError("account not found")
	ErrInvalidAmount      = NewDomainError("invalid amount")
	ErrInvalidAccountName = NewDomainError("account name cannot be empty")
)
