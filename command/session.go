package command

import (
	"io"

	"savings-ledger/app"
	"savings-ledger/domain"
)

// Session is the state one shell carries between lines: the ledger it
// acts on, the logged-in account and the debug toggle. Sessions share
// nothing, so tests can run several side by side.
type Session struct {
	Ledger  *app.AccountService
	Active  *domain.Account
	Debug   bool
	Screen  io.Writer
	Version string
}

func NewSession(ledger *app.AccountService, screen io.Writer, version string) *Session {
	if screen == nil {
		screen = io.Discard
	}
	return &Session{Ledger: ledger, Screen: screen, Version: version}
}
