package command_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"savings-ledger/app"
	"savings-ledger/command"
	"savings-ledger/domain"
	"savings-ledger/store"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// brokenStore fails every record append once armed.
type brokenStore struct {
	*store.InMemoryLedgerStore
	broken bool
}

func (b *brokenStore) AppendTransaction(tx domain.Transaction) error {
	if b.broken {
		return errors.New("write /data/account1/transaction_history.csv: no space left on device")
	}
	return b.InMemoryLedgerStore.AppendTransaction(tx)
}

type harness struct {
	parser  *command.Parser
	session *command.Session
	store   *brokenStore
	screen  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ls := &brokenStore{InMemoryLedgerStore: store.NewInMemoryLedgerStore()}
	service := app.NewAccountService(ls, zerolog.Nop())
	if err := service.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	screen := &bytes.Buffer{}
	return &harness{
		parser:  command.NewParser(command.DefaultAliases(), zerolog.Nop()),
		session: command.NewSession(service, screen, "1.0.0"),
		store:   ls,
		screen:  screen,
	}
}

func (h *harness) run(t *testing.T, line string) command.Result {
	t.Helper()
	return h.parser.Parse(h.session, line)
}

func (h *harness) mustRun(t *testing.T, line string) command.Result {
	t.Helper()
	res := h.run(t, line)
	if !res.Success {
		t.Fatalf("%q failed: %s", line, res.Message)
	}
	return res
}

func TestParser_CreateAccount(t *testing.T) {
	h := newHarness(t)
	before := h.session.Ledger.NextID()

	res := h.mustRun(t, "acc new TestUser 100")

	accounts := h.session.Ledger.Accounts()
	if len(accounts) != 1 {
		t.Fatalf("expected exactly 1 account, got %d", len(accounts))
	}
	acc := accounts[0]
	if acc.Name != "TestUser" || !acc.Balance.Equal(dec("100")) {
		t.Errorf("unexpected account %+v", acc)
	}
	if h.session.Active != acc {
		t.Errorf("new account should be active")
	}
	if h.session.Ledger.NextID() != before+1 {
		t.Errorf("expected counter %d, got %d", before+1, h.session.Ledger.NextID())
	}
	if !strings.Contains(res.Message, "TestUser") || !strings.Contains(res.Message, "100.00") {
		t.Errorf("unexpected message: %s", res.Message)
	}

	t.Run("QuotedName", func(t *testing.T) {
		h.mustRun(t, `a create "Mary Ann" 5.5`)
		if got := h.session.Active.Name; got != "Mary Ann" {
			t.Errorf("expected quoted name to survive tokenizing, got %q", got)
		}
	})

	t.Run("BadBalanceDefaultsToZero", func(t *testing.T) {
		for _, raw := range []string{"lots", "-3"} {
			res := h.mustRun(t, "acc new Broke "+raw)
			if !h.session.Active.Balance.IsZero() {
				t.Errorf("expected zero balance for %q, got %s", raw, h.session.Active.Balance)
			}
			if !strings.Contains(res.Message, "ignored") {
				t.Errorf("expected a warning for %q, got %s", raw, res.Message)
			}
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		for _, line := range []string{"acc new", `acc new "  "`} {
			if res := h.run(t, line); res.Success {
				t.Errorf("%q should fail", line)
			}
		}
	})
}

func TestParser_Transactions(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "acc new Alice 100")
	h.mustRun(t, "acc new Bob")
	h.mustRun(t, "acc login Alice")

	t.Run("NegativeDepositRejected", func(t *testing.T) {
		before := h.store.TransactionCount()
		res := h.run(t, "t + -5")
		if res.Success {
			t.Fatalf("negative deposit should fail")
		}
		if !strings.Contains(res.Message, "invalid amount") {
			t.Errorf("expected validation message, got %s", res.Message)
		}
		if h.store.TransactionCount() != before {
			t.Errorf("no record expected, got %d -> %d", before, h.store.TransactionCount())
		}
	})

	t.Run("DepositWithdraw", func(t *testing.T) {
		res := h.mustRun(t, "trans deposit 25")
		if !strings.HasPrefix(res.Message, "DEPOSITED 25.00 to Alice") {
			t.Errorf("unexpected deposit message: %s", res.Message)
		}
		h.mustRun(t, "t - 25")
		if !h.session.Active.Balance.Equal(dec("100")) {
			t.Errorf("expected balance restored to 100, got %s", h.session.Active.Balance)
		}
	})

	t.Run("Overdraw", func(t *testing.T) {
		res := h.run(t, "t withdraw 1000")
		if res.Success || !strings.Contains(res.Message, "insufficient funds") {
			t.Errorf("expected insufficient funds, got %+v", res)
		}
	})

	t.Run("Transfer", func(t *testing.T) {
		before := h.store.TransactionCount()
		res := h.mustRun(t, "t > Bob 40")
		if !strings.HasPrefix(res.Message, "TRANSFERRED 40.00 from Alice to Bob") {
			t.Errorf("unexpected transfer message: %s", res.Message)
		}
		if h.store.TransactionCount() != before+2 {
			t.Errorf("expected exactly 2 new records, got %d", h.store.TransactionCount()-before)
		}
		bob := h.session.Ledger.FindAccount("Bob")
		if !bob.Balance.Equal(dec("40")) || !h.session.Active.Balance.Equal(dec("60")) {
			t.Errorf("unexpected balances: alice=%s bob=%s", h.session.Active.Balance, bob.Balance)
		}
	})

	t.Run("TransferFailuresChangeNothing", func(t *testing.T) {
		for _, line := range []string{"t > Bob 60.01", "t > Nobody 1", "t > Alice 60.01", "t > Bob", "t > Bob abc"} {
			before := h.store.TransactionCount()
			if res := h.run(t, line); res.Success {
				t.Errorf("%q should fail", line)
			}
			if h.store.TransactionCount() != before {
				t.Errorf("%q wrote records", line)
			}
		}
		if !h.session.Active.Balance.Equal(dec("60")) {
			t.Errorf("balance changed: %s", h.session.Active.Balance)
		}
	})

	t.Run("TransferToSelf", func(t *testing.T) {
		before := h.store.TransactionCount()
		h.mustRun(t, "t > Alice 10")
		if !h.session.Active.Balance.Equal(dec("60")) {
			t.Errorf("self transfer should keep the balance, got %s", h.session.Active.Balance)
		}
		if h.store.TransactionCount() != before+2 {
			t.Errorf("expected 2 records, got %d", h.store.TransactionCount()-before)
		}
	})

	t.Run("History", func(t *testing.T) {
		res := h.mustRun(t, "t h")
		if lines := strings.Split(res.Message, "\n"); len(lines) != 5 {
			t.Errorf("expected 5 history lines, got %d: %s", len(lines), res.Message)
		}
		res = h.mustRun(t, "t history 1 2")
		if !strings.Contains(res.Message, "TRANSFER") || strings.Contains(res.Message, "\n") {
			t.Errorf("expected only the transfer record, got %s", res.Message)
		}
		if res := h.run(t, "t h -1"); res.Success {
			t.Errorf("negative limit should fail")
		}
	})
}

func TestParser_AccountCommands(t *testing.T) {
	h := newHarness(t)

	t.Run("NoActiveAccount", func(t *testing.T) {
		for _, line := range []string{"acc balance", "acc edit name Bob", "acc del x", "t + 5", "t - 5", "t > x 5", "t h"} {
			res := h.run(t, line)
			if res.Success || res.Message != "You're not using any account." {
				t.Errorf("%q: expected no-account failure, got %+v", line, res)
			}
		}
	})

	h.mustRun(t, "acc new Alice 10")
	first := h.session.Active
	h.mustRun(t, "acc new Alice 20")
	second := h.session.Active

	if first == second || second.Name != "Alice" {
		t.Fatal("expected a second, distinct Alice to be active after create")
	}
	h.mustRun(t, "acc login "+first.ID)
	if h.session.Active != first {
		t.Errorf("login by id failed")
	}
	h.mustRun(t, "acc login "+second.ID)
	h.session.Active = nil
	h.mustRun(t, "acc login Alice")
	if h.session.Active != first {
		t.Errorf("name lookup should pick the earliest account")
	}
	if res := h.run(t, "acc login Nobody"); res.Success {
		t.Errorf("unknown account login should fail")
	}
	if res := h.run(t, "acc login"); res.Success {
		t.Errorf("login without argument should fail")
	}

	res := h.mustRun(t, "acc b")
	if res.Message != "Alice has the balance of 10.00" {
		t.Errorf("unexpected balance message: %s", res.Message)
	}

	res = h.mustRun(t, "acc list")
	lines := strings.Split(res.Message, "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], " * "+first.ID) || strings.HasPrefix(lines[2], " * ") {
		t.Errorf("expected active marker on first account only:\n%s", res.Message)
	}

	if res := h.run(t, "acc edit name"); res.Success {
		t.Errorf("edit needs two arguments")
	}
	h.mustRun(t, "acc edit name Bob")
	h.mustRun(t, "acc del Alice")
	if first.Name != "Alice" || len(h.session.Ledger.Accounts()) != 2 {
		t.Errorf("edit/delete must not change state")
	}
}

func TestParser_ShapeErrors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		line string
		want string
	}{
		{"", "Please enter a command, or type help for list of commands."},
		{"   \t ", "Please enter a command, or type help for list of commands."},
		{"acc", "Missing or empty subcommand for ACCOUNT command. Try using 'HELP' command"},
		{`t ""`, "Missing or empty subcommand for TRANSACTION command. Try using 'HELP' command"},
		{"acc fly", "Unknown subcommand given for ACCOUNT command: fly. Try using 'HELP' command"},
		{"t new", "Unknown subcommand given for TRANSACTION command: new. Try using 'HELP' command"},
		{"jump now", "Unknown command given: jump now. Try using 'HELP' command"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := h.run(t, tt.line)
			if res.Success || res.Exit {
				t.Errorf("expected failure, got %+v", res)
			}
			if res.Message != tt.want {
				t.Errorf("message = %q, want %q", res.Message, tt.want)
			}
		})
	}
}

func TestParser_TokenizeErrors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		line string
		want string
	}{
		{`acc new "Bob`, "Incomplete quotation mark. (Missing a closing mark.)"},
		{`acc new 'Bob`, "Incomplete quotation mark. (Missing a closing mark.)"},
		{`acc new Bob\`, "Invalid Escape sequence parsed."},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				res := h.run(t, tt.line)
				if res.Success || res.Message != tt.want {
					t.Fatalf("attempt %d: got %+v, want %q", i, res, tt.want)
				}
			}
		})
	}
	if len(h.session.Ledger.Accounts()) != 0 {
		t.Errorf("parse errors must not reach the executor")
	}
}

func TestParser_MetaCommands(t *testing.T) {
	h := newHarness(t)

	t.Run("Exit", func(t *testing.T) {
		for _, line := range []string{"exit", "QUIT", "q", "End"} {
			res := h.run(t, line)
			if !res.Success || !res.Exit || res.Message != "EXITING..." {
				t.Errorf("%q: unexpected result %+v", line, res)
			}
		}
	})

	t.Run("OnlyExitStopsTheLoop", func(t *testing.T) {
		for _, line := range []string{"help", "version", "cls", "sob", "dev", "dev"} {
			if res := h.run(t, line); !res.Success || res.Exit {
				t.Errorf("%q: unexpected result %+v", line, res)
			}
		}
	})

	t.Run("Help", func(t *testing.T) {
		res := h.mustRun(t, "?")
		for _, want := range []string{"PREFIX", "ACCOUNT", "ACC_CREATE", "acc new [Account Name]", "T_TRANSFER", "t > [Target Account] [Amount]"} {
			if !strings.Contains(res.Message, want) {
				t.Errorf("help output missing %q", want)
			}
		}
	})

	t.Run("Version", func(t *testing.T) {
		if res := h.mustRun(t, "v"); !strings.Contains(res.Message, "1.0.0") {
			t.Errorf("unexpected version message: %s", res.Message)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		h.screen.Reset()
		h.mustRun(t, "clear")
		if h.screen.Len() == 0 {
			t.Errorf("expected clear sequence written to the screen")
		}
	})

	t.Run("DebugToggle", func(t *testing.T) {
		h.session.Debug = false
		h.mustRun(t, "debug")
		if !h.session.Debug {
			t.Errorf("expected debug on")
		}
		h.mustRun(t, "debug")
		if h.session.Debug {
			t.Errorf("expected debug off")
		}
	})
}

func TestParser_StorageErrors(t *testing.T) {
	h := newHarness(t)
	h.mustRun(t, "acc new Alice 10")
	h.mustRun(t, "acc new Bob 0")
	h.mustRun(t, "acc login Alice")
	h.store.broken = true

	for _, debug := range []bool{false, true} {
		h.session.Debug = debug
		for _, line := range []string{"t + 5", "t - 5", "t > Bob 5"} {
			res := h.run(t, line)
			if res.Success {
				t.Fatalf("%q: expected failure when the store is broken", line)
			}
			if !strings.HasPrefix(res.Message, "Request failed: storage failure") || !strings.Contains(res.Message, "no space left") {
				t.Errorf("%q (debug=%v): unexpected message %s", line, debug, res.Message)
			}
		}
	}

	if res := h.mustRun(t, "acc b"); res.Message != "Alice has the balance of 10.00" {
		t.Errorf("failed saves must not change the balance: %s", res.Message)
	}
	if bob := h.session.Ledger.FindAccount("Bob"); !bob.Balance.IsZero() {
		t.Errorf("failed transfer must not credit the target, got %s", bob.Balance)
	}
	if h.store.TransactionCount() != 0 {
		t.Errorf("expected no records, got %d", h.store.TransactionCount())
	}
}

func TestParser_InternalErrors(t *testing.T) {
	parser := command.NewParser(nil, zerolog.Nop())
	session := command.NewSession(nil, nil, "dev")

	res := parser.Parse(session, "acc list")
	if res.Success || res.Message != "An unexpected error occurred. Toggle DEBUG mode to see the details." {
		t.Errorf("detail must be hidden outside debug mode: %+v", res)
	}

	session.Debug = true
	res = parser.Parse(session, "acc list")
	if res.Success || !strings.Contains(res.Message, "session has no ledger attached") {
		t.Errorf("detail should be shown in debug mode: %+v", res)
	}
}

func TestParser_RecoversPanics(t *testing.T) {
	parser := command.NewParser(nil, zerolog.Nop())
	res := parser.Parse(nil, "cls")
	if res.Success {
		t.Errorf("expected failure, got %+v", res)
	}

	session := command.NewSession(nil, nil, "dev")
	if res := parser.Parse(session, "acc list"); res.Success {
		t.Errorf("expected failure without a ledger, got %+v", res)
	}
}
