package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"savings-ledger/app"
	"savings-ledger/domain"
)

const (
	noActiveAccountMessage = "You're not using any account."
	timestampLayout        = "02/01/2006 15:04:05"
)

// execute runs one resolved sub-command. Rejections the user can fix by
// retyping are returned as a failed Result; domain errors and internal
// errors are returned as err and classified by the parser.
func execute(s *Session, call Call) (Result, error) {
	switch call.Sub {
	case AccList:
		return listAccounts(s), nil
	case AccLogin:
		return login(s, call.Args), nil
	case AccCreate:
		return createAccount(s, call.Args)
	case AccBalance:
		return balance(s), nil
	case AccModify:
		return modifyAccount(s, call.Args), nil
	case AccDelete:
		return deleteAccount(s, call.Args), nil
	case TDeposit:
		return deposit(s, call.Args)
	case TWithdraw:
		return withdraw(s, call.Args)
	case TTransfer:
		return transfer(s, call.Args)
	case THistory:
		return history(s, call.Args)
	}
	return Result{}, fmt.Errorf("no handler for command %s", call.Sub)
}

func requireArgs(args []string, n int) (Result, bool) {
	if len(args) >= n {
		return Result{}, true
	}
	if n == 1 {
		return fail("Required at least an argument to use this command."), false
	}
	return fail("Required at least %d arguments to use this command.", n), false
}

// --- Account ---

func listAccounts(s *Session) Result {
	accounts := s.Ledger.Accounts()
	if len(accounts) == 0 {
		return succeed("No accounts yet. Create one with 'acc new [Account Name]'.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "   %-12s %-24s %s\n", "ID", "NAME", "BALANCE")
	for _, acc := range accounts {
		marker := " "
		if acc == s.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s %-12s %-24s %s\n", marker, acc.ID, acc.Name, domain.FormatAmount(acc.Balance))
	}
	return succeed("%s", strings.TrimRight(b.String(), "\n"))
}

func login(s *Session, args []string) Result {
	if res, ok := requireArgs(args, 1); !ok {
		return res
	}
	if s.Active != nil && s.Active.Matches(args[0]) {
		return succeed("Already logged into %s (%s).", s.Active.Name, s.Active.ID)
	}
	acc := s.Ledger.FindAccount(args[0])
	if acc == nil {
		return fail("No account found with the name or id %q.", args[0])
	}
	s.Active = acc
	return succeed("Logged into %s (%s).", acc.Name, acc.ID)
}

// createAccount logs into the new account. A starting balance that is not
// a non-negative number is replaced by 0 and reported alongside the success.
func createAccount(s *Session, args []string) (Result, error) {
	if res, ok := requireArgs(args, 1); !ok {
		return res, nil
	}
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fail("Missing an argument for the account name."), nil
	}

	var warning string
	initial := decimal.Zero
	if len(args) > 1 {
		amount, err := domain.ParseAmount(args[1])
		switch {
		case err != nil:
			warning = fmt.Sprintf(" Account balance has to be a number, %q was ignored.", args[1])
		case amount.IsNegative():
			warning = fmt.Sprintf(" Account balance cannot be negative, %q was ignored.", args[1])
		default:
			initial = amount
		}
	}

	acc, err := s.Ledger.CreateAccount(app.CreateAccountCommand{Name: name, InitialBalance: initial})
	if err != nil {
		return Result{}, err
	}
	s.Active = acc
	return succeed("Successfully created and logged into account named %s with the balance of %s.%s",
		acc.Name, domain.FormatAmount(acc.Balance), warning), nil
}

func balance(s *Session) Result {
	if s.Active == nil {
		return fail(noActiveAccountMessage)
	}
	return succeed("%s has the balance of %s", s.Active.Name, domain.FormatAmount(s.Active.Balance))
}

// modifyAccount and deleteAccount validate their input but change nothing.
func modifyAccount(s *Session, args []string) Result {
	if s.Active == nil {
		return fail(noActiveAccountMessage)
	}
	if res, ok := requireArgs(args, 2); !ok {
		return res
	}
	return succeed("Editing accounts is not supported yet. %s was left unchanged.", s.Active.Name)
}

func deleteAccount(s *Session, args []string) Result {
	if s.Active == nil {
		return fail(noActiveAccountMessage)
	}
	if res, ok := requireArgs(args, 1); !ok {
		return res
	}
	return succeed("Deleting accounts is not supported yet. %s was left unchanged.", s.Active.Name)
}

// --- Transaction ---

func deposit(s *Session, args []string) (Result, error) {
	if s.Active == nil {
		return fail(noActiveAccountMessage), nil
	}
	if res, ok := requireArgs(args, 1); !ok {
		return res, nil
	}
	amount, err := domain.ParsePositiveAmount(args[0])
	if err != nil {
		return Result{}, err
	}
	tx, err := s.Ledger.Deposit(app.DepositMoneyCommand{AccountID: s.Active.ID, Amount: amount})
	if err != nil {
		return Result{}, err
	}
	return succeed("%s", tx), nil
}

func withdraw(s *Session, args []string) (Result, error) {
	if s.Active == nil {
		return fail(noActiveAccountMessage), nil
	}
	if res, ok := requireArgs(args, 1); !ok {
		return res, nil
	}
	amount, err := domain.ParsePositiveAmount(args[0])
	if err != nil {
		return Result{}, err
	}
	tx, err := s.Ledger.Withdraw(app.WithdrawMoneyCommand{AccountID: s.Active.ID, Amount: amount})
	if err != nil {
		return Result{}, err
	}
	return succeed("%s", tx), nil
}

func transfer(s *Session, args []string) (Result, error) {
	if s.Active == nil {
		return fail(noActiveAccountMessage), nil
	}
	if res, ok := requireArgs(args, 2); !ok {
		return res, nil
	}
	target := s.Ledger.FindAccount(args[0])
	if target == nil {
		return fail("No account found with the name or id %q.", args[0]), nil
	}
	amount, err := domain.ParsePositiveAmount(args[1])
	if err != nil {
		return Result{}, err
	}
	tx, err := s.Ledger.TransferMoney(app.TransferMoneyCommand{
		SourceAccountID: s.Active.ID,
		TargetAccountID: target.ID,
		Amount:          amount,
	})
	if err != nil {
		return Result{}, err
	}
	return succeed("%s", tx), nil
}

// history prints the active account's records, oldest first. The optional
// arguments are a limit and a number of records to skip.
func history(s *Session, args []string) (Result, error) {
	if s.Active == nil {
		return fail(noActiveAccountMessage), nil
	}
	query := app.GetHistoryQuery{AccountID: s.Active.ID}
	for i, dst := range []*int{&query.Limit, &query.Skip} {
		if len(args) <= i {
			break
		}
		n, err := strconv.Atoi(args[i])
		if err != nil || n < 0 {
			return fail("Expected a non-negative whole number, got %q.", args[i]), nil
		}
		*dst = n
	}

	records, err := s.Ledger.GetTransactionHistory(query)
	if err != nil {
		return Result{}, err
	}
	if len(records) == 0 {
		return succeed("No transactions recorded for %s.", s.Active.Name), nil
	}
	var b strings.Builder
	for i, tx := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "[%s] %-8s %-8s %s", tx.Timestamp.Format(timestampLayout), tx.ID, tx.Type, tx)
	}
	return succeed("%s", b.String()), nil
}
