package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"savings-ledger/domain"
	"savings-ledger/store"
)

// AccountService is the application layer between the command executor,
// the Account entities and the LedgerStore. Every mutating operation
// validates, mutates in memory, then persists the affected profiles and
// appends the audit records before returning. Store failures are wrapped
// with store.ErrPersistence.
type AccountService struct {
	store    store.LedgerStore
	log      zerolog.Logger
	accounts []*domain.Account
	nextID   int
}

func NewAccountService(ls store.LedgerStore, log zerolog.Logger) *AccountService {
	if ls == nil {
		log.Fatal().Msg("LedgerStore must not be nil")
	}
	return &AccountService{
		store:    ls,
		log:      log,
		accounts: make([]*domain.Account, 0),
		nextID:   1,
	}
}

// Load replaces the in-memory accounts with the persisted ones.
func (s *AccountService) Load() error {
	idx, err := s.store.ReadIndex()
	if err != nil {
		return fmt.Errorf("failed to read account index: %w", err)
	}
	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	s.accounts = accounts
	s.nextID = idx.NextID
	s.log.Info().Int("accounts", len(accounts)).Int("next_id", s.nextID).Msg("ledger loaded")
	return nil
}

// Accounts returns the known accounts in creation/load order.
func (s *AccountService) Accounts() []*domain.Account {
	out := make([]*domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// NextID is the sequence number the next created account will receive.
func (s *AccountService) NextID() int {
	return s.nextID
}

// FindAccount returns the first account whose name or id equals nameOrID.
// Names are not unique, so the result depends on creation order.
func (s *AccountService) FindAccount(nameOrID string) *domain.Account {
	for _, acc := range s.accounts {
		if acc.Matches(nameOrID) {
			return acc
		}
	}
	return nil
}

func (s *AccountService) GetAccount(accountID string) (*domain.Account, error) {
	for _, acc := range s.accounts {
		if acc.ID == accountID {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
}

// --- Command Handlers ---

func (s *AccountService) CreateAccount(cmd CreateAccountCommand) (*domain.Account, error) {
	idx, err := s.store.ReadIndex()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read account index: %w", store.ErrPersistence, err)
	}
	seq := max(s.nextID, idx.NextID)
	for s.hasID(domain.IDForSequence(seq)) || idx.Contains(domain.IDForSequence(seq)) {
		s.log.Warn().Int("seq", seq).Msg("account id already taken, skipping")
		seq++
	}
	accountID := domain.IDForSequence(seq)

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = domain.DefaultAccountName(seq)
	}

	account, err := domain.NewAccount(accountID, name, cmd.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("account creation failed validation: %w", err)
	}

	loc, err := s.store.CreateAccountStorage(accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create storage for account %s: %w", store.ErrPersistence, accountID, err)
	}
	if err := s.store.WriteAccountProfile(account); err != nil {
		return nil, fmt.Errorf("%w: failed to write profile for account %s: %w", store.ErrPersistence, accountID, err)
	}

	idx.Accounts = append(idx.Accounts, store.IndexEntry{ID: accountID, ProfilePath: loc.Profile})
	idx.NextID = seq + 1
	if err := s.store.UpdateIndex(idx); err != nil {
		return nil, fmt.Errorf("%w: failed to register account %s: %w", store.ErrPersistence, accountID, err)
	}

	s.accounts = append(s.accounts, account)
	s.nextID = seq + 1

	s.log.Info().
		Str("account_id", accountID).
		Str("name", name).
		Str("balance", account.Balance.String()).
		Msg("account created")
	return account, nil
}

func (s *AccountService) Deposit(cmd DepositMoneyCommand) (domain.Transaction, error) {
	account, err := s.GetAccount(cmd.AccountID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to load account for deposit: %w", err)
	}

	saved := snapshot(account)
	tx, err := account.HandleDeposit(cmd.Amount)
	if err != nil {
		s.log.Warn().Str("account_id", cmd.AccountID).Err(err).Msg("deposit rejected")
		return domain.Transaction{}, err
	}

	if err := s.persist(saved, tx); err != nil {
		return domain.Transaction{}, err
	}
	s.log.Info().Str("account_id", cmd.AccountID).Str("amount", cmd.Amount.String()).Str("tx_id", tx.ID).Msg("deposit recorded")
	return tx, nil
}

func (s *AccountService) Withdraw(cmd WithdrawMoneyCommand) (domain.Transaction, error) {
	account, err := s.GetAccount(cmd.AccountID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to load account for withdrawal: %w", err)
	}

	saved := snapshot(account)
	tx, err := account.HandleWithdraw(cmd.Amount)
	if err != nil {
		s.log.Warn().Str("account_id", cmd.AccountID).Err(err).Msg("withdrawal rejected")
		return domain.Transaction{}, err
	}

	if err := s.persist(saved, tx); err != nil {
		return domain.Transaction{}, err
	}
	s.log.Info().Str("account_id", cmd.AccountID).Str("amount", cmd.Amount.String()).Str("tx_id", tx.ID).Msg("withdrawal recorded")
	return tx, nil
}

// TransferMoney debits the source and credits the target, then records a
// TRANSFER against the source and a RECEIVE against the target. Nothing is
// mutated unless every check passes. The returned record is the source's.
func (s *AccountService) TransferMoney(cmd TransferMoneyCommand) (domain.Transaction, error) {
	source, err := s.GetAccount(cmd.SourceAccountID)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to load source account for transfer: %w", err)
	}
	target, err := s.GetAccount(cmd.TargetAccountID)
	if err != nil {
		s.log.Warn().Str("target_id", cmd.TargetAccountID).Msg("transfer target not found")
		return domain.Transaction{}, fmt.Errorf("target account not found for transfer: %w", err)
	}

	saved := snapshot(source, target)
	sent, received, err := source.HandleTransfer(target, cmd.Amount)
	if err != nil {
		s.log.Warn().
			Str("source_id", cmd.SourceAccountID).
			Str("target_id", cmd.TargetAccountID).
			Err(err).
			Msg("transfer rejected")
		return domain.Transaction{}, err
	}

	if err := s.persist(saved, sent, received); err != nil {
		return domain.Transaction{}, err
	}
	s.log.Info().
		Str("source_id", cmd.SourceAccountID).
		Str("target_id", cmd.TargetAccountID).
		Str("amount", cmd.Amount.String()).
		Str("tx_id", sent.ID).
		Msg("transfer recorded")
	return sent, nil
}

// --- Query Handlers ---

func (s *AccountService) GetCurrentBalance(query GetBalanceQuery) (decimal.Decimal, error) {
	account, err := s.GetAccount(query.AccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot get balance: %w", err)
	}
	return account.Balance, nil
}

func (s *AccountService) GetTransactionHistory(query GetHistoryQuery) ([]domain.Transaction, error) {
	if _, err := s.GetAccount(query.AccountID); err != nil {
		return nil, fmt.Errorf("cannot get history: %w", err)
	}
	history, err := s.store.ReadTransactions(query.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []domain.Transaction{}, nil
		}
		return nil, fmt.Errorf("%w: failed to get transaction history for account %s: %w", store.ErrPersistence, query.AccountID, err)
	}

	totalRecords := len(history)
	start := query.Skip
	if start < 0 {
		start = 0
	}
	if start >= totalRecords {
		return []domain.Transaction{}, nil
	}
	end := start + query.Limit
	if query.Limit <= 0 || end > totalRecords {
		end = totalRecords
	}
	return history[start:end], nil
}

// balanceSnapshot is an account's balance before a mutation.
type balanceSnapshot struct {
	account *domain.Account
	balance decimal.Decimal
}

func snapshot(accounts ...*domain.Account) []balanceSnapshot {
	saved := make([]balanceSnapshot, 0, len(accounts))
	for _, acc := range accounts {
		saved = append(saved, balanceSnapshot{account: acc, balance: acc.Balance})
	}
	return saved
}

// persist writes the affected profiles, then appends the records in order.
// On failure the snapshot balances are restored in memory and on disk.
func (s *AccountService) persist(saved []balanceSnapshot, records ...domain.Transaction) error {
	for _, snap := range saved {
		if err := s.store.WriteAccountProfile(snap.account); err != nil {
			s.log.Error().Str("account_id", snap.account.ID).Err(err).Msg("failed to persist profile")
			s.rollback(saved)
			return fmt.Errorf("%w: failed to save account %s: %w", store.ErrPersistence, snap.account.ID, err)
		}
	}
	for i, tx := range records {
		if err := s.store.AppendTransaction(tx); err != nil {
			s.log.Error().
				Str("account_id", tx.AccountID).
				Str("tx_id", tx.ID).
				Int("records_written", i).
				Err(err).
				Msg("failed to append transaction record")
			s.rollback(saved)
			return fmt.Errorf("%w: failed to record transaction %s for account %s: %w", store.ErrPersistence, tx.ID, tx.AccountID, err)
		}
	}
	return nil
}

// rollback restores the snapshot balances and rewrites their profiles.
// Records already appended stay in the log, since it is append-only.
func (s *AccountService) rollback(saved []balanceSnapshot) {
	for _, snap := range saved {
		snap.account.Balance = snap.balance
	}
	for _, snap := range saved {
		if err := s.store.WriteAccountProfile(snap.account); err != nil {
			s.log.Error().Str("account_id", snap.account.ID).Err(err).Msg("failed to restore profile; memory and disk may diverge")
		}
	}
}

func (s *AccountService) hasID(id string) bool {
	for _, acc := range s.accounts {
		if acc.ID == id {
			return true
		}
	}
	return false
}
