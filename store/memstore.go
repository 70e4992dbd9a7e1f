package store

import (
	"fmt"
	"path"
	"sync"

	"savings-ledger/domain"
)

type InMemoryLedgerStore struct {
	sync.RWMutex
	index    Index
	profiles map[string]domain.Account
	logs     map[string][]domain.Transaction
}

func NewInMemoryLedgerStore() *InMemoryLedgerStore {
	return &InMemoryLedgerStore{
		index:    NewIndex(),
		profiles: make(map[string]domain.Account),
		logs:     make(map[string][]domain.Transaction),
	}
}

func (s *InMemoryLedgerStore) ReadIndex() (Index, error) {
	s.RLock()
	defer s.RUnlock()
	return copyIndex(s.index), nil
}

func (s *InMemoryLedgerStore) UpdateIndex(idx Index) error {
	s.Lock()
	defer s.Unlock()
	if idx.NextID < s.index.NextID {
		return fmt.Errorf("index counter cannot go backwards: current %d, got %d", s.index.NextID, idx.NextID)
	}
	s.index = copyIndex(idx)
	return nil
}

func (s *InMemoryLedgerStore) LoadAccounts() ([]*domain.Account, error) {
	s.RLock()
	defer s.RUnlock()
	accounts := make([]*domain.Account, 0, len(s.index.Accounts))
	for _, entry := range s.index.Accounts {
		profile, ok := s.profiles[entry.ID]
		if !ok {
			return nil, fmt.Errorf("%w: profile for %s", ErrNotFound, entry.ID)
		}
		acc := profile
		accounts = append(accounts, &acc)
	}
	return accounts, nil
}

func (s *InMemoryLedgerStore) CreateAccountStorage(id string) (Location, error) {
	s.Lock()
	defer s.Unlock()
	if s.index.Contains(id) {
		return Location{}, fmt.Errorf("%w: %s", ErrAlreadyExists, id)
	}
	delete(s.profiles, id)
	s.logs[id] = make([]domain.Transaction, 0)
	return memLocation(id), nil
}

func (s *InMemoryLedgerStore) WriteAccountProfile(account *domain.Account) error {
	if account == nil {
		return fmt.Errorf("cannot write nil account profile")
	}
	s.Lock()
	defer s.Unlock()
	if _, exists := s.logs[account.ID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, account.ID)
	}
	s.profiles[account.ID] = *account
	return nil
}

func (s *InMemoryLedgerStore) AppendTransaction(tx domain.Transaction) error {
	s.Lock()
	defer s.Unlock()
	stream, exists := s.logs[tx.AccountID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, tx.AccountID)
	}
	s.logs[tx.AccountID] = append(stream, tx)
	return nil
}

func (s *InMemoryLedgerStore) ReadTransactions(accountID string) ([]domain.Transaction, error) {
	s.RLock()
	defer s.RUnlock()
	stream, ok := s.logs[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, accountID)
	}
	copied := make([]domain.Transaction, len(stream))
	copy(copied, stream)
	return copied, nil
}

// --- Test Helpers ---

// TransactionCount returns the total number of records across all accounts.
func (s *InMemoryLedgerStore) TransactionCount() int {
	s.RLock()
	defer s.RUnlock()
	n := 0
	for _, stream := range s.logs {
		n += len(stream)
	}
	return n
}

// Profile returns the last persisted state of an account.
func (s *InMemoryLedgerStore) Profile(id string) (domain.Account, bool) {
	s.RLock()
	defer s.RUnlock()
	acc, ok := s.profiles[id]
	return acc, ok
}

func memLocation(id string) Location {
	folder := path.Join("mem", id)
	return Location{
		Folder:  folder,
		Profile: path.Join(folder, profileFileName),
		History: path.Join(folder, historyFileName),
	}
}

func copyIndex(idx Index) Index {
	out := Index{NextID: idx.NextID, Accounts: make([]IndexEntry, len(idx.Accounts))}
	copy(out.Accounts, idx.Accounts)
	return out
}

var _ LedgerStore = (*InMemoryLedgerStore)(nil)
