package store

import (
	"errors"

	"savings-ledger/domain"
)

var (
	ErrNotFound      = errors.New("account storage not found")
	ErrAlreadyExists = errors.New("account storage already exists")

	// ErrPersistence marks a failed read or write of ledger data. Callers
	// wrap store errors with it so they can be reported apart from bugs.
	ErrPersistence = errors.New("storage failure")
)

// IndexEntry maps an account id to the location of its profile.
type IndexEntry struct {
	ID          string `json:"id"`
	ProfilePath string `json:"profile_path"`
}

// Index is the registry of known accounts (in creation order) plus the
// counter used to allocate the next account id. NextID only grows.
type Index struct {
	Accounts []IndexEntry `json:"accounts"`
	NextID   int          `json:"account_id_counter"`
}

func NewIndex() Index {
	return Index{Accounts: []IndexEntry{}, NextID: 1}
}

// Contains reports whether id is a registered account.
func (idx Index) Contains(id string) bool {
	for _, e := range idx.Accounts {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Location describes where one account's data lives.
type Location struct {
	Folder  string `json:"folder_path"`
	Profile string `json:"profile_path"`
	History string `json:"transaction_history_file"`
}

// LedgerStore persists accounts and their append-only transaction logs.
type LedgerStore interface {
	ReadIndex() (Index, error)
	UpdateIndex(idx Index) error

	// LoadAccounts returns every indexed account in index order.
	LoadAccounts() ([]*domain.Account, error)

	// CreateAccountStorage prepares an empty folder and log for id. It fails
	// with ErrAlreadyExists only for indexed ids; leftovers of an abandoned
	// create are reset and reused.
	CreateAccountStorage(id string) (Location, error)
	WriteAccountProfile(account *domain.Account) error

	// AppendTransaction adds one record to the end of the owning account's
	// log. Earlier records are never rewritten or reordered.
	AppendTransaction(tx domain.Transaction) error
	ReadTransactions(accountID string) ([]domain.Transaction, error)
}
