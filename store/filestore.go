package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"savings-ledger/domain"
)

const (
	indexFileName   = "accounts.json"
	profileFileName = "profile.json"
	historyFileName = "transaction_history.csv"

	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

var historyHeader = []string{
	"id", "account_name", "account_id", "type", "amount", "account_new_balance",
	"date", "time", "transferer", "receiver", "transferer_id", "receiver_id",
}

// profile is the on-disk shape of one account.
type profile struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Location
}

// FileLedgerStore keeps the ledger under a data directory:
//
//	<root>/accounts.json
//	<root>/<account id>/profile.json
//	<root>/<account id>/transaction_history.csv
type FileLedgerStore struct {
	root string
}

// NewFileLedgerStore ensures the data directory and index file exist.
func NewFileLedgerStore(root string) (*FileLedgerStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("data directory must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", root, err)
	}
	s := &FileLedgerStore{root: root}
	if _, err := os.Stat(s.indexPath()); errors.Is(err, os.ErrNotExist) {
		if err := writeJSON(s.indexPath(), NewIndex()); err != nil {
			return nil, fmt.Errorf("failed to initialise account index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat account index: %w", err)
	}
	return s, nil
}

func (s *FileLedgerStore) ReadIndex() (Index, error) {
	var idx Index
	if err := readJSON(s.indexPath(), &idx); err != nil {
		return Index{}, fmt.Errorf("failed to read account index: %w", err)
	}
	if idx.Accounts == nil {
		idx.Accounts = []IndexEntry{}
	}
	if idx.NextID < 1 {
		idx.NextID = 1
	}
	return idx, nil
}

func (s *FileLedgerStore) UpdateIndex(idx Index) error {
	current, err := s.ReadIndex()
	if err != nil {
		return err
	}
	if idx.NextID < current.NextID {
		return fmt.Errorf("index counter cannot go backwards: current %d, got %d", current.NextID, idx.NextID)
	}
	if err := writeJSON(s.indexPath(), idx); err != nil {
		return fmt.Errorf("failed to update account index: %w", err)
	}
	return nil
}

func (s *FileLedgerStore) LoadAccounts() ([]*domain.Account, error) {
	idx, err := s.ReadIndex()
	if err != nil {
		return nil, err
	}
	accounts := make([]*domain.Account, 0, len(idx.Accounts))
	for _, entry := range idx.Accounts {
		profilePath := entry.ProfilePath
		if profilePath == "" {
			profilePath = s.location(entry.ID).Profile
		}
		var p profile
		if err := readJSON(profilePath, &p); err != nil {
			return nil, fmt.Errorf("failed to load account %s (is the account directory corrupted?): %w", entry.ID, err)
		}
		if p.ID == "" {
			p.ID = entry.ID
		}
		if strings.TrimSpace(p.Name) == "" {
			p.Name = "Account " + strings.TrimPrefix(p.ID, "account")
		}
		acc, err := domain.NewAccount(p.ID, p.Name, p.Balance)
		if err != nil {
			return nil, fmt.Errorf("invalid profile for account %s: %w", entry.ID, err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (s *FileLedgerStore) CreateAccountStorage(id string) (Location, error) {
	idx, err := s.ReadIndex()
	if err != nil {
		return Location{}, err
	}
	if idx.Contains(id) {
		return Location{}, fmt.Errorf("%w: %s", ErrAlreadyExists, id)
	}
	loc := s.location(id)
	if err := os.MkdirAll(loc.Folder, 0o755); err != nil {
		return Location{}, fmt.Errorf("failed to create account folder %s: %w", loc.Folder, err)
	}
	if err := os.Remove(loc.Profile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Location{}, fmt.Errorf("failed to clear stale profile %s: %w", loc.Profile, err)
	}
	if err := writeHistoryHeader(loc.History); err != nil {
		return Location{}, err
	}
	return loc, nil
}

func (s *FileLedgerStore) WriteAccountProfile(account *domain.Account) error {
	if account == nil {
		return fmt.Errorf("cannot write nil account profile")
	}
	loc := s.location(account.ID)
	if _, err := os.Stat(loc.Folder); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, account.ID, err)
	}
	p := profile{ID: account.ID, Name: account.Name, Balance: account.Balance, Location: loc}
	if err := writeJSON(loc.Profile, p); err != nil {
		return fmt.Errorf("failed to write profile for account %s: %w", account.ID, err)
	}
	return nil
}

func (s *FileLedgerStore) AppendTransaction(tx domain.Transaction) error {
	loc := s.location(tx.AccountID)
	if _, err := os.Stat(loc.Folder); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotFound, tx.AccountID, err)
	}
	if err := ensureHistoryFile(loc.History); err != nil {
		return err
	}

	f, err := os.OpenFile(loc.History, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open transaction history for %s: %w", tx.AccountID, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encodeRow(tx)); err != nil {
		return fmt.Errorf("failed to write transaction %s: %w", tx.ID, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (s *FileLedgerStore) ReadTransactions(accountID string) ([]domain.Transaction, error) {
	loc := s.location(accountID)
	f, err := os.Open(loc.History)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to open transaction history for %s: %w", accountID, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []domain.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history header for %s: %w", accountID, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	history := make([]domain.Transaction, 0)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read history for %s at line %d: %w", accountID, line, err)
		}
		tx, err := decodeRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("malformed history row for %s at line %d: %w", accountID, line, err)
		}
		history = append(history, tx)
	}
	return history, nil
}

func (s *FileLedgerStore) indexPath() string {
	return filepath.Join(s.root, indexFileName)
}

func (s *FileLedgerStore) location(id string) Location {
	folder := filepath.Join(s.root, id)
	return Location{
		Folder:  folder,
		Profile: filepath.Join(folder, profileFileName),
		History: filepath.Join(folder, historyFileName),
	}
}

func ensureHistoryFile(path string) error {
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return writeHistoryHeader(path)
}

// writeHistoryHeader truncates path to a log holding only the header row.
func writeHistoryHeader(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transaction history %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(historyHeader); err != nil {
		return fmt.Errorf("failed to write history header %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func encodeRow(tx domain.Transaction) []string {
	return []string{
		tx.ID,
		tx.AccountName,
		tx.AccountID,
		string(tx.Type),
		tx.Amount.String(),
		tx.BalanceAfter.String(),
		tx.Timestamp.Format(dateLayout),
		tx.Timestamp.Format(timeLayout),
		tx.Transferer.Name,
		tx.Receiver.Name,
		tx.Transferer.ID,
		tx.Receiver.ID,
	}
}

func decodeRow(columns map[string]int, row []string) (domain.Transaction, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	txType := domain.TransactionType(get("type"))
	if !txType.Valid() {
		return domain.Transaction{}, fmt.Errorf("unknown transaction type %q", txType)
	}
	amount, err := decimal.NewFromString(get("amount"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("bad amount %q: %w", get("amount"), err)
	}
	after, err := decimal.NewFromString(get("account_new_balance"))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("bad balance %q: %w", get("account_new_balance"), err)
	}
	ts, err := time.ParseInLocation(dateLayout+" "+timeLayout, get("date")+" "+get("time"), time.Local)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("bad timestamp: %w", err)
	}

	return domain.Transaction{
		ID:           get("id"),
		AccountID:    get("account_id"),
		AccountName:  get("account_name"),
		Type:         txType,
		Amount:       amount,
		BalanceAfter: after,
		Timestamp:    ts,
		Transferer:   domain.AccountRef{ID: get("transferer_id"), Name: get("transferer")},
		Receiver:     domain.AccountRef{ID: get("receiver_id"), Name: get("receiver")},
	}, nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

// writeJSON writes to path+".tmp" and renames it over path, so a failed
// write never leaves a truncated file behind.
func writeJSON(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

var _ LedgerStore = (*FileLedgerStore)(nil)
