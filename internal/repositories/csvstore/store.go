// Package csvstore loads the customers, accounts and transactions tables from
// flat CSV files into an immutable in-memory store.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/shopspring/decimal"
)

// ErrDataFile is wrapped by every error returned from Load
var ErrDataFile = errors.New("data loading error")

// File names expected in the data directory
const (
	CustomersFile    = "customers.csv"
	AccountsFile     = "accounts.csv"
	TransactionsFile = "transactions.csv"
)

// Store is the read-only tabular data store
type Store struct {
	tables     []*entities.Table
	customers  []*entities.Customer
	accounts   []*entities.Account
	transfers  []*entities.TransferEdge
	accountIDs []string

	customerByID map[string]*entities.Customer
	accountByID  map[string]*entities.Account
}

var _ repositories.TableRepository = (*Store)(nil)

// Load reads the three CSV files from dir.
// Any missing file, missing column or malformed value is fatal.
func Load(dir string) (*Store, error) {
	customersTbl, err := readTable(filepath.Join(dir, CustomersFile), "customers")
	if err != nil {
		return nil, err
	}
	accountsTbl, err := readTable(filepath.Join(dir, AccountsFile), "accounts")
	if err != nil {
		return nil, err
	}
	transactionsTbl, err := readTable(filepath.Join(dir, TransactionsFile), "transactions")
	if err != nil {
		return nil, err
	}

	s := &Store{
		tables:       []*entities.Table{customersTbl, accountsTbl, transactionsTbl},
		customerByID: make(map[string]*entities.Customer),
		accountByID:  make(map[string]*entities.Account),
	}

	if err := s.loadCustomers(customersTbl); err != nil {
		return nil, err
	}
	if err := s.loadAccounts(accountsTbl); err != nil {
		return nil, err
	}
	if err := s.loadTransfers(transactionsTbl); err != nil {
		return nil, err
	}

	return s, nil
}

// readTable reads a whole CSV file; the first record is the header
func readTable(path, name string) (*entities.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataFile, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %s: file is empty", ErrDataFile, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDataFile, path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataFile, path, err)
	}

	return &entities.Table{Name: name, Header: header, Rows: rows}, nil
}

// columnIndex maps required and optional column names to positions
func columnIndex(tbl *entities.Table, required []string, optional []string) (map[string]int, error) {
	idx := make(map[string]int, len(tbl.Header))
	for i, col := range tbl.Header {
		idx[col] = i
	}

	out := make(map[string]int, len(required)+len(optional))
	for _, col := range required {
		i, ok := idx[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing required column %q", ErrDataFile, tbl.Name, col)
		}
		out[col] = i
	}
	for _, col := range optional {
		if i, ok := idx[col]; ok {
			out[col] = i
		}
	}
	return out, nil
}

func (s *Store) loadCustomers(tbl *entities.Table) error {
	cols, err := columnIndex(tbl, []string{"customer_id", "name"}, nil)
	if err != nil {
		return err
	}

	for line, row := range tbl.Rows {
		c := &entities.Customer{
			ID:   strings.TrimSpace(row[cols["customer_id"]]),
			Name: strings.TrimSpace(row[cols["name"]]),
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: customers row %d: %v", ErrDataFile, line+2, err)
		}
		s.customers = append(s.customers, c)
		s.customerByID[c.ID] = c
	}
	return nil
}

func (s *Store) loadAccounts(tbl *entities.Table) error {
	cols, err := columnIndex(tbl, []string{"account_id", "customer_id", "balance"}, nil)
	if err != nil {
		return err
	}

	for line, row := range tbl.Rows {
		balance, err := decimal.NewFromString(strings.TrimSpace(row[cols["balance"]]))
		if err != nil {
			return fmt.Errorf("%w: accounts row %d: invalid balance: %v", ErrDataFile, line+2, err)
		}
		a := &entities.Account{
			ID:         strings.TrimSpace(row[cols["account_id"]]),
			CustomerID: strings.TrimSpace(row[cols["customer_id"]]),
			Balance:    balance,
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%w: accounts row %d: %v", ErrDataFile, line+2, err)
		}
		s.accounts = append(s.accounts, a)
		if _, seen := s.accountByID[a.ID]; !seen {
			s.accountIDs = append(s.accountIDs, a.ID)
			s.accountByID[a.ID] = a
		}
	}
	return nil
}

func (s *Store) loadTransfers(tbl *entities.Table) error {
	cols, err := columnIndex(tbl,
		[]string{"from_account", "to_account"},
		[]string{"transaction_id", "amount", "timestamp"},
	)
	if err != nil {
		return err
	}

	for line, row := range tbl.Rows {
		e := &entities.TransferEdge{
			FromAccountID: strings.TrimSpace(row[cols["from_account"]]),
			ToAccountID:   strings.TrimSpace(row[cols["to_account"]]),
		}
		if i, ok := cols["transaction_id"]; ok {
			e.TransactionID = strings.TrimSpace(row[i])
		}
		if i, ok := cols["amount"]; ok && strings.TrimSpace(row[i]) != "" {
			amount, err := decimal.NewFromString(strings.TrimSpace(row[i]))
			if err != nil {
				return fmt.Errorf("%w: transactions row %d: invalid amount: %v", ErrDataFile, line+2, err)
			}
			e.Amount = amount
		}
		if i, ok := cols["timestamp"]; ok && strings.TrimSpace(row[i]) != "" {
			e.Timestamp = parseTimestamp(strings.TrimSpace(row[i]))
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: transactions row %d: %v", ErrDataFile, line+2, err)
		}
		s.transfers = append(s.transfers, e)
	}
	return nil
}

// parseTimestamp accepts RFC 3339 and the common "YYYY-MM-DD HH:MM:SS" form.
// Unparsable values are kept only in the raw table.
func parseTimestamp(v string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// Tables returns the raw tables in display order
func (s *Store) Tables() []*entities.Table {
	return s.tables
}

// Customers returns all customers
func (s *Store) Customers() []*entities.Customer {
	return s.customers
}

// Accounts returns all accounts
func (s *Store) Accounts() []*entities.Account {
	return s.accounts
}

// Transfers returns all transfer edges
func (s *Store) Transfers() []*entities.TransferEdge {
	return s.transfers
}

// AccountIDs returns the unique account IDs in file order
func (s *Store) AccountIDs() []string {
	return s.accountIDs
}

// Account returns the account with the given ID
func (s *Store) Account(id string) (*entities.Account, bool) {
	a, ok := s.accountByID[id]
	return a, ok
}

// Customer returns the customer with the given ID
func (s *Store) Customer(id string) (*entities.Customer, bool) {
	c, ok := s.customerByID[id]
	return c, ok
}
