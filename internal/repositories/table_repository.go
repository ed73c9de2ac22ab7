package repositories

import (
	"github.com/asakaida/fraudlens/internal/entities"
)

// TableRepository defines read access to the tabular data loaded at startup.
// Implementations are immutable after construction.
type TableRepository interface {
	// Tables returns the raw tables in display order (customers, accounts, transactions)
	Tables() []*entities.Table

	// Customers returns all customers
	Customers() []*entities.Customer

	// Accounts returns all accounts
	Accounts() []*entities.Account

	// Transfers returns all transfer edges
	Transfers() []*entities.TransferEdge

	// AccountIDs returns the unique account IDs in file order
	AccountIDs() []string

	// Account returns the account with the given ID, or nil and false
	Account(id string) (*entities.Account, bool)

	// Customer returns the customer with the given ID, or nil and false
	Customer(id string) (*entities.Customer, bool)
}
