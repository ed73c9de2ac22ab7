package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account represents a bank account owned by a customer
// Example: account:A1 owned by customer:C1 with balance 500.00
type Account struct {
	ID         string          // Account ID (e.g., "A1")
	CustomerID string          // Owning customer ID (e.g., "C1")
	Balance    decimal.Decimal // Current balance
}

// String returns a string representation of the account
// Format: account:id@customer:customer_id
func (a *Account) String() string {
	return fmt.Sprintf("account:%s@customer:%s", a.ID, a.CustomerID)
}

// Validate checks if the account is valid.
// The owning customer is not looked up here; referential integrity is the
// responsibility of whatever produced the source data.
func (a *Account) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("account ID is required")
	}
	if a.CustomerID == "" {
		return fmt.Errorf("customer ID is required")
	}
	return nil
}
