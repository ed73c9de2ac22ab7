package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransferEdge represents a directed money transfer between two accounts.
// Edges are neither unique nor acyclic.
type TransferEdge struct {
	TransactionID string          // Transaction ID (optional)
	FromAccountID string          // Source account ID
	ToAccountID   string          // Destination account ID
	Amount        decimal.Decimal // Transferred amount (zero when unknown)
	Timestamp     time.Time       // Transfer time (zero when unknown)
}

// String returns a string representation of the edge
// Format: account:from->account:to
func (e *TransferEdge) String() string {
	return fmt.Sprintf("account:%s->account:%s", e.FromAccountID, e.ToAccountID)
}

// Validate checks if the transfer edge is valid
func (e *TransferEdge) Validate() error {
	if e.FromAccountID == "" {
		return fmt.Errorf("source account ID is required")
	}
	if e.ToAccountID == "" {
		return fmt.Errorf("destination account ID is required")
	}
	return nil
}
