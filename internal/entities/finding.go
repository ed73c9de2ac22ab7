package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxFindings is the maximum number of findings returned for a single account
const MaxFindings = 10

// Finding is one row of the one-hop transfer pattern:
// (customer)-[:OWNS]->(from)-[:TRANSFERRED_TO]->(to)
type Finding struct {
	CustomerName  string          // Name of the customer owning the source account
	FromAccountID string          // Queried (source) account ID
	ToAccountID   string          // Destination account ID
	Balance       decimal.Decimal // Destination account balance
	Flagged       bool            // Set when the suspicion rule matched
}

// String returns a human readable line for the finding
// Format: customer sent from A1 to A2 (balance: 500.00)
func (f *Finding) String() string {
	s := fmt.Sprintf("%s sent from %s to %s (balance: %s)",
		f.CustomerName, f.FromAccountID, f.ToAccountID, f.Balance.StringFixed(2))
	if f.Flagged {
		s += " [flagged]"
	}
	return s
}
