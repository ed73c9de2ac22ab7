package repositories

import (
	"context"
	"errors"

	"github.com/asakaida/fraudlens/internal/entities"
)

// ErrGraphUnavailable is wrapped by backends when the graph store cannot be
// reached or rejects the credentials
var ErrGraphUnavailable = errors.New("graph store unavailable")

// TransferGraphRepository defines the interface for the one-hop transfer lookup:
//
//	(c:Customer)-[:OWNS]->(a:Account {id: accountID})-[:TRANSFERRED_TO]->(b:Account)
//
// An account with no owner, no outgoing edges or no node at all yields an
// empty result, never an error.
type TransferGraphRepository interface {
	// FindOneHopTransfers returns at most limit findings for the account
	FindOneHopTransfers(ctx context.Context, accountID string, limit int) ([]*entities.Finding, error)
}
