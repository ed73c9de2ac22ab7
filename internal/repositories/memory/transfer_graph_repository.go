package memory

import (
	"context"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
)

// MemoryTransferGraphRepository evaluates the one-hop transfer pattern over
// the tables loaded at startup
type MemoryTransferGraphRepository struct {
	tables   repositories.TableRepository
	outgoing map[string][]*entities.TransferEdge // source account ID -> edges in file order
}

// NewMemoryTransferGraphRepository indexes the transfer edges of the given tables
func NewMemoryTransferGraphRepository(tables repositories.TableRepository) repositories.TransferGraphRepository {
	outgoing := make(map[string][]*entities.TransferEdge)
	for _, e := range tables.Transfers() {
		outgoing[e.FromAccountID] = append(outgoing[e.FromAccountID], e)
	}
	return &MemoryTransferGraphRepository{tables: tables, outgoing: outgoing}
}

// FindOneHopTransfers returns one finding per outgoing edge of accountID
func (r *MemoryTransferGraphRepository) FindOneHopTransfers(ctx context.Context, accountID string, limit int) ([]*entities.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	findings := []*entities.Finding{}

	from, ok := r.tables.Account(accountID)
	if !ok {
		return findings, nil
	}
	owner, ok := r.tables.Customer(from.CustomerID)
	if !ok {
		return findings, nil
	}

	for _, e := range r.outgoing[accountID] {
		if limit > 0 && len(findings) >= limit {
			break
		}
		// A MATCH only binds existing destination nodes
		to, ok := r.tables.Account(e.ToAccountID)
		if !ok {
			continue
		}
		findings = append(findings, &entities.Finding{
			CustomerName:  owner.Name,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Balance:       to.Balance,
		})
	}

	return findings, nil
}
