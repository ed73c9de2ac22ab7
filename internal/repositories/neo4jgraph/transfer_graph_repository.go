package neo4jgraph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/shopspring/decimal"
)

// oneHopTransfersQuery is the only query the service issues
const oneHopTransfersQuery = `
MATCH (c:Customer)-[:OWNS]->(a:Account {id: $account_id})-[:TRANSFERRED_TO]->(b:Account)
RETURN c.name AS customer, a.id AS from_account, b.id AS to_account, b.balance AS suspicious_balance
LIMIT $limit
`

// DriverProvider hands out the shared driver
type DriverProvider interface {
	Driver(ctx context.Context) (neo4j.DriverWithContext, error)
	DatabaseName() string
}

// Neo4jTransferGraphRepository implements TransferGraphRepository with Cypher
type Neo4jTransferGraphRepository struct {
	conn DriverProvider
}

// NewNeo4jTransferGraphRepository creates a new Neo4j transfer graph repository
func NewNeo4jTransferGraphRepository(conn DriverProvider) repositories.TransferGraphRepository {
	return &Neo4jTransferGraphRepository{conn: conn}
}

// FindOneHopTransfers runs the one-hop query routed to read replicas
func (r *Neo4jTransferGraphRepository) FindOneHopTransfers(ctx context.Context, accountID string, limit int) ([]*entities.Finding, error) {
	driver, err := r.conn.Driver(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repositories.ErrGraphUnavailable, err)
	}

	opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if db := r.conn.DatabaseName(); db != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(db))
	}

	result, err := neo4j.ExecuteQuery(ctx, driver, oneHopTransfersQuery,
		map[string]any{
			"account_id": accountID,
			"limit":      int64(limit),
		},
		neo4j.EagerResultTransformer,
		opts...,
	)
	if err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", repositories.ErrGraphUnavailable, err)
		}
		return nil, fmt.Errorf("failed to run transfer query: %w", err)
	}

	findings := make([]*entities.Finding, 0, len(result.Records))
	for _, rec := range result.Records {
		f, err := recordToFinding(rec)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}

	return findings, nil
}

// isUnavailable reports connectivity and authentication failures
func isUnavailable(err error) bool {
	if neo4j.IsConnectivityError(err) {
		return true
	}
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) {
		return strings.HasPrefix(nerr.Code, "Neo.ClientError.Security.")
	}
	return false
}

// recordToFinding converts one result row
func recordToFinding(rec *neo4j.Record) (*entities.Finding, error) {
	customer, err := stringValue(rec, "customer")
	if err != nil {
		return nil, err
	}
	from, err := stringValue(rec, "from_account")
	if err != nil {
		return nil, err
	}
	to, err := stringValue(rec, "to_account")
	if err != nil {
		return nil, err
	}

	raw, _ := rec.Get("suspicious_balance")
	balance, err := toDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid suspicious_balance for %s: %w", to, err)
	}

	return &entities.Finding{
		CustomerName:  customer,
		FromAccountID: from,
		ToAccountID:   to,
		Balance:       balance,
	}, nil
}

func stringValue(rec *neo4j.Record, key string) (string, error) {
	raw, ok := rec.Get(key)
	if !ok {
		return "", fmt.Errorf("missing column %s in transfer query result", key)
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		// Ids stored as integers
		return fmt.Sprint(v), nil
	}
}

// toDecimal converts a Neo4j property value; a missing balance is zero
func toDecimal(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("unsupported balance type %T", raw)
	}
}
