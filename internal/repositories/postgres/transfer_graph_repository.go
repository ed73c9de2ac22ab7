package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PostgresTransferGraphRepository implements TransferGraphRepository over the
// graph_* tables. The tables are populated outside this service.
type PostgresTransferGraphRepository struct {
	db *sql.DB
}

// NewPostgresTransferGraphRepository creates a new PostgreSQL transfer graph repository
func NewPostgresTransferGraphRepository(db *sql.DB) repositories.TransferGraphRepository {
	return &PostgresTransferGraphRepository{db: db}
}

// FindOneHopTransfers evaluates the one-hop pattern as a join:
// owner (customer) -> account -> transfer -> destination account
func (r *PostgresTransferGraphRepository) FindOneHopTransfers(ctx context.Context, accountID string, limit int) ([]*entities.Finding, error) {
	query := `
		SELECT c.name, a.id, b.id, b.balance
		FROM graph_accounts a
		JOIN graph_customers c ON c.id = a.customer_id
		JOIN graph_transfers t ON t.from_account_id = a.id
		JOIN graph_accounts b ON b.id = t.to_account_id
		WHERE a.id = $1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		if isUnavailable(err) {
			return nil, fmt.Errorf("%w: %v", repositories.ErrGraphUnavailable, err)
		}
		return nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	findings := []*entities.Finding{}
	for rows.Next() {
		var f entities.Finding
		var balance decimal.NullDecimal

		if err := rows.Scan(&f.CustomerName, &f.FromAccountID, &f.ToAccountID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		if balance.Valid {
			f.Balance = balance.Decimal
		}

		findings = append(findings, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transfers: %w", err)
	}

	return findings, nil
}

// isUnavailable reports connection and authentication failures
func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "28": // connection_exception, invalid_authorization_specification
			return true
		}
	}
	return false
}
