package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/lib/pq"
)

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bad connection", err: driver.ErrBadConn, want: true},
		{name: "wrapped bad connection", err: fmt.Errorf("query: %w", driver.ErrBadConn), want: true},
		{name: "dial error", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, want: true},
		{name: "auth failure", err: &pq.Error{Code: "28P01"}, want: true},
		{name: "connection exception", err: &pq.Error{Code: "08006"}, want: true},
		{name: "undefined table", err: &pq.Error{Code: "42P01"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUnavailable(tt.err); got != tt.want {
				t.Errorf("isUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPostgresTransferGraphRepository_FindOneHopTransfers(t *testing.T) {
	t.Skip("Integration test - requires running database")

	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	SeedTestGraph(t, db,
		[][2]string{{"C1", "Alice"}, {"C2", "Bob"}},
		[][3]string{{"A1", "C1", "1000"}, {"A2", "C2", "500.00"}, {"A3", "C2", "10"}},
		[][2]string{{"A1", "A2"}},
	)

	repo := NewPostgresTransferGraphRepository(db)
	ctx := context.Background()

	t.Run("single edge", func(t *testing.T) {
		findings, err := repo.FindOneHopTransfers(ctx, "A1", entities.MaxFindings)
		if err != nil {
			t.Fatalf("FindOneHopTransfers() error = %v", err)
		}
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		f := findings[0]
		if f.CustomerName != "Alice" || f.FromAccountID != "A1" || f.ToAccountID != "A2" || f.Balance.String() != "500" {
			t.Errorf("unexpected finding: %+v", f)
		}
	})

	t.Run("no outgoing edges", func(t *testing.T) {
		findings, err := repo.FindOneHopTransfers(ctx, "A3", entities.MaxFindings)
		if err != nil {
			t.Fatalf("FindOneHopTransfers() error = %v", err)
		}
		if len(findings) != 0 {
			t.Errorf("expected no findings, got %d", len(findings))
		}
	})

	t.Run("limit", func(t *testing.T) {
		edges := make([][2]string, 0, 15)
		for i := 0; i < 15; i++ {
			edges = append(edges, [2]string{"A3", "A1"})
		}
		SeedTestGraph(t, db, nil, nil, edges)

		findings, err := repo.FindOneHopTransfers(ctx, "A3", entities.MaxFindings)
		if err != nil {
			t.Fatalf("FindOneHopTransfers() error = %v", err)
		}
		if len(findings) != entities.MaxFindings {
			t.Errorf("expected %d findings, got %d", entities.MaxFindings, len(findings))
		}
	})
}
