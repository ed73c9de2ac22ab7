package neo4jgraph

import (
	"context"
	"errors"
	"testing"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/shopspring/decimal"
)

type failingProvider struct {
	err error
}

func (p *failingProvider) Driver(ctx context.Context) (neo4j.DriverWithContext, error) {
	return nil, p.err
}

func (p *failingProvider) DatabaseName() string { return "" }

func TestFindOneHopTransfers_Unavailable(t *testing.T) {
	repo := NewNeo4jTransferGraphRepository(&failingProvider{err: errors.New("connection refused")})

	findings, err := repo.FindOneHopTransfers(context.Background(), "A1", entities.MaxFindings)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, repositories.ErrGraphUnavailable) {
		t.Errorf("expected ErrGraphUnavailable, got %v", err)
	}
	if findings != nil {
		t.Errorf("expected nil findings on error, got %v", findings)
	}
}

func TestRecordToFinding(t *testing.T) {
	keys := []string{"customer", "from_account", "to_account", "suspicious_balance"}

	tests := []struct {
		name    string
		values  []any
		want    entities.Finding
		wantErr bool
	}{
		{
			name:   "float balance",
			values: []any{"Alice", "A1", "A2", 500.0},
			want:   entities.Finding{CustomerName: "Alice", FromAccountID: "A1", ToAccountID: "A2", Balance: decimal.NewFromFloat(500.0)},
		},
		{
			name:   "integer balance",
			values: []any{"Bob", "A3", "A4", int64(1200)},
			want:   entities.Finding{CustomerName: "Bob", FromAccountID: "A3", ToAccountID: "A4", Balance: decimal.NewFromInt(1200)},
		},
		{
			name:   "string balance",
			values: []any{"Bob", "A3", "A4", "99.95"},
			want:   entities.Finding{CustomerName: "Bob", FromAccountID: "A3", ToAccountID: "A4", Balance: decimal.RequireFromString("99.95")},
		},
		{
			name:   "missing balance property",
			values: []any{"Carol", "A5", "A6", nil},
			want:   entities.Finding{CustomerName: "Carol", FromAccountID: "A5", ToAccountID: "A6", Balance: decimal.Zero},
		},
		{
			name:   "integer ids",
			values: []any{"Dave", int64(7), int64(8), 1.5},
			want:   entities.Finding{CustomerName: "Dave", FromAccountID: "7", ToAccountID: "8", Balance: decimal.NewFromFloat(1.5)},
		},
		{
			name:    "unsupported balance type",
			values:  []any{"Eve", "A1", "A2", true},
			wantErr: true,
		},
		{
			name:    "malformed string balance",
			values:  []any{"Eve", "A1", "A2", "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &neo4j.Record{Keys: keys, Values: tt.values}

			got, err := recordToFinding(rec)
			if (err != nil) != tt.wantErr {
				t.Fatalf("recordToFinding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.CustomerName != tt.want.CustomerName || got.FromAccountID != tt.want.FromAccountID ||
				got.ToAccountID != tt.want.ToAccountID || !got.Balance.Equal(tt.want.Balance) {
				t.Errorf("recordToFinding() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordToFinding_MissingColumn(t *testing.T) {
	rec := &neo4j.Record{Keys: []string{"customer"}, Values: []any{"Alice"}}
	if _, err := recordToFinding(rec); err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "auth error", err: &neo4j.Neo4jError{Code: "Neo.ClientError.Security.Unauthorized"}, want: true},
		{name: "syntax error", err: &neo4j.Neo4jError{Code: "Neo.ClientError.Statement.SyntaxError"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUnavailable(tt.err); got != tt.want {
				t.Errorf("isUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
