package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFinding_String(t *testing.T) {
	tests := []struct {
		name string
		f    Finding
		want string
	}{
		{
			name: "plain finding",
			f: Finding{
				CustomerName:  "Alice",
				FromAccountID: "A1",
				ToAccountID:   "A2",
				Balance:       decimal.NewFromFloat(500.0),
			},
			want: "Alice sent from A1 to A2 (balance: 500.00)",
		},
		{
			name: "flagged finding",
			f: Finding{
				CustomerName:  "Bob",
				FromAccountID: "A3",
				ToAccountID:   "A4",
				Balance:       decimal.RequireFromString("12500.5"),
				Flagged:       true,
			},
			want: "Bob sent from A3 to A4 (balance: 12500.50) [flagged]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.String(); got != tt.want {
				t.Errorf("Finding.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTable_Len(t *testing.T) {
	tbl := Table{Name: "customers", Header: []string{"customer_id", "name"}, Rows: [][]string{{"C1", "Alice"}, {"C2", "Bob"}}}
	if got := tbl.Len(); got != 2 {
		t.Errorf("Table.Len() = %d, want 2", got)
	}
}
