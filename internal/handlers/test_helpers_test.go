package handlers

import (
	"context"
	"time"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mock TableRepository
type mockTables struct {
	accounts map[string]*entities.Account
	ids      []string
}

func newMockTables(ids ...string) *mockTables {
	m := &mockTables{accounts: make(map[string]*entities.Account), ids: ids}
	for _, id := range ids {
		m.accounts[id] = &entities.Account{ID: id, CustomerID: "C-" + id, Balance: decimal.NewFromInt(100)}
	}
	return m
}

func (m *mockTables) Tables() []*entities.Table {
	rows := make([][]string, 0, len(m.ids))
	for _, id := range m.ids {
		rows = append(rows, []string{id, "C-" + id, "100.0"})
	}
	return []*entities.Table{
		{Name: "accounts", Header: []string{"account_id", "customer_id", "balance"}, Rows: rows},
	}
}

func (m *mockTables) Customers() []*entities.Customer            { return nil }
func (m *mockTables) Transfers() []*entities.TransferEdge        { return nil }
func (m *mockTables) AccountIDs() []string                       { return m.ids }
func (m *mockTables) Customer(string) (*entities.Customer, bool) { return nil, false }

func (m *mockTables) Accounts() []*entities.Account {
	out := make([]*entities.Account, 0, len(m.ids))
	for _, id := range m.ids {
		out = append(out, m.accounts[id])
	}
	return out
}

func (m *mockTables) Account(id string) (*entities.Account, bool) {
	a, ok := m.accounts[id]
	return a, ok
}

// Mock relationship.ServiceInterface
type mockRelationshipService struct {
	findFunc func(ctx context.Context, accountID string) ([]*entities.Finding, error)
	calls    int
}

func (m *mockRelationshipService) FindOneHopTransfers(ctx context.Context, accountID string) ([]*entities.Finding, error) {
	m.calls++
	if m.findFunc != nil {
		return m.findFunc(ctx, accountID)
	}
	return []*entities.Finding{}, nil
}

// Mock report.Generator
type mockGenerator struct {
	generateFunc func(ctx context.Context, accountID string, findings []*entities.Finding) (*entities.Report, error)
	strategy     string
	calls        int
}

func (m *mockGenerator) GenerateReport(ctx context.Context, accountID string, findings []*entities.Finding) (*entities.Report, error) {
	m.calls++
	if m.generateFunc != nil {
		return m.generateFunc(ctx, accountID, findings)
	}
	return &entities.Report{
		ID:          uuid.New(),
		AccountID:   accountID,
		Strategy:    m.Strategy(),
		Body:        "Account " + accountID + " shows a possible suspicious pattern.",
		Findings:    findings,
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (m *mockGenerator) Strategy() string {
	if m.strategy == "" {
		return entities.StrategyTemplate
	}
	return m.strategy
}

// recordingObserver counts observed outcomes
type recordingObserver struct {
	lookups          []int
	graphUnavailable int
	reports          map[string]int
	reportFailures   map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{reports: map[string]int{}, reportFailures: map[string]int{}}
}

func (o *recordingObserver) ObserveLookup(findings int) { o.lookups = append(o.lookups, findings) }
func (o *recordingObserver) ObserveGraphUnavailable()   { o.graphUnavailable++ }

func (o *recordingObserver) ObserveReport(strategy string, err error) {
	if err != nil {
		o.reportFailures[strategy]++
		return
	}
	o.reports[strategy]++
}

func aliceFinding() *entities.Finding {
	return &entities.Finding{
		CustomerName:  "Alice",
		FromAccountID: "A1",
		ToAccountID:   "A2",
		Balance:       decimal.NewFromFloat(500.0),
	}
}
