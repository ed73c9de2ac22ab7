package relationship

import (
	"context"

	"github.com/asakaida/fraudlens/internal/entities"
)

// Mock TransferGraphRepository
type mockTransferGraph struct {
	findFunc  func(ctx context.Context, accountID string, limit int) ([]*entities.Finding, error)
	lastLimit int
	calls     int
}

func (m *mockTransferGraph) FindOneHopTransfers(ctx context.Context, accountID string, limit int) ([]*entities.Finding, error) {
	m.calls++
	m.lastLimit = limit
	if m.findFunc != nil {
		return m.findFunc(ctx, accountID, limit)
	}
	return []*entities.Finding{}, nil
}
