// Package relationship answers the one-hop transfer question: which accounts
// received funds from a given account, and who owns the sender.
package relationship

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
)

// ErrInvalidAccountID is returned for an empty account ID
var ErrInvalidAccountID = errors.New("account ID is required")

// ServiceInterface defines the relationship lookup operation
type ServiceInterface interface {
	FindOneHopTransfers(ctx context.Context, accountID string) ([]*entities.Finding, error)
}

// Service runs the one-hop transfer lookup against a graph backend
type Service struct {
	graph repositories.TransferGraphRepository
	rule  *SuspicionRule // optional
}

// NewService creates a new relationship service. rule may be nil.
func NewService(graph repositories.TransferGraphRepository, rule *SuspicionRule) *Service {
	return &Service{
		graph: graph,
		rule:  rule,
	}
}

// FindOneHopTransfers returns at most entities.MaxFindings findings whose
// source is accountID. An empty result is not an error. Backend failures are
// returned as-is (wrapped) and never retried.
func (s *Service) FindOneHopTransfers(ctx context.Context, accountID string) ([]*entities.Finding, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	rows, err := s.graph.FindOneHopTransfers(ctx, accountID, entities.MaxFindings)
	if err != nil {
		return nil, fmt.Errorf("failed to look up transfers for %s: %w", accountID, err)
	}

	findings := make([]*entities.Finding, 0, len(rows))
	for _, f := range rows {
		if len(findings) == entities.MaxFindings {
			break
		}
		if f == nil || f.FromAccountID != accountID {
			continue
		}
		s.flag(f)
		findings = append(findings, f)
	}

	return findings, nil
}

// flag applies the suspicion rule; evaluation errors leave the finding unflagged
func (s *Service) flag(f *entities.Finding) {
	if s.rule == nil {
		return
	}
	matched, err := s.rule.Matches(f)
	if err != nil {
		log.Printf("suspicion rule %q failed for %s->%s: %v", s.rule, f.FromAccountID, f.ToAccountID, err)
		return
	}
	f.Flagged = matched
}
