package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/asakaida/fraudlens/internal/services/relationship"
	"github.com/asakaida/fraudlens/internal/services/report"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrUnknownAccount is returned for an account ID that is not in the accounts table
var ErrUnknownAccount = errors.New("unknown account")

// AnalysisObserver receives the outcome of every lookup and report.
// *metrics.AnalysisRecorder implements it.
type AnalysisObserver interface {
	ObserveLookup(findings int)
	ObserveGraphUnavailable()
	ObserveReport(strategy string, err error)
}

type noopObserver struct{}

func (noopObserver) ObserveLookup(int)           {}
func (noopObserver) ObserveGraphUnavailable()    {}
func (noopObserver) ObserveReport(string, error) {}

// analysis is the action flow shared by the dashboard and the gRPC service:
// validate the account, look up transfers, optionally generate a report.
type analysis struct {
	tables       repositories.TableRepository
	relationship relationship.ServiceInterface
	generator    report.Generator
	observer     AnalysisObserver
}

func newAnalysis(
	tables repositories.TableRepository,
	relationshipService relationship.ServiceInterface,
	generator report.Generator,
	observer AnalysisObserver,
) *analysis {
	if observer == nil {
		observer = noopObserver{}
	}
	return &analysis{
		tables:       tables,
		relationship: relationshipService,
		generator:    generator,
		observer:     observer,
	}
}

func (a *analysis) checkAccount(accountID string) (string, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return "", relationship.ErrInvalidAccountID
	}
	if _, ok := a.tables.Account(accountID); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAccount, accountID)
	}
	return accountID, nil
}

func (a *analysis) findTransfers(ctx context.Context, accountID string) ([]*entities.Finding, error) {
	accountID, err := a.checkAccount(accountID)
	if err != nil {
		return nil, err
	}

	findings, err := a.relationship.FindOneHopTransfers(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrGraphUnavailable) {
			a.observer.ObserveGraphUnavailable()
		}
		return nil, err
	}

	a.observer.ObserveLookup(len(findings))
	return findings, nil
}

func (a *analysis) generateReport(ctx context.Context, accountID string) (*entities.Report, error) {
	findings, err := a.findTransfers(ctx, accountID)
	if err != nil {
		return nil, err
	}

	rep, err := a.generator.GenerateReport(ctx, strings.TrimSpace(accountID), findings)
	a.observer.ObserveReport(a.generator.Strategy(), err)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// toStatusError maps analysis errors to gRPC status codes
func toStatusError(err error) error {
	switch {
	case errors.Is(err, relationship.ErrInvalidAccountID), errors.Is(err, ErrUnknownAccount):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, repositories.ErrGraphUnavailable):
		return status.Errorf(codes.Unavailable, "graph store unavailable: %v", err)
	case errors.Is(err, report.ErrGenerationFailed):
		return status.Errorf(codes.Unavailable, "report generation failed: %v", err)
	default:
		return status.Errorf(codes.Internal, "analysis failed: %v", err)
	}
}

func accountIDFromStruct(req *structpb.Struct) string {
	if req == nil {
		return ""
	}
	return req.GetFields()["account_id"].GetStringValue()
}

func findingsToList(findings []*entities.Finding) []interface{} {
	list := make([]interface{}, 0, len(findings))
	for _, f := range findings {
		list = append(list, map[string]interface{}{
			"customer_name":   f.CustomerName,
			"from_account_id": f.FromAccountID,
			"to_account_id":   f.ToAccountID,
			"balance":         f.Balance.InexactFloat64(),
			"flagged":         f.Flagged,
		})
	}
	return list
}

func findingsToStruct(accountID string, findings []*entities.Finding) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"account_id": accountID,
		"findings":   findingsToList(findings),
	})
}

func reportToStruct(r *entities.Report) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":           r.ID.String(),
		"account_id":   r.AccountID,
		"strategy":     r.Strategy,
		"body":         r.Body,
		"generated_at": r.GeneratedAt.UTC().Format(time.RFC3339),
		"findings":     findingsToList(r.Findings),
	})
}
