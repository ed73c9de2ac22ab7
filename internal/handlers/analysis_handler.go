package handlers

import (
	"context"
	"strings"

	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/asakaida/fraudlens/internal/services/relationship"
	"github.com/asakaida/fraudlens/internal/services/report"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AnalysisHandler handles AnalysisService gRPC requests
type AnalysisHandler struct {
	analysis *analysis
}

// NewAnalysisHandler creates a new AnalysisHandler. observer may be nil.
func NewAnalysisHandler(
	tables repositories.TableRepository,
	relationshipService relationship.ServiceInterface,
	generator report.Generator,
	observer AnalysisObserver,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysis: newAnalysis(tables, relationshipService, generator, observer),
	}
}

// FindTransfers handles the FindTransfers RPC
func (h *AnalysisHandler) FindTransfers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID := strings.TrimSpace(accountIDFromStruct(req))

	findings, err := h.analysis.findTransfers(ctx, accountID)
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := findingsToStruct(accountID, findings)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode findings: %v", err)
	}
	return resp, nil
}

// GenerateReport handles the GenerateReport RPC
func (h *AnalysisHandler) GenerateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rep, err := h.analysis.generateReport(ctx, accountIDFromStruct(req))
	if err != nil {
		return nil, toStatusError(err)
	}

	resp, err := reportToStruct(rep)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode report: %v", err)
	}
	return resp, nil
}
