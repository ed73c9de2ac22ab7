package report

import (
	"context"
	"fmt"
	"time"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/google/uuid"
)

// reportNamespace seeds deterministic template report IDs
var reportNamespace = uuid.MustParse("6f1d2c1e-8a4b-5c3d-9e7f-0a1b2c3d4e5f")

// TemplateGenerator emits a fixed-shape report without any external call
type TemplateGenerator struct {
	now func() time.Time
}

// NewTemplateGenerator creates a new TemplateGenerator
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{now: time.Now}
}

// Strategy returns "template"
func (g *TemplateGenerator) Strategy() string {
	return entities.StrategyTemplate
}

// GenerateReport never fails. Identical input yields identical body and ID.
func (g *TemplateGenerator) GenerateReport(ctx context.Context, accountID string, findings []*entities.Finding) (*entities.Report, error) {
	body := TemplateBody(accountID, findings)

	return &entities.Report{
		ID:          uuid.NewSHA1(reportNamespace, []byte(accountID+"\n"+body)),
		AccountID:   accountID,
		Strategy:    entities.StrategyTemplate,
		Body:        body,
		Findings:    findings,
		GeneratedAt: g.now(),
	}, nil
}

// TemplateBody renders the template sentence
func TemplateBody(accountID string, findings []*entities.Finding) string {
	var linked string
	switch n := len(findings); n {
	case 0:
		linked = "No linked transfers were found"
	case 1:
		linked = "1 linked transfer was found"
	default:
		linked = fmt.Sprintf("%d linked transfers were found", n)
	}

	return fmt.Sprintf("Account %s shows a possible suspicious pattern. %s; manual review is recommended.", accountID, linked)
}
