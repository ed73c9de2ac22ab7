// Package report turns one-hop transfer findings into a Suspicious Activity
// Report (SAR). Two strategies share the Generator contract: a deterministic
// template and a generative one backed by an OpenAI chat completion.
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/asakaida/fraudlens/internal/infrastructure/config"
	openai "github.com/sashabaranov/go-openai"
)

// ErrGenerationFailed is wrapped by every generative strategy failure.
// Callers must not substitute a template report for it.
var ErrGenerationFailed = errors.New("report generation failed")

// Generator produces a report for an account and its findings.
// findings may be empty.
type Generator interface {
	GenerateReport(ctx context.Context, accountID string, findings []*entities.Finding) (*entities.Report, error)
	Strategy() string
}

// NewGenerator returns the generator for the configured strategy
func NewGenerator(strategy string, cfg *config.OpenAIConfig) (Generator, error) {
	switch strategy {
	case config.StrategyTemplate:
		return NewTemplateGenerator(), nil
	case config.StrategyGenerative:
		if cfg == nil || cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required for the generative strategy")
		}
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		return NewGenerativeGenerator(openai.NewClientWithConfig(clientCfg), cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown report strategy %q", strategy)
	}
}
