package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asakaida/fraudlens/internal/entities"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the part of the OpenAI client the generator needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// GenerativeGenerator delegates the report text to a chat completion model.
// A single failed call is terminal; there are no retries.
type GenerativeGenerator struct {
	client    ChatCompleter
	model     string
	maxTokens int
	now       func() time.Time
}

// NewGenerativeGenerator creates a new GenerativeGenerator
func NewGenerativeGenerator(client ChatCompleter, model string, maxTokens int) *GenerativeGenerator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &GenerativeGenerator{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
		now:       time.Now,
	}
}

// Strategy returns "generative"
func (g *GenerativeGenerator) Strategy() string {
	return entities.StrategyGenerative
}

// GenerateReport sends the prompt and returns the model output verbatim
func (g *GenerativeGenerator) GenerateReport(ctx context.Context, accountID string, findings []*entities.Finding) (*entities.Report, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(accountID, findings)},
		},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: model returned no choices", ErrGenerationFailed)
	}

	body := resp.Choices[0].Message.Content
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: model returned empty content", ErrGenerationFailed)
	}

	return &entities.Report{
		ID:          uuid.New(),
		AccountID:   accountID,
		Strategy:    entities.StrategyGenerative,
		Body:        body,
		Findings:    findings,
		GeneratedAt: g.now(),
	}, nil
}

// BuildPrompt embeds the literal findings into the analyst instruction
func BuildPrompt(accountID string, findings []*entities.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an anti-money laundering analyst. Based on the following transaction graph data for account %s, write a concise Suspicious Activity Report summary:\n\n", accountID)

	if len(findings) == 0 {
		b.WriteString("No linked transfers were found for this account.\n")
	}
	for _, f := range findings {
		fmt.Fprintf(&b, "- customer: %s, from_account: %s, to_account: %s, suspicious_balance: %s",
			f.CustomerName, f.FromAccountID, f.ToAccountID, f.Balance.StringFixed(2))
		if f.Flagged {
			b.WriteString(" (flagged by rule)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nEmphasize suspicious transaction flows, sudden balance increases, or circular money movements.\n")

	return b.String()
}
