package entities

import (
	"time"

	"github.com/google/uuid"
)

// Report strategy names
const (
	StrategyTemplate   = "template"
	StrategyGenerative = "generative"
)

// Report is a Suspicious Activity Report generated for one account.
// Reports are regenerated on every request and never persisted.
type Report struct {
	ID          uuid.UUID
	AccountID   string
	Strategy    string // "template" or "generative"
	Body        string
	Findings    []*Finding
	GeneratedAt time.Time
}
