package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/asakaida/fraudlens/internal/infrastructure/config"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4j owns the process-wide Neo4j driver.
// The driver is created on first use and then reused by every request.
type Neo4j struct {
	cfg config.Neo4jConfig

	mu     sync.Mutex
	driver neo4j.DriverWithContext
}

// NewNeo4j creates a Neo4j handle without connecting
func NewNeo4j(cfg *config.Neo4jConfig) *Neo4j {
	return &Neo4j{cfg: *cfg}
}

// Driver returns the shared driver, creating and verifying it on first call.
// A failed attempt is not cached; the next call tries again.
func (n *Neo4j) Driver(ctx context.Context) (neo4j.DriverWithContext, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.driver != nil {
		return n.driver, nil
	}

	driver, err := neo4j.NewDriverWithContext(
		n.cfg.URI,
		neo4j.BasicAuth(n.cfg.Username, n.cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	n.driver = driver
	return n.driver, nil
}

// DatabaseName returns the configured database, empty for the server default
func (n *Neo4j) DatabaseName() string {
	return n.cfg.Database
}

// Close closes the driver if it was created
func (n *Neo4j) Close(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.driver == nil {
		return nil
	}
	err := n.driver.Close(ctx)
	n.driver = nil
	return err
}
