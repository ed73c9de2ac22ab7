package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/asakaida/fraudlens/internal/infrastructure/config"
	"github.com/asakaida/fraudlens/internal/infrastructure/database"
	_ "github.com/lib/pq"
)

// SetupTestDB creates a test database connection and runs migrations
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	t.Setenv("GRAPH_BACKEND", config.BackendPostgres)

	// Initialize test config
	if err := config.InitConfig("test"); err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := pg.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return pg.DB
}

// SeedTestGraph inserts customers, accounts and transfers for a test
func SeedTestGraph(t *testing.T, db *sql.DB, customers [][2]string, accounts [][3]string, transfers [][2]string) {
	t.Helper()

	for _, c := range customers {
		if _, err := db.Exec(`INSERT INTO graph_customers (id, name) VALUES ($1, $2)`, c[0], c[1]); err != nil {
			t.Fatalf("Failed to insert customer %s: %v", c[0], err)
		}
	}
	for _, a := range accounts {
		if _, err := db.Exec(`INSERT INTO graph_accounts (id, customer_id, balance) VALUES ($1, $2, $3)`, a[0], a[1], a[2]); err != nil {
			t.Fatalf("Failed to insert account %s: %v", a[0], err)
		}
	}
	for _, e := range transfers {
		if _, err := db.Exec(`INSERT INTO graph_transfers (from_account_id, to_account_id) VALUES ($1, $2)`, e[0], e[1]); err != nil {
			t.Fatalf("Failed to insert transfer %s->%s: %v", e[0], e[1], err)
		}
	}
}

// CleanupTestDB closes the database connection and cleans up test data
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	// Children first
	tables := []string{"graph_transfers", "graph_accounts", "graph_customers"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("Warning: Failed to clean up table %s: %v", table, err)
		}
	}

	if err := db.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}
