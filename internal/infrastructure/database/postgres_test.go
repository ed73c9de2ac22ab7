package database

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/asakaida/fraudlens/internal/infrastructure/config"
)

func TestPostgres_Close(t *testing.T) {
	tests := []struct {
		name    string
		pg      *Postgres
		wantErr bool
	}{
		{
			name:    "nil DB",
			pg:      &Postgres{DB: nil},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pg.Close()
			if (err != nil) != tt.wantErr {
				t.Errorf("Postgres.Close() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewPostgres_InvalidConfig(t *testing.T) {
	// Test with invalid configuration that should fail to connect
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     99999,
		User:     "invalid",
		Password: "invalid",
		Database: "invalid",
		SSLMode:  "disable",
	}

	pg, err := NewPostgres(cfg)
	if err == nil {
		if pg != nil && pg.DB != nil {
			pg.Close()
		}
		t.Error("NewPostgres() with invalid config should return error")
	}
}

func TestMigrations_Embedded(t *testing.T) {
	ups, err := fs.Glob(Migrations, migrationsDir+"/*.up.sql")
	if err != nil {
		t.Fatalf("fs.Glob() error = %v", err)
	}
	downs, err := fs.Glob(Migrations, migrationsDir+"/*.down.sql")
	if err != nil {
		t.Fatalf("fs.Glob() error = %v", err)
	}

	if len(ups) == 0 {
		t.Fatal("expected at least one up migration")
	}
	if len(ups) != len(downs) {
		t.Errorf("expected matching up/down migrations, got %d up and %d down", len(ups), len(downs))
	}

	data, err := fs.ReadFile(Migrations, ups[0])
	if err != nil {
		t.Fatalf("fs.ReadFile() error = %v", err)
	}
	for _, table := range []string{"graph_customers", "graph_accounts", "graph_transfers"} {
		if !strings.Contains(string(data), table) {
			t.Errorf("expected %s to create %s", ups[0], table)
		}
	}
}

func TestDatabaseConfig_Integration(t *testing.T) {
	// This is an integration test that requires a real database
	t.Skip("Integration test - requires running database")

	cfg := &config.DatabaseConfig{
		Host:     "localhost",
		Port:     25432,
		User:     "fraudlens",
		Password: "fraudlens_test_password",
		Database: "fraudlens_test",
		SSLMode:  "disable",
	}

	pg, err := NewPostgres(cfg)
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	defer pg.Close()

	if err := pg.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	if err := pg.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	if err := pg.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
