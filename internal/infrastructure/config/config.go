package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Graph backends
const (
	BackendNeo4j    = "neo4j"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Report strategies
const (
	StrategyTemplate   = "template"
	StrategyGenerative = "generative"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Graph    GraphConfig
	Neo4j    Neo4jConfig
	Database DatabaseConfig
	Report   ReportConfig
	OpenAI   OpenAIConfig
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host        string
	Port        int // gRPC port
	HTTPPort    int // Dashboard port
	MetricsPort int // Port for Prometheus metrics HTTP server
}

// DataConfig represents the location of the CSV tables
type DataConfig struct {
	Dir string
}

// GraphConfig selects the graph backend
type GraphConfig struct {
	Backend string // neo4j, postgres or memory
}

// Neo4jConfig represents Neo4j connection settings
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
	Database string // Empty means the server default database
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ReportConfig represents report generation settings
type ReportConfig struct {
	Strategy      string // template or generative
	SuspicionRule string // CEL expression over finding.*, empty disables flagging
}

// OpenAIConfig represents the text generation service settings
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string // Empty means the public OpenAI endpoint
	Model     string
	MaxTokens int
}

// secrets holds values from the secrets file. It is consulted before
// environment variables and the .env file.
var secrets *viper.Viper

// findProjectRoot finds the project root directory by looking for go.mod
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree until we find go.mod
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached the root directory
			return "", fmt.Errorf("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// InitConfig initializes viper configuration
// env: environment name (dev, test, prod)
func InitConfig(env string) error {
	if env == "" {
		env = "dev"
	}

	// Deployed binaries run outside the source tree
	projectRoot, err := findProjectRoot()
	if err != nil {
		projectRoot, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	// Set config file name based on environment
	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(projectRoot) // Project root

	// Read config file (optional, ignore error if not found)
	_ = viper.ReadInConfig()

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 50051)
	viper.SetDefault("HTTP_PORT", 8501)
	viper.SetDefault("METRICS_PORT", 9090)
	viper.SetDefault("DATA_DIR", filepath.Join(projectRoot, "data"))
	viper.SetDefault("SECRETS_FILE", filepath.Join(projectRoot, ".secrets.toml"))

	viper.SetDefault("GRAPH_BACKEND", BackendNeo4j)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 15432)
	viper.SetDefault("DB_USER", "fraudlens")
	viper.SetDefault("DB_NAME", "fraudlens_dev")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("REPORT_STRATEGY", StrategyTemplate)
	viper.SetDefault("SUSPICION_RULE", "finding.balance > 10000.0")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("OPENAI_MAX_TOKENS", 300)

	return loadSecrets(viper.GetString("SECRETS_FILE"))
}

// loadSecrets reads the optional TOML secrets file
func loadSecrets(path string) error {
	secrets = viper.New()
	if path == "" {
		return nil
	}

	secrets.SetConfigFile(path)
	secrets.SetConfigType("toml")
	if err := secrets.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read secrets file %s: %w", path, err)
	}

	return nil
}

// secret looks a key up in the secrets file first, then falls back to viper
// (environment variables, then the .env file)
func secret(key string) string {
	if secrets != nil {
		if v := strings.TrimSpace(secrets.GetString(key)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(viper.GetString(key))
}

// Load loads configuration from viper.
// Credentials required by the selected backend and strategy have no
// defaults; a missing one is an error.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("SERVER_HOST"),
			Port:        viper.GetInt("SERVER_PORT"),
			HTTPPort:    viper.GetInt("HTTP_PORT"),
			MetricsPort: viper.GetInt("METRICS_PORT"),
		},
		Data: DataConfig{
			Dir: viper.GetString("DATA_DIR"),
		},
		Graph: GraphConfig{
			Backend: strings.ToLower(viper.GetString("GRAPH_BACKEND")),
		},
		Neo4j: Neo4jConfig{
			URI:      secret("NEO4J_URI"),
			Username: secret("NEO4J_USERNAME"),
			Password: secret("NEO4J_PASSWORD"),
			Database: viper.GetString("NEO4J_DATABASE"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: secret("DB_PASSWORD"),
			Database: viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Report: ReportConfig{
			Strategy:      strings.ToLower(viper.GetString("REPORT_STRATEGY")),
			SuspicionRule: viper.GetString("SUSPICION_RULE"),
		},
		OpenAI: OpenAIConfig{
			APIKey:    secret("OPENAI_API_KEY"),
			BaseURL:   viper.GetString("OPENAI_BASE_URL"),
			Model:     viper.GetString("OPENAI_MODEL"),
			MaxTokens: viper.GetInt("OPENAI_MAX_TOKENS"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the selected backend and strategy are known and that
// their credentials are present
func (c *Config) Validate() error {
	switch c.Graph.Backend {
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return fmt.Errorf("NEO4J_URI is required (set via secrets file, environment variable or .env file)")
		}
		if c.Neo4j.Username == "" {
			return fmt.Errorf("NEO4J_USERNAME is required (set via secrets file, environment variable or .env file)")
		}
		if c.Neo4j.Password == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required (set via secrets file, environment variable or .env file)")
		}
	case BackendPostgres:
		// DB_PASSWORD is required for security
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required (set via secrets file, environment variable or .env file)")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown GRAPH_BACKEND %q (want neo4j, postgres or memory)", c.Graph.Backend)
	}

	switch c.Report.Strategy {
	case StrategyTemplate:
	case StrategyGenerative:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the generative report strategy")
		}
		if c.OpenAI.MaxTokens <= 0 {
			return fmt.Errorf("OPENAI_MAX_TOKENS must be positive, got %d", c.OpenAI.MaxTokens)
		}
	default:
		return fmt.Errorf("unknown REPORT_STRATEGY %q (want template or generative)", c.Report.Strategy)
	}

	return nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
