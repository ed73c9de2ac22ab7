package e2e

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/asakaida/fraudlens/internal/handlers"
	"github.com/asakaida/fraudlens/internal/infrastructure/config"
	"github.com/asakaida/fraudlens/internal/infrastructure/metrics"
	"github.com/asakaida/fraudlens/internal/repositories/csvstore"
	"github.com/asakaida/fraudlens/internal/repositories/memory"
	"github.com/asakaida/fraudlens/internal/services/relationship"
	"github.com/asakaida/fraudlens/internal/services/report"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

// Dataset is the content of the three CSV files
type Dataset struct {
	Customers    string
	Accounts     string
	Transactions string
}

// scenarioDataset has Alice (A1) sending to A2 with balance 500.0, and A3
// without outgoing transfers
var scenarioDataset = Dataset{
	Customers: `customer_id,name
C1,Alice
C2,Bob
C3,Carol
`,
	Accounts: `account_id,customer_id,balance
A1,C1,1000.0
A2,C2,500.0
A3,C3,20000.0
`,
	Transactions: `transaction_id,from_account,to_account,amount,timestamp
T1,A1,A2,100.0,2024-01-01 10:00:00
T2,A2,A3,50.0,2024-01-02 10:00:00
`,
}

// E2ETestServer represents an E2E test server
type E2ETestServer struct {
	Server    *grpc.Server
	Client    *handlers.AnalysisServiceClient
	Conn      *grpc.ClientConn
	Listener  *bufconn.Listener
	Collector *metrics.Collector
}

// SetupE2ETest writes dataset to a temporary directory and serves it over
// bufconn with the memory graph backend
func SetupE2ETest(t *testing.T, dataset Dataset, openAI *config.OpenAIConfig) *E2ETestServer {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		csvstore.CustomersFile:    dataset.Customers,
		csvstore.AccountsFile:     dataset.Accounts,
		csvstore.TransactionsFile: dataset.Transactions,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	store, err := csvstore.Load(dir)
	if err != nil {
		t.Fatalf("failed to load dataset: %v", err)
	}

	rule, err := relationship.NewSuspicionRule("finding.balance > 10000.0")
	if err != nil {
		t.Fatalf("failed to compile suspicion rule: %v", err)
	}
	relationshipService := relationship.NewService(memory.NewMemoryTransferGraphRepository(store), rule)

	strategy := config.StrategyTemplate
	if openAI != nil {
		strategy = config.StrategyGenerative
	}
	generator, err := report.NewGenerator(strategy, openAI)
	if err != nil {
		t.Fatalf("failed to create report generator: %v", err)
	}

	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(prometheus.NewRegistry())
	handler := handlers.NewAnalysisHandler(store, relationshipService, generator, metrics.NewAnalysisRecorder(collector, exporter))

	// Create in-memory gRPC server with bufconn
	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer(grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, exporter)))
	handlers.RegisterAnalysisServiceServer(server, handler)

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	bufDialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}
	conn, err := grpc.NewClient(
		"passthrough://bufconn",
		grpc.WithContextDialer(bufDialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		server.Stop()
		t.Fatalf("failed to create client connection: %v", err)
	}

	return &E2ETestServer{
		Server:    server,
		Client:    handlers.NewAnalysisServiceClient(conn),
		Conn:      conn,
		Listener:  listener,
		Collector: collector,
	}
}

// Teardown cleans up the E2E test environment
func (e *E2ETestServer) Teardown(t *testing.T) {
	t.Helper()

	if e.Conn != nil {
		e.Conn.Close()
	}
	if e.Server != nil {
		e.Server.Stop()
	}
	if e.Listener != nil {
		e.Listener.Close()
	}
}
