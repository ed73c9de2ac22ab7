package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asakaida/fraudlens/internal/handlers"
	"github.com/asakaida/fraudlens/internal/infrastructure/config"
	"github.com/asakaida/fraudlens/internal/infrastructure/database"
	"github.com/asakaida/fraudlens/internal/infrastructure/metrics"
	"github.com/asakaida/fraudlens/internal/repositories"
	"github.com/asakaida/fraudlens/internal/repositories/csvstore"
	"github.com/asakaida/fraudlens/internal/repositories/memory"
	"github.com/asakaida/fraudlens/internal/repositories/neo4jgraph"
	"github.com/asakaida/fraudlens/internal/repositories/postgres"
	"github.com/asakaida/fraudlens/internal/services/relationship"
	"github.com/asakaida/fraudlens/internal/services/report"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	defaultEnv      = "dev"
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load the CSV tables; a data error halts startup
	store, err := csvstore.Load(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("Failed to load data from %s: %v", cfg.Data.Dir, err)
	}
	log.Printf("Loaded %d customers, %d accounts, %d transfers from %s",
		len(store.Customers()), len(store.Accounts()), len(store.Transfers()), cfg.Data.Dir)

	// Initialize graph backend
	graph, closeGraph, err := newGraphRepository(cfg, store)
	if err != nil {
		log.Fatalf("Failed to initialize %s graph backend: %v", cfg.Graph.Backend, err)
	}

	// Initialize services
	var rule *relationship.SuspicionRule
	if cfg.Report.SuspicionRule != "" {
		rule, err = relationship.NewSuspicionRule(cfg.Report.SuspicionRule)
		if err != nil {
			log.Fatalf("Failed to compile suspicion rule: %v", err)
		}
	}
	relationshipService := relationship.NewService(graph, rule)

	generator, err := report.NewGenerator(cfg.Report.Strategy, &cfg.OpenAI)
	if err != nil {
		log.Fatalf("Failed to create report generator: %v", err)
	}
	log.Printf("Using %s graph backend and %s report strategy", cfg.Graph.Backend, generator.Strategy())

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector()
	exporter := metrics.NewPrometheusExporter(registry)
	recorder := metrics.NewAnalysisRecorder(collector, exporter)

	// Create HTTP dashboard
	router := mux.NewRouter()
	router.Use(metrics.HTTPMiddleware(collector, exporter))
	handlers.NewDashboardHandler(store, relationshipService, generator, recorder).RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Create gRPC server
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, exporter)))
	handlers.RegisterAnalysisServiceServer(grpcServer,
		handlers.NewAnalysisHandler(store, relationshipService, generator, recorder))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(handlers.AnalysisServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Reflection lists the services; AnalysisService has no proto descriptor,
	// so clients call it with google.protobuf.Struct payloads
	reflection.Register(grpcServer)

	// Create metrics server
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", exporter.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start listening
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	// Start servers in goroutines
	serverErrors := make(chan error, 3)
	go func() {
		log.Printf("gRPC server listening on %s", listener.Addr())
		if err := grpcServer.Serve(listener); err != nil {
			serverErrors <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()
	go func() {
		log.Printf("Dashboard listening on http://%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		log.Printf("Metrics listening on http://%s/metrics", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Printf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Initiating graceful shutdown...")
	healthServer.Shutdown()

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down dashboard: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics server: %v", err)
	}

	// Channel to notify when graceful stop completes
	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	// Wait for graceful stop or timeout
	select {
	case <-stopped:
		log.Println("Server stopped gracefully")
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded, forcing stop")
		grpcServer.Stop()
	}

	// Close graph backend connection
	if err := closeGraph(shutdownCtx); err != nil {
		log.Printf("Error closing graph backend: %v", err)
	}

	log.Println("Shutdown complete")
}

// newGraphRepository builds the configured graph backend and returns a
// function that releases its connection
func newGraphRepository(cfg *config.Config, store *csvstore.Store) (repositories.TransferGraphRepository, func(context.Context) error, error) {
	switch cfg.Graph.Backend {
	case config.BackendNeo4j:
		// The driver connects lazily on the first lookup
		conn := database.NewNeo4j(&cfg.Neo4j)
		log.Printf("Using Neo4j at %s", cfg.Neo4j.URI)
		return neo4jgraph.NewNeo4jTransferGraphRepository(conn), conn.Close, nil

	case config.BackendPostgres:
		pg, err := database.NewPostgres(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to database: %s@%s:%d/%s",
			cfg.Database.User,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Database)
		closeFn := func(context.Context) error { return pg.Close() }
		return postgres.NewPostgresTransferGraphRepository(pg.DB), closeFn, nil

	case config.BackendMemory:
		closeFn := func(context.Context) error { return nil }
		return memory.NewMemoryTransferGraphRepository(store), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown graph backend %q", cfg.Graph.Backend)
	}
}
