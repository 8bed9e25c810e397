package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/josevenzke/bank-api/internal/adapter/grpc"
	httpadapter "github.com/josevenzke/bank-api/internal/adapter/http"
	"github.com/josevenzke/bank-api/internal/adapter/repository/memory"
	"github.com/josevenzke/bank-api/internal/adapter/repository/postgres"
	"github.com/josevenzke/bank-api/internal/config"
	"github.com/josevenzke/bank-api/internal/domain"
	"github.com/josevenzke/bank-api/internal/usecase/ledger"
	"github.com/josevenzke/bank-api/internal/usecase/registry"
	"github.com/josevenzke/bank-api/internal/usecase/statement"
)

const shutdownTimeout = 10 * time.Second

// repositories groups the three stores every service is built from
type repositories struct {
	persons      domain.PersonRepository
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
	close        func() error
}

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize Repositories
	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repos.close()

	// 3. Initialize Services (Use Cases)
	registryService := registry.NewRegistryService(repos.persons)
	ledgerService := ledger.NewLedgerService(repos.persons, repos.accounts, repos.transactions, ledger.Policy{
		EnforceActive: cfg.EnforceActive,
	})
	statementService := statement.NewStatementService(repos.accounts, repos.transactions)

	// 4. Start HTTP Server
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      httpadapter.NewServer(registryService, ledgerService, statementService).Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// 5. Start gRPC Server
	var grpcServer *grpclib.Server
	if cfg.GRPCAddress != "" {
		grpcServer = grpclib.NewServer(
			grpclib.ChainUnaryInterceptor(grpcadapter.RecoveryInterceptor(), grpcadapter.LoggingInterceptor()),
		)
		grpcadapter.RegisterLedgerServer(grpcServer, grpcadapter.NewServer(ledgerService))
		reflection.Register(grpcServer)

		lis, err := net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddress, err)
		}

		go func() {
			log.Printf("gRPC server listening on %s", cfg.GRPCAddress)
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatalf("Failed to serve gRPC server: %v", err)
			}
		}()
	}

	// Graceful shutdown
	waitForShutdown(httpServer, grpcServer)
}

// openRepositories builds the configured storage backend
func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Storage == config.StorageMemory {
		log.Println("Using in-memory storage")
		store := memory.NewStore()
		return &repositories{
			persons:      store.Persons(),
			accounts:     store.Accounts(),
			transactions: store.Transactions(),
			close:        func() error { return nil },
		}, nil
	}

	db, err := postgres.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("Connected to PostgreSQL")

	return &repositories{
		persons:      postgres.NewPersonRepository(db),
		accounts:     postgres.NewAccountRepository(db),
		transactions: postgres.NewTransactionRepository(db),
		close:        db.Close,
	}, nil
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the servers
func waitForShutdown(httpServer *http.Server, grpcServer *grpclib.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	log.Println("HTTP server stopped")

	if grpcServer != nil {
		grpcServer.GracefulStop()
		log.Println("gRPC server stopped")
	}
}
