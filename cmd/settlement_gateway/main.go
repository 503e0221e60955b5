package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/settlement-reporting/internal/api_gateway"
	"github.com/settlement-reporting/internal/api_gateway/middleware"
	gatewaysvc "github.com/settlement-reporting/internal/api_gateway/service"
	"github.com/settlement-reporting/internal/config"
	"github.com/settlement-reporting/internal/data/mongo"
	"github.com/settlement-reporting/internal/data/postgres"
	"github.com/settlement-reporting/internal/logger"
	"github.com/settlement-reporting/internal/platform/encryption"
	"github.com/settlement-reporting/internal/platform/messaging/producers"
	"github.com/settlement-reporting/internal/platform/objectstore"
	"github.com/settlement-reporting/internal/platform/persistence"
	"github.com/settlement-reporting/internal/platform/transfer"
	"github.com/settlement-reporting/internal/report_pipeline/components"
	pipelinesvc "github.com/settlement-reporting/internal/report_pipeline/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("settlement_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize the outbound delivery clients
	backupStore, err := objectstore.NewClient(appCtx, log, &cfg.Backup)
	if err != nil {
		log.Error("Failed to initialize backup object store", "error", err)
		os.Exit(1)
	}

	encoder, err := encryption.NewPGPEncoderFromFile(log, cfg.Encryption.PublicKeyPath)
	if err != nil {
		log.Error("Failed to load encryption key", "error", err)
		os.Exit(1)
	}

	sftpClient, err := transfer.NewSFTPClient(log, &cfg.Transfer, cfg.Application.IsProduction())
	if err != nil {
		log.Error("Failed to initialize transfer client", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for run outcome events
	outcomeProducer, err := producers.NewRunOutcomeProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize run outcome producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	merchantRepo := postgres.NewMerchantRepository(log, postgresDB)
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	runRepo := mongo.NewRunRepository(log, mongoDB.Database())

	// Assemble the report pipeline and its dispatcher
	orchestrator := components.NewPipeline(
		cfg,
		transactionRepo,
		merchantRepo,
		accountRepo,
		runRepo,
		backupStore,
		encoder,
		sftpClient,
		outcomeProducer,
		log,
	)
	dispatcher, err := pipelinesvc.NewDispatcher(orchestrator, &cfg.WorkerPool, log)
	if err != nil {
		log.Error("Failed to initialize run dispatcher", "error", err)
		os.Exit(1)
	}

	// Initialize gateway services
	reportService := gatewaysvc.NewReportService(log, dispatcher, runRepo)
	merchantService := gatewaysvc.NewMerchantService(log, postgresDB, merchantRepo, accountRepo)

	// Select the permission checker. Validation already rejects allow_all
	// in production, so a deployed gateway always runs the static table.
	var checker middleware.PermissionChecker = middleware.AllowAllChecker{}
	if cfg.Auth.Mode == config.AuthModeStatic {
		grants, err := cfg.Auth.ParseGrants()
		if err != nil {
			log.Error("Failed to parse authorization grants", "error", err)
			os.Exit(1)
		}
		checker = middleware.NewStaticChecker(grants)
		log.Info("Static permission checker enabled", "credentials", len(grants))
	} else {
		log.Warn("Authorization disabled, all callers are permitted")
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, checker, reportService, merchantService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first so no new runs are accepted
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Let in-flight report runs finish
	log.Info("Stopping run dispatcher", "running", dispatcher.Running())
	dispatcher.Shutdown()

	if err = outcomeProducer.Close(); err != nil {
		log.Error("Error closing run outcome producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
