package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/config"
	"github.com/settlement-reporting/internal/data/mongo"
	"github.com/settlement-reporting/internal/data/postgres"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/logger"
	"github.com/settlement-reporting/internal/platform/encryption"
	"github.com/settlement-reporting/internal/platform/messaging/producers"
	"github.com/settlement-reporting/internal/platform/objectstore"
	"github.com/settlement-reporting/internal/platform/persistence"
	"github.com/settlement-reporting/internal/platform/transfer"
	"github.com/settlement-reporting/internal/report_pipeline/components"
	pipelinesvc "github.com/settlement-reporting/internal/report_pipeline/service"
	"github.com/spf13/cobra"
)

// Exit codes. NO_DATA is a normal outcome for a day without settlements, so
// schedulers only alert on a non-zero exit.
const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

var (
	dateFlag    string
	programFlag string
)

func main() {
	exitCode := exitOK

	rootCmd := &cobra.Command{
		Use:           "report_runner",
		Short:         "Generate and deliver one settlement report batch",
		Long:          "Fetches the funding transactions for a (processing date, program) pair, builds the settlement report, and delivers it to the counterparty.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runReport(cmd)
			exitCode = code
			return err
		},
	}

	rootCmd.Flags().StringVar(&dateFlag, "date", time.Now().UTC().Format("2006-01-02"), "processing date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&programFlag, "program", "", "program selector (standard or sameday)")
	_ = rootCmd.MarkFlagRequired("program")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfig)
	}
	os.Exit(exitCode)
}

func runReport(cmd *cobra.Command) (int, error) {
	processingDate, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return exitConfig, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", dateFlag)
	}

	appCtx, cancelAppCtx := context.WithCancel(cmd.Context())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("report_runner")
	if err != nil {
		return exitConfig, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		return exitConfig, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer postgresDB.Close()

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		return exitConfig, fmt.Errorf("failed to initialize MongoDB: %w", err)
	}
	defer func() { _ = mongoDB.Close(context.Background()) }()

	backupStore, err := objectstore.NewClient(appCtx, log, &cfg.Backup)
	if err != nil {
		return exitConfig, fmt.Errorf("failed to initialize backup object store: %w", err)
	}

	encoder, err := encryption.NewPGPEncoderFromFile(log, cfg.Encryption.PublicKeyPath)
	if err != nil {
		return exitConfig, fmt.Errorf("failed to load encryption key: %w", err)
	}

	sftpClient, err := transfer.NewSFTPClient(log, &cfg.Transfer, cfg.Application.IsProduction())
	if err != nil {
		return exitConfig, fmt.Errorf("failed to initialize transfer client: %w", err)
	}

	outcomeProducer, err := producers.NewRunOutcomeProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		return exitConfig, fmt.Errorf("failed to initialize run outcome producer: %w", err)
	}
	defer func() { _ = outcomeProducer.Close() }()

	orchestrator := components.NewPipeline(
		cfg,
		postgres.NewTransactionRepository(log, postgresDB),
		postgres.NewMerchantRepository(log, postgresDB),
		postgres.NewAccountRepository(log, postgresDB),
		mongo.NewRunRepository(log, mongoDB.Database()),
		backupStore,
		encoder,
		sftpClient,
		outcomeProducer,
		log,
	)

	request := &pipelinesvc.RunRequest{
		RunID:          uuid.New(),
		ProcessingDate: processingDate,
		Program:        settlement.ProgramSelector(programFlag),
	}

	result, err := orchestrator.RunReport(appCtx, request)
	if err != nil {
		return exitConfig, err
	}

	switch result.Outcome {
	case run.OutcomeDone:
		log.Info("Report run finished", "outcome", string(result.Outcome), "file_name", result.FileName)
		return exitOK, nil
	case run.OutcomeNoData:
		log.Info("Report run finished", "outcome", string(result.Outcome))
		return exitOK, nil
	default:
		log.Error("Report run failed",
			"stage", string(result.Stage),
			"detail", result.Detail)
		return exitFailed, nil
	}
}
