package components

import (
	"log/slog"

	"github.com/settlement-reporting/internal/config"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/platform/messaging/producers"
	"github.com/settlement-reporting/internal/report_pipeline/service"
)

// NewPipeline assembles the production pipeline: repositories behind the
// fetcher, pure resolve/build/render stages, and the platform clients
// behind backup, encryption and transfer. The publisher may be nil when
// outcome events are disabled.
func NewPipeline(
	cfg *config.Config,
	transactionRepo settlement.TransactionRepository,
	merchantRepo settlement.MerchantRepository,
	accountRepo settlement.AccountRepository,
	runRepo run.Repository,
	store ObjectStore,
	encrypter Encrypter,
	uploader Uploader,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) service.ReportService {
	programs := map[settlement.ProgramSelector]string{
		settlement.ProgramStandard: cfg.Programs.StandardID,
		settlement.ProgramSameDay:  cfg.Programs.SameDayID,
	}

	return service.NewOrchestrator(
		NewRecordFetcher(transactionRepo, merchantRepo, accountRepo, logger),
		NewRecordResolver(logger),
		NewReportBuilder(&cfg.Company, logger),
		NewLayoutSerializer(logger),
		NewBackupSink(store, logger),
		NewSecureEncoder(encrypter, logger),
		NewTransmitter(uploader, logger),
		runRepo,
		publisher,
		programs,
		cfg.Company.ID,
		logger,
	)
}
