package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/settlement-reporting/internal/domain/report"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/platform/messaging/producers"
)

// OrchestratorImpl sequences the stages of a settlement report run and
// translates every stage failure into an explicit outcome.
type OrchestratorImpl struct {
	fetcher     RecordFetcher
	resolver    RecordResolver
	builder     ReportBuilder
	serializer  LayoutSerializer
	backup      BackupSink
	encoder     SecureEncoder
	transmitter Transmitter
	runRepo     run.Repository
	publisher   producers.MessagePublisher
	programs    map[settlement.ProgramSelector]string
	companyID   string
	logger      *slog.Logger
}

// NewOrchestrator wires the pipeline stages together. The publisher may be
// nil; outcome events are best-effort and optional.
func NewOrchestrator(
	fetcher RecordFetcher,
	resolver RecordResolver,
	builder ReportBuilder,
	serializer LayoutSerializer,
	backup BackupSink,
	encoder SecureEncoder,
	transmitter Transmitter,
	runRepo run.Repository,
	publisher producers.MessagePublisher,
	programs map[settlement.ProgramSelector]string,
	companyID string,
	logger *slog.Logger,
) ReportService {
	return &OrchestratorImpl{
		fetcher:     fetcher,
		resolver:    resolver,
		builder:     builder,
		serializer:  serializer,
		backup:      backup,
		encoder:     encoder,
		transmitter: transmitter,
		runRepo:     runRepo,
		publisher:   publisher,
		programs:    programs,
		companyID:   companyID,
		logger:      logger,
	}
}

// ValidateProgram reports whether the selector maps to a configured program.
func (s *OrchestratorImpl) ValidateProgram(program settlement.ProgramSelector) error {
	if _, ok := s.programs[program]; !ok {
		return settlement.ErrUnknownProgram{Selector: program}
	}
	return nil
}

// RunReport executes one pipeline run. The returned error is non-nil only
// when the program selector is unknown; that check happens before any I/O.
// Every other failure is absorbed into the returned RunResult, logged once
// with its stage, and recorded in the run audit trail.
func (s *OrchestratorImpl) RunReport(ctx context.Context, request *RunRequest) (*RunResult, error) {
	programID, ok := s.programs[request.Program]
	if !ok {
		return nil, settlement.ErrUnknownProgram{Selector: request.Program}
	}

	logger := s.logger.With(
		"run_id", request.RunID.String(),
		"program", string(request.Program),
		"program_id", programID,
		"processing_date", request.ProcessingDate.Format("2006-01-02"),
	)
	if request.CorrelationID != "" {
		logger = logger.With("correlation_id", request.CorrelationID)
	}

	startedAt := time.Now().UTC()
	logger.Info("Starting settlement report run")

	result := s.execute(ctx, logger, request, programID)
	result.RunID = request.RunID

	s.finish(ctx, logger, request, programID, result, startedAt)
	return result, nil
}

func (s *OrchestratorImpl) execute(ctx context.Context, logger *slog.Logger, request *RunRequest, programID string) (result *RunResult) {
	// stage tracks how far the run has progressed so a panic anywhere in
	// the pipeline is attributed to the stage that was executing.
	stage := run.StageFetch
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic during report run",
				"stage", string(stage),
				"panic", r,
				"stack", string(debug.Stack()))
			result = &RunResult{
				Outcome: run.OutcomeFailed,
				Stage:   stage,
				Detail:  fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	transactions, err := s.fetcher.FetchTransactions(ctx, request.ProcessingDate, programID)
	if err != nil {
		return s.failed(logger, run.StageFetch, err)
	}
	if len(transactions) == 0 {
		logger.Info("No transactions in batch, nothing to deliver")
		return &RunResult{Outcome: run.OutcomeNoData, Stage: run.StageFetch}
	}

	stage = run.StageResolve
	merchants, accounts, err := s.fetcher.FetchReferenceData(ctx, transactions)
	if err != nil {
		return s.failed(logger, run.StageResolve, err)
	}
	lines := s.resolver.Resolve(transactions, merchants, accounts)

	stage = run.StageBuild
	generatedAt := time.Now().UTC()
	rpt, err := s.builder.Build(lines, generatedAt, programID)
	if err != nil {
		return s.failed(logger, run.StageBuild, err)
	}

	payload, err := s.serializer.Render(rpt)
	if err != nil {
		return s.failed(logger, run.StageBuild, err)
	}

	fileName := report.FileName(s.companyID, programID, generatedAt)

	// Backup is best-effort: an archive outage must not block delivery.
	stage = run.StageBackup
	if err := s.backup.Store(ctx, fileName, payload); err != nil {
		logger.Warn("Report backup failed, continuing with delivery",
			"stage", string(run.StageBackup),
			"file_name", fileName,
			"error", err)
	}

	stage = run.StageEncrypt
	ciphertext, err := s.encoder.Encode(payload, fileName)
	if err != nil {
		return s.failedWithFile(logger, run.StageEncrypt, fileName, err)
	}

	stage = run.StageTransmit
	transfer := s.transmitter.Transmit(ctx, fileName, ciphertext)
	if !transfer.Success {
		logger.Error("Settlement report run failed",
			"stage", string(run.StageTransmit),
			"file_name", fileName,
			"error", transfer.Message)
		return &RunResult{
			Outcome:  run.OutcomeFailed,
			Stage:    run.StageTransmit,
			Detail:   transfer.Message,
			FileName: fileName,
		}
	}

	logger.Info("Settlement report run completed",
		"file_name", fileName,
		"detail_count", rpt.Trailer.DetailCount,
		"total_amount", rpt.Trailer.TotalAmount)
	return &RunResult{
		Outcome:  run.OutcomeDone,
		Stage:    run.StageTransmit,
		Detail:   transfer.Message,
		FileName: fileName,
	}
}

func (s *OrchestratorImpl) failed(logger *slog.Logger, stage run.Stage, err error) *RunResult {
	return s.failedWithFile(logger, stage, "", err)
}

func (s *OrchestratorImpl) failedWithFile(logger *slog.Logger, stage run.Stage, fileName string, err error) *RunResult {
	logger.Error("Settlement report run failed",
		"stage", string(stage),
		"error", err)
	return &RunResult{
		Outcome:  run.OutcomeFailed,
		Stage:    stage,
		Detail:   err.Error(),
		FileName: fileName,
	}
}

// finish writes the audit record and publishes the outcome event. Both are
// best-effort; the run result stands regardless.
func (s *OrchestratorImpl) finish(ctx context.Context, logger *slog.Logger, request *RunRequest, programID string, result *RunResult, startedAt time.Time) {
	record := &run.Record{
		RunID:          request.RunID,
		ProcessingDate: request.ProcessingDate,
		Program:        request.Program,
		ProgramID:      programID,
		Outcome:        result.Outcome,
		Stage:          result.Stage,
		Detail:         result.Detail,
		FileName:       result.FileName,
		CorrelationID:  request.CorrelationID,
		StartedAt:      startedAt,
		FinishedAt:     time.Now().UTC(),
	}

	if err := s.runRepo.Create(ctx, record); err != nil {
		logger.Warn("Failed to persist run audit record", "error", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, record.RunID.String(), record); err != nil {
			logger.Warn("Failed to publish run outcome event", "error", err)
		}
	}
}
