package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
	pipelinesvc "github.com/settlement-reporting/internal/report_pipeline/service"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	dispatcher RunDispatcher
	runRepo    run.Repository
	logger     *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(logger *slog.Logger, dispatcher RunDispatcher, runRepo run.Repository) ReportService {
	return &ReportServiceImpl{
		dispatcher: dispatcher,
		runRepo:    runRepo,
		logger:     logger,
	}
}

// SubmitRun schedules a pipeline run. The configuration check is synchronous
// so the caller gets an immediate rejection for an unknown program; the
// pipeline itself runs on the worker pool and reports through the audit trail.
func (s *ReportServiceImpl) SubmitRun(ctx context.Context, processingDate time.Time, program settlement.ProgramSelector, correlationID string) (uuid.UUID, error) {
	request := &pipelinesvc.RunRequest{
		RunID:          uuid.New(),
		ProcessingDate: processingDate,
		Program:        program,
		CorrelationID:  correlationID,
	}

	if err := s.dispatcher.Submit(ctx, request); err != nil {
		var unknown settlement.ErrUnknownProgram
		if errors.As(err, &unknown) {
			s.logger.Warn("Rejected run for unknown program", "program", string(program))
			return uuid.Nil, err
		}
		s.logger.Error("Failed to schedule report run",
			"program", string(program),
			"processing_date", processingDate.Format("2006-01-02"),
			"error", err)
		return uuid.Nil, err
	}

	return request.RunID, nil
}

// GetRun retrieves a run audit record by ID
func (s *ReportServiceImpl) GetRun(ctx context.Context, runID uuid.UUID) (*run.Record, error) {
	record, err := s.runRepo.GetByRunID(ctx, runID)
	if err != nil {
		var notFound run.ErrRunNotFound
		if errors.As(err, &notFound) {
			return nil, err
		}
		s.logger.Error("Failed to get run record", "run_id", runID.String(), "error", err)
		return nil, err
	}
	return record, nil
}

// ListRuns retrieves the paginated audit records for a processing date
func (s *ReportServiceImpl) ListRuns(ctx context.Context, processingDate time.Time, page, perPage int) ([]*run.Record, error) {
	offset := (page - 1) * perPage

	records, err := s.runRepo.ListByProcessingDate(ctx, processingDate, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list run records",
			"processing_date", processingDate.Format("2006-01-02"),
			"error", err)
		return nil, err
	}
	return records, nil
}
