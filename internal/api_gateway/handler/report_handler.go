package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/api_gateway/middleware"
	"github.com/settlement-reporting/internal/api_gateway/service"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
)

// ReportHandler handles HTTP requests for report run operations
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Run schedules a settlement report run for a (processing date, program) pair
func (h *ReportHandler) Run(c *gin.Context) {
	var req RunReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	processingDate, err := time.Parse("2006-01-02", req.ProcessingDate)
	if err != nil {
		RespondBadRequest(c, "Invalid processing date")
		return
	}

	runID, err := h.reportService.SubmitRun(
		c.Request.Context(),
		processingDate,
		settlement.ProgramSelector(req.Program),
		middleware.GetCorrelationID(c),
	)
	if err != nil {
		var unknown settlement.ErrUnknownProgram
		if errors.As(err, &unknown) {
			RespondBadRequest(c, unknown.Error())
			return
		}
		h.logger.Error("Failed to schedule report run", "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, gin.H{
		"run_id":          runID.String(),
		"processing_date": req.ProcessingDate,
		"program":         req.Program,
	})
}

// GetRun retrieves a run audit record by its ID, returns 404 if not found
func (h *ReportHandler) GetRun(c *gin.Context) {
	idParam := c.Param("id")
	runID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid run ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid run ID")
		return
	}

	record, err := h.reportService.GetRun(c.Request.Context(), runID)
	if err != nil {
		var notFound run.ErrRunNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Run not found")
			return
		}
		h.logger.Error("Failed to get run", "run_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapRunRecordToResponse(record))
}

// ListRuns retrieves the run audit records for a processing date
func (h *ReportHandler) ListRuns(c *gin.Context) {
	var params ListRunsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	processingDate, err := time.Parse("2006-01-02", params.Date)
	if err != nil {
		RespondBadRequest(c, "Invalid processing date")
		return
	}

	records, err := h.reportService.ListRuns(c.Request.Context(), processingDate, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list runs", "date", params.Date, "error", err)
		RespondInternalError(c)
		return
	}

	runs := make([]RunResponse, 0, len(records))
	for _, record := range records {
		runs = append(runs, mapRunRecordToResponse(record))
	}

	RespondWithPage(c, http.StatusOK, runs, params.Page, params.PerPage)
}

// mapRunRecordToResponse maps a run audit record to a response DTO
func mapRunRecordToResponse(record *run.Record) RunResponse {
	return RunResponse{
		RunID:          record.RunID.String(),
		ProcessingDate: record.ProcessingDate.Format("2006-01-02"),
		Program:        string(record.Program),
		ProgramID:      record.ProgramID,
		Outcome:        string(record.Outcome),
		Stage:          string(record.Stage),
		Detail:         record.Detail,
		FileName:       record.FileName,
		StartedAt:      record.StartedAt.Format(time.RFC3339),
		FinishedAt:     record.FinishedAt.Format(time.RFC3339),
	}
}
