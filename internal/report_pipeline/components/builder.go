package components

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/settlement-reporting/internal/config"
	"github.com/settlement-reporting/internal/domain/report"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/report_pipeline/service"
	"github.com/shopspring/decimal"
)

// ErrNoDetailLines is returned when a report is requested for an empty batch.
// The orchestrator short-circuits empty batches before building, so hitting
// this means a caller skipped that check.
var ErrNoDetailLines = errors.New("cannot build a report with zero detail lines")

// ReportBuilderImpl assembles the header, detail and trailer sections.
type ReportBuilderImpl struct {
	companyCfg *config.CompanyConfig
	logger     *slog.Logger
}

// NewReportBuilder creates a builder stamped with the company identity.
func NewReportBuilder(companyCfg *config.CompanyConfig, logger *slog.Logger) service.ReportBuilder {
	return &ReportBuilderImpl{companyCfg: companyCfg, logger: logger}
}

// Build turns resolved lines into a complete report. The sequence anchor is
// the numeric reference of the first transaction in the batch and is stamped
// on every detail line. The trailer total is the exact sum of all detail
// amounts, rounded to two decimals once, at the end.
func (b *ReportBuilderImpl) Build(lines []settlement.ResolvedLine, generatedAt time.Time, programID string) (*report.Report, error) {
	if len(lines) == 0 {
		return nil, ErrNoDetailLines
	}

	reference := strings.TrimSpace(lines[0].Transaction.ReferenceNumber)
	anchor, err := strconv.ParseInt(reference, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("reference number %q of the first transaction is not a valid sequence anchor: %w", reference, err)
	}

	total := decimal.Zero
	details := make([]report.Detail, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.Transaction.Amount)
		details = append(details, report.Detail{
			RecordType:     report.RecordTypeDetail,
			CompanyID:      b.companyCfg.ID,
			ProgramID:      programID,
			AccountNumber:  line.AccountNumber(),
			Amount:         line.Transaction.Amount,
			SequenceAnchor: anchor,
		})
	}

	rpt := &report.Report{
		Header: report.Header{
			RecordType:    report.RecordTypeHeader,
			FileType:      b.companyCfg.FileTypeCode,
			LayoutVersion: b.companyCfg.LayoutVersion,
			ProgramType:   settlement.ProgramType,
			CompanyID:     b.companyCfg.ID,
			ProgramID:     programID,
			GeneratedAt:   generatedAt,
		},
		Details: details,
		Trailer: report.Trailer{
			RecordType:  report.RecordTypeTrailer,
			DetailCount: len(details),
			TotalAmount: total.StringFixed(2),
		},
	}

	b.logger.Debug("Assembled settlement report",
		"detail_count", len(details),
		"total_amount", rpt.Trailer.TotalAmount,
		"sequence_anchor", anchor)
	return rpt, nil
}
