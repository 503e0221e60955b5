package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/report"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
)

// RunRequest identifies one pipeline invocation: exactly one
// (processing date, program selector) pair.
type RunRequest struct {
	RunID          uuid.UUID
	ProcessingDate time.Time
	Program        settlement.ProgramSelector
	CorrelationID  string
}

// RunResult is the explicit outcome returned from the orchestrator's entry
// point. Content and delivery failures are encoded here, never raised;
// callers assert on the outcome instead of scraping logs.
type RunResult struct {
	RunID    uuid.UUID
	Outcome  run.Outcome
	Stage    run.Stage
	Detail   string
	FileName string
}

// ReportService is the unit a caller invokes once per (date, program).
type ReportService interface {
	// RunReport executes the pipeline. The returned error is non-nil only
	// for a configuration error (unknown program selector), raised before
	// any I/O occurs.
	RunReport(ctx context.Context, request *RunRequest) (*RunResult, error)
	// ValidateProgram checks the selector without starting a run.
	ValidateProgram(program settlement.ProgramSelector) error
}

// RecordFetcher loads the transaction set and the reference data needed to
// resolve it. Splitting the two lets the orchestrator short-circuit an
// empty batch before any reference lookups.
type RecordFetcher interface {
	FetchTransactions(ctx context.Context, processingDate time.Time, programID string) ([]settlement.TransactionRecord, error)
	FetchReferenceData(ctx context.Context, transactions []settlement.TransactionRecord) ([]settlement.Merchant, []settlement.MerchantAccount, error)
}

// RecordResolver joins each transaction to its owning merchant and the
// merchant's settlement account. Pure, order-preserving, never fails.
type RecordResolver interface {
	Resolve(transactions []settlement.TransactionRecord, merchants []settlement.Merchant, accounts []settlement.MerchantAccount) []settlement.ResolvedLine
}

// ReportBuilder assembles the three-part report from resolved lines.
type ReportBuilder interface {
	Build(lines []settlement.ResolvedLine, generatedAt time.Time, programID string) (*report.Report, error)
}

// LayoutSerializer renders the assembled report into the fixed byte layout
// the counterparty validates byte-for-byte.
type LayoutSerializer interface {
	Render(rpt *report.Report) ([]byte, error)
}

// BackupSink persists the rendered bytes for audit purposes. Failures are
// recovered by the orchestrator; backup is never a precondition for delivery.
type BackupSink interface {
	Store(ctx context.Context, fileName string, payload []byte) error
}

// SecureEncoder transforms rendered bytes into an encrypted payload.
// Failure here is fatal: an unencrypted file must never be transmitted.
type SecureEncoder interface {
	Encode(plaintext []byte, fileName string) ([]byte, error)
}

// TransferResult is the structured result of a delivery attempt.
type TransferResult struct {
	Success bool
	Message string
}

// Transmitter delivers the encrypted payload to the counterparty.
type Transmitter interface {
	Transmit(ctx context.Context, fileName string, payload []byte) TransferResult
}
