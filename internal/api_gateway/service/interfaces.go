package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/settlement-reporting/internal/domain/run"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/onboarding"
	pipelinesvc "github.com/settlement-reporting/internal/report_pipeline/service"
)

// ReportService defines the gateway operations around report runs
type ReportService interface {
	// SubmitRun validates the request and schedules a pipeline run on the
	// worker pool. Returns the run ID the caller can poll.
	// Returns settlement.ErrUnknownProgram for an unrecognized selector.
	SubmitRun(ctx context.Context, processingDate time.Time, program settlement.ProgramSelector, correlationID string) (uuid.UUID, error)

	// GetRun retrieves the audit record of a run by its ID
	// Returns run.ErrRunNotFound if no record exists yet
	GetRun(ctx context.Context, runID uuid.UUID) (*run.Record, error)

	// ListRuns retrieves the audit records for a processing date, newest first
	ListRuns(ctx context.Context, processingDate time.Time, page, perPage int) ([]*run.Record, error)
}

// MerchantService defines the gateway operations around merchant onboarding
type MerchantService interface {
	// OnboardMerchant creates a merchant and its settlement accounts in one
	// transaction. Returns the created merchant.
	OnboardMerchant(ctx context.Context, submission *onboarding.Submission) (*settlement.Merchant, error)
}

// RunDispatcher schedules report runs for asynchronous execution
type RunDispatcher interface {
	Submit(ctx context.Context, request *pipelinesvc.RunRequest) error
}

// TxRunner executes a function inside a single database transaction.
// Satisfied by *persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
