package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/settlement-reporting/internal/config"
)

// Dispatcher runs report pipelines asynchronously on a bounded worker pool.
// The gateway accepts a run request, validates it synchronously, and hands
// the work off here so the HTTP caller does not block on SFTP round trips.
type Dispatcher struct {
	orchestrator ReportService
	pool         *ants.Pool
	logger       *slog.Logger
}

// NewDispatcher creates a dispatcher with a pool sized from configuration.
func NewDispatcher(orchestrator ReportService, cfg *config.WorkerPoolConfig, logger *slog.Logger) (*Dispatcher, error) {
	pool, err := ants.NewPool(cfg.Size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	logger.Info("Report run dispatcher started", "pool_size", cfg.Size)
	return &Dispatcher{
		orchestrator: orchestrator,
		pool:         pool,
		logger:       logger,
	}, nil
}

// Submit validates the program selector and schedules the run. The selector
// check happens here so configuration errors reach the caller; everything
// after that is reported through the run audit trail.
//
// The run executes on a context detached from the caller's so an HTTP
// request ending does not cancel a delivery in flight.
func (d *Dispatcher) Submit(ctx context.Context, request *RunRequest) error {
	if err := d.orchestrator.ValidateProgram(request.Program); err != nil {
		return err
	}

	runCtx := context.WithoutCancel(ctx)
	err := d.pool.Submit(func() {
		if _, err := d.orchestrator.RunReport(runCtx, request); err != nil {
			d.logger.Error("Dispatched report run rejected",
				"run_id", request.RunID.String(),
				"error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report run: %w", err)
	}

	d.logger.Info("Report run scheduled",
		"run_id", request.RunID.String(),
		"program", string(request.Program),
		"processing_date", request.ProcessingDate.Format("2006-01-02"))
	return nil
}

// Running returns the number of runs currently executing.
func (d *Dispatcher) Running() int {
	return d.pool.Running()
}

// Shutdown releases the pool. Queued tasks that have not started are
// dropped; in-flight runs finish.
func (d *Dispatcher) Shutdown() {
	d.pool.Release()
	d.logger.Info("Report run dispatcher stopped")
}
