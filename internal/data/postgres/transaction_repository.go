// Package postgres provides PostgreSQL implementations of the settlement
// domain repositories. Monetary amounts are stored as NUMERIC and travel as
// text so no precision is lost between the database and the decimal type.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements settlement.TransactionRepository for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) settlement.TransactionRepository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// ListByDateAndProgram returns the funding transactions of one settlement
// batch. The ORDER BY fixes the fetch order the report preserves.
func (r *TransactionRepository) ListByDateAndProgram(ctx context.Context, processingDate time.Time, programID string) ([]settlement.TransactionRecord, error) {
	query := `
		SELECT id, merchant_id, amount::text, reference_number, processing_date
		FROM funding_transactions
		WHERE processing_date = $1 AND program_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.querier.Query(ctx, query, processingDate, programID)
	if err != nil {
		r.logger.Error("Failed to list funding transactions", "program_id", programID, "error", err)
		return nil, fmt.Errorf("failed to list funding transactions: %w", err)
	}
	defer rows.Close()

	var records []settlement.TransactionRecord
	for rows.Next() {
		var rec settlement.TransactionRecord
		var amount string
		if err := rows.Scan(&rec.ID, &rec.MerchantID, &amount, &rec.ReferenceNumber, &rec.ProcessingDate); err != nil {
			return nil, fmt.Errorf("failed to scan funding transaction: %w", err)
		}
		rec.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q for transaction %s: %w", amount, rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed while reading funding transactions", "program_id", programID, "error", err)
		return nil, fmt.Errorf("failed while reading funding transactions: %w", err)
	}

	return records, nil
}
