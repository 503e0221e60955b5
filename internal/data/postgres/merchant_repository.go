package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/platform/persistence"
)

// MerchantRepository implements settlement.MerchantRepository for PostgreSQL
type MerchantRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewMerchantRepository creates a new PostgreSQL merchant repository
func NewMerchantRepository(logger *slog.Logger, db *persistence.PostgresDB) settlement.MerchantRepository {
	return &MerchantRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing atomic onboarding
// of a merchant together with its accounts.
func (r *MerchantRepository) WithTx(tx pgx.Tx) settlement.MerchantRepository {
	return &MerchantRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// ListByMerchantIDs returns the merchants matching any of the given
// identifiers, in insertion order. Merchant identifiers are not unique; the
// resolver applies its first-match policy on top of this ordering.
func (r *MerchantRepository) ListByMerchantIDs(ctx context.Context, merchantIDs []string) ([]settlement.Merchant, error) {
	if len(merchantIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT uid, merchant_id, name
		FROM merchants
		WHERE merchant_id = ANY($1)
		ORDER BY created_at, uid
	`

	rows, err := r.querier.Query(ctx, query, merchantIDs)
	if err != nil {
		r.logger.Error("Failed to list merchants", "error", err)
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	var merchants []settlement.Merchant
	for rows.Next() {
		var m settlement.Merchant
		if err := rows.Scan(&m.UID, &m.MerchantID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed while reading merchants", "error", err)
		return nil, fmt.Errorf("failed while reading merchants: %w", err)
	}

	return merchants, nil
}

// Create stores a new merchant
func (r *MerchantRepository) Create(ctx context.Context, merchant *settlement.Merchant) error {
	query := `
		INSERT INTO merchants (uid, merchant_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := r.querier.Exec(ctx, query, merchant.UID, merchant.MerchantID, merchant.Name)
	if err != nil {
		r.logger.Error("Failed to create merchant", "merchant_id", merchant.MerchantID, "error", err)
		return fmt.Errorf("failed to create merchant: %w", err)
	}

	return nil
}
