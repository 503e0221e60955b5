package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/platform/persistence"
)

// AccountRepository implements settlement.AccountRepository for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL settlement account repository
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) settlement.AccountRepository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *AccountRepository) WithTx(tx pgx.Tx) settlement.AccountRepository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// ListByMerchantUIDs returns the settlement accounts owned by any of the
// given merchants, in insertion order.
func (r *AccountRepository) ListByMerchantUIDs(ctx context.Context, merchantUIDs []uuid.UUID) ([]settlement.MerchantAccount, error) {
	if len(merchantUIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT merchant_uid, account_number
		FROM merchant_accounts
		WHERE merchant_uid = ANY($1)
		ORDER BY created_at, account_number
	`

	rows, err := r.querier.Query(ctx, query, merchantUIDs)
	if err != nil {
		r.logger.Error("Failed to list merchant accounts", "error", err)
		return nil, fmt.Errorf("failed to list merchant accounts: %w", err)
	}
	defer rows.Close()

	var accounts []settlement.MerchantAccount
	for rows.Next() {
		var a settlement.MerchantAccount
		if err := rows.Scan(&a.MerchantUID, &a.AccountNumber); err != nil {
			return nil, fmt.Errorf("failed to scan merchant account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed while reading merchant accounts", "error", err)
		return nil, fmt.Errorf("failed while reading merchant accounts: %w", err)
	}

	return accounts, nil
}

// Create stores a new settlement account
func (r *AccountRepository) Create(ctx context.Context, account *settlement.MerchantAccount) error {
	if account.AccountNumber == "" {
		return settlement.ErrEmptyAccountNumber
	}

	query := `
		INSERT INTO merchant_accounts (merchant_uid, account_number, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := r.querier.Exec(ctx, query, account.MerchantUID, account.AccountNumber)
	if err != nil {
		r.logger.Error("Failed to create merchant account", "merchant_uid", account.MerchantUID.String(), "error", err)
		return fmt.Errorf("failed to create merchant account: %w", err)
	}

	return nil
}
