package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository provides the funding transactions of a settlement
// batch in fetch order. The pipeline treats the order as authoritative:
// detail records are emitted in exactly this order.
type TransactionRepository interface {
	ListByDateAndProgram(ctx context.Context, processingDate time.Time, programID string) ([]TransactionRecord, error)
}

// MerchantRepository provides merchant reference data and supports
// onboarding of new merchants.
type MerchantRepository interface {
	ListByMerchantIDs(ctx context.Context, merchantIDs []string) ([]Merchant, error)
	Create(ctx context.Context, merchant *Merchant) error
	WithTx(tx pgx.Tx) MerchantRepository
}

// AccountRepository provides settlement accounts keyed by merchant
// surrogate key.
type AccountRepository interface {
	ListByMerchantUIDs(ctx context.Context, merchantUIDs []uuid.UUID) ([]MerchantAccount, error)
	Create(ctx context.Context, account *MerchantAccount) error
	WithTx(tx pgx.Tx) AccountRepository
}
