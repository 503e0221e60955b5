package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/report_pipeline/service"
)

// RecordFetcherImpl loads settlement transactions and their reference data
// from the relational store.
type RecordFetcherImpl struct {
	transactionRepo settlement.TransactionRepository
	merchantRepo    settlement.MerchantRepository
	accountRepo     settlement.AccountRepository
	logger          *slog.Logger
}

// NewRecordFetcher creates a fetcher backed by the given repositories.
func NewRecordFetcher(
	transactionRepo settlement.TransactionRepository,
	merchantRepo settlement.MerchantRepository,
	accountRepo settlement.AccountRepository,
	logger *slog.Logger,
) service.RecordFetcher {
	return &RecordFetcherImpl{
		transactionRepo: transactionRepo,
		merchantRepo:    merchantRepo,
		accountRepo:     accountRepo,
		logger:          logger,
	}
}

// FetchTransactions returns every transaction for the batch in the store's
// stable order.
func (f *RecordFetcherImpl) FetchTransactions(ctx context.Context, processingDate time.Time, programID string) ([]settlement.TransactionRecord, error) {
	transactions, err := f.transactionRepo.ListByDateAndProgram(ctx, processingDate, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	f.logger.Debug("Fetched transaction batch",
		"processing_date", processingDate.Format("2006-01-02"),
		"program_id", programID,
		"count", len(transactions))
	return transactions, nil
}

// FetchReferenceData loads the merchants referenced by the batch and the
// settlement accounts of those merchants. Transactions whose merchant or
// account is missing are not an error here; resolution decides what a gap
// means.
func (f *RecordFetcherImpl) FetchReferenceData(ctx context.Context, transactions []settlement.TransactionRecord) ([]settlement.Merchant, []settlement.MerchantAccount, error) {
	merchantIDs := distinctMerchantIDs(transactions)

	merchants, err := f.merchantRepo.ListByMerchantIDs(ctx, merchantIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch merchants: %w", err)
	}

	merchantUIDs := make([]uuid.UUID, 0, len(merchants))
	for _, m := range merchants {
		merchantUIDs = append(merchantUIDs, m.UID)
	}

	accounts, err := f.accountRepo.ListByMerchantUIDs(ctx, merchantUIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch merchant accounts: %w", err)
	}

	f.logger.Debug("Fetched reference data",
		"merchants", len(merchants),
		"accounts", len(accounts))
	return merchants, accounts, nil
}

func distinctMerchantIDs(transactions []settlement.TransactionRecord) []string {
	seen := make(map[string]struct{}, len(transactions))
	ids := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		if _, ok := seen[tx.MerchantID]; ok {
			continue
		}
		seen[tx.MerchantID] = struct{}{}
		ids = append(ids, tx.MerchantID)
	}
	return ids
}
