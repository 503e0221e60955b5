package service

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/onboarding"
)

// MerchantServiceImpl implements the MerchantService interface
type MerchantServiceImpl struct {
	db           TxRunner
	merchantRepo settlement.MerchantRepository
	accountRepo  settlement.AccountRepository
	logger       *slog.Logger
}

// NewMerchantService creates a new merchant onboarding service
func NewMerchantService(logger *slog.Logger, db TxRunner, merchantRepo settlement.MerchantRepository, accountRepo settlement.AccountRepository) MerchantService {
	return &MerchantServiceImpl{
		db:           db,
		merchantRepo: merchantRepo,
		accountRepo:  accountRepo,
		logger:       logger,
	}
}

// OnboardMerchant creates the merchant and all its settlement accounts in
// one transaction so a partially onboarded merchant can never appear in a
// report.
func (s *MerchantServiceImpl) OnboardMerchant(ctx context.Context, submission *onboarding.Submission) (*settlement.Merchant, error) {
	merchant, err := settlement.NewMerchant(submission.MerchantID, submission.MerchantName)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.merchantRepo.WithTx(tx).Create(ctx, merchant); err != nil {
			return err
		}
		accountRepo := s.accountRepo.WithTx(tx)
		for _, number := range submission.AccountNumbers {
			account := &settlement.MerchantAccount{
				MerchantUID:   merchant.UID,
				AccountNumber: number,
			}
			if err := accountRepo.Create(ctx, account); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to onboard merchant",
			"merchant_id", submission.MerchantID,
			"error", err)
		return nil, err
	}

	s.logger.Info("Merchant onboarded",
		"merchant_id", merchant.MerchantID,
		"merchant_uid", merchant.UID.String(),
		"accounts", len(submission.AccountNumbers))
	return merchant, nil
}
