package settlement

import (
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyMerchantID    = errors.New("merchant identifier cannot be empty")
	ErrEmptyAccountNumber = errors.New("account number cannot be empty")
)

// Merchant is read-only reference data joining a funding transaction to its
// owner. The UID is the surrogate key used to locate settlement accounts.
type Merchant struct {
	UID        uuid.UUID `json:"uid"`
	MerchantID string    `json:"merchant_id"`
	Name       string    `json:"name"`
}

// MerchantAccount is the settlement account a merchant's funds are paid to.
type MerchantAccount struct {
	MerchantUID   uuid.UUID `json:"merchant_uid"`
	AccountNumber string    `json:"account_number"`
}

// NewMerchant creates a merchant with a fresh surrogate key.
func NewMerchant(merchantID, name string) (*Merchant, error) {
	if merchantID == "" {
		return nil, ErrEmptyMerchantID
	}
	return &Merchant{
		UID:        uuid.New(),
		MerchantID: merchantID,
		Name:       name,
	}, nil
}
