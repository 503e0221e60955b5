package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionRecord identifies a single funding transaction belonging to a
// settlement batch. Records are immutable once fetched and are owned by the
// orchestrator for the duration of one run.
type TransactionRecord struct {
	ID              uuid.UUID       `json:"id"`
	MerchantID      string          `json:"merchant_id"`
	Amount          decimal.Decimal `json:"amount"`
	ReferenceNumber string          `json:"reference_number"` // Batch sequence anchor source
	ProcessingDate  time.Time       `json:"processing_date"`
}
