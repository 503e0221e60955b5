package components

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/settlement-reporting/internal/domain/settlement"
	"github.com/settlement-reporting/internal/report_pipeline/service"
)

// RecordResolverImpl joins transactions to merchants and accounts in memory.
type RecordResolverImpl struct {
	logger *slog.Logger
}

// NewRecordResolver creates a resolver.
func NewRecordResolver(logger *slog.Logger) service.RecordResolver {
	return &RecordResolverImpl{logger: logger}
}

// Resolve produces one line per transaction, in the input order. When a
// merchant has several accounts the first one returned by the store wins.
// Missing merchants or accounts leave the corresponding pointer nil; the
// layout renders those as blank fields rather than dropping the line.
func (r *RecordResolverImpl) Resolve(
	transactions []settlement.TransactionRecord,
	merchants []settlement.Merchant,
	accounts []settlement.MerchantAccount,
) []settlement.ResolvedLine {
	merchantByID := make(map[string]*settlement.Merchant, len(merchants))
	for i := range merchants {
		m := &merchants[i]
		if _, ok := merchantByID[m.MerchantID]; !ok {
			merchantByID[m.MerchantID] = m
		}
	}

	accountByUID := make(map[uuid.UUID]*settlement.MerchantAccount, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		if _, ok := accountByUID[a.MerchantUID]; !ok {
			accountByUID[a.MerchantUID] = a
		}
	}

	unresolved := 0
	lines := make([]settlement.ResolvedLine, 0, len(transactions))
	for _, tx := range transactions {
		line := settlement.ResolvedLine{Transaction: tx}
		if merchant, ok := merchantByID[tx.MerchantID]; ok {
			line.Merchant = merchant
			if account, ok := accountByUID[merchant.UID]; ok {
				line.Account = account
			}
		}
		if line.Account == nil {
			unresolved++
		}
		lines = append(lines, line)
	}

	if unresolved > 0 {
		r.logger.Warn("Some transactions have no settlement account and will carry a blank account field",
			"unresolved", unresolved,
			"total", len(lines))
	}
	return lines
}
