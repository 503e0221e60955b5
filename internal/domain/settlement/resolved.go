package settlement

// ResolvedLine pairs a transaction with its (possibly absent) merchant and
// (possibly absent) settlement account. Absence of either is a valid state:
// the line is still emitted with the dependent field left blank, it is never
// treated as an error.
type ResolvedLine struct {
	Transaction TransactionRecord
	Merchant    *Merchant
	Account     *MerchantAccount
}

// AccountNumber returns the settlement account number for the line, or the
// empty string when the merchant or account could not be resolved.
func (l ResolvedLine) AccountNumber() string {
	if l.Account == nil {
		return ""
	}
	return l.Account.AccountNumber
}
