package domain

import "github.com/shopspring/decimal"

// BalanceDrift reports an account whose stored balance no longer matches the
// replay of its transaction log. An empty result set means the ledger is
// consistent.
type BalanceDrift struct {
	AccountNum int64
	Stored     decimal.Decimal
	Replayed   decimal.Decimal
}
