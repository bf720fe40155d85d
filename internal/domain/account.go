package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger account holding a balance on behalf of one user.
// Balances are mutated only through the ledger engine; the stored balance
// must always equal the replay of the account's transaction log.
type Account struct {
	AccountNum int64
	OwnerID    int64
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOwnedBy reports whether the account belongs to the given user.
func (a *Account) IsOwnedBy(userID int64) bool {
	return a.OwnerID == userID
}

// ValidateDebit checks if the account holds enough funds to be debited.
// Overdrafts are never allowed.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}
