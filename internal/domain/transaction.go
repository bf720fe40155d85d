package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind classifies how a transaction moves value. The self-loop rule
// (sender == receiver) is explicit per kind: Genesis, Deposit and Withdrawal
// are self-loop records encoding external money in or out, while Transfer
// requires two distinct accounts.
type MovementKind string

const (
	KindGenesis    MovementKind = "New Account"
	KindDeposit    MovementKind = "Deposit"
	KindWithdrawal MovementKind = "Withdrawal"
	KindTransfer   MovementKind = "Transfer"
	KindOther      MovementKind = "Other"
)

var validKinds = map[MovementKind]bool{
	KindGenesis:    true,
	KindDeposit:    true,
	KindWithdrawal: true,
	KindTransfer:   true,
	KindOther:      true,
}

// IsValid checks if the kind belongs to the seeded type registry.
func (k MovementKind) IsValid() bool {
	return validKinds[k]
}

// SelfLoop reports whether the kind records a same-account movement.
func (k MovementKind) SelfLoop() bool {
	return k == KindGenesis || k == KindDeposit || k == KindWithdrawal
}

// ParseMovementKind resolves a transaction type name from the registry.
func ParseMovementKind(name string) (MovementKind, error) {
	k := MovementKind(name)
	if !k.IsValid() {
		return "", ErrUnknownMovementKind
	}
	return k, nil
}

// Transaction is an immutable fact describing one balance movement. The
// ledger is append-only: no update or delete path exists anywhere in the
// codebase. The id doubles as the audit order key.
type Transaction struct {
	ID                 int64
	SenderAccountNum   int64
	ReceiverAccountNum int64
	Amount             decimal.Decimal
	Kind               MovementKind
	CreatedAt          time.Time
}

// Validate enforces the per-kind shape of a record before it is written.
func (t *Transaction) Validate() error {
	if !t.Kind.IsValid() {
		return ErrUnknownMovementKind
	}

	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}

	if t.Kind.SelfLoop() {
		if t.SenderAccountNum != t.ReceiverAccountNum {
			return ErrSelfLoopRequired
		}
		return nil
	}

	if t.Kind == KindTransfer && t.SenderAccountNum == t.ReceiverAccountNum {
		return ErrSameAccount
	}

	return nil
}

// References reports whether the transaction touches the given account on
// either end.
func (t *Transaction) References(accountNum int64) bool {
	return t.SenderAccountNum == accountNum || t.ReceiverAccountNum == accountNum
}

// SignedAmountFor returns the net effect of this record on the given
// account's balance. Self-loop records are single-sided: Deposit and Genesis
// are pure credit, Withdrawal pure debit. A Transfer debits the sender and
// credits the receiver.
func (t *Transaction) SignedAmountFor(accountNum int64) decimal.Decimal {
	if !t.References(accountNum) {
		return decimal.Zero
	}

	switch t.Kind {
	case KindGenesis, KindDeposit:
		return t.Amount
	case KindWithdrawal:
		return t.Amount.Neg()
	case KindTransfer:
		if t.SenderAccountNum == accountNum {
			return t.Amount.Neg()
		}
		return t.Amount
	}

	return decimal.Zero
}

// TransactionDetail is a transaction joined with the display names of the
// account owners on both ends, the shape history views render.
type TransactionDetail struct {
	Transaction
	SenderName   string
	ReceiverName string
}
