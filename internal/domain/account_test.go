package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
)

func TestAccount_ValidateDebit(t *testing.T) {
	account := &domain.Account{AccountNum: 1, OwnerID: 1, Balance: decimal.NewFromInt(100)}

	if err := account.ValidateDebit(decimal.NewFromInt(100)); err != nil {
		t.Errorf("debit of the full balance should pass, got %v", err)
	}

	if err := account.ValidateDebit(decimal.RequireFromString("100.01")); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestAccount_ApplyDebitCredit(t *testing.T) {
	account := &domain.Account{Balance: decimal.RequireFromString("10.50")}

	if got := account.ApplyCredit(decimal.RequireFromString("0.25")); !got.Equal(decimal.RequireFromString("10.75")) {
		t.Errorf("ApplyCredit = %s", got)
	}

	if got := account.ApplyDebit(decimal.RequireFromString("10.50")); !got.IsZero() {
		t.Errorf("ApplyDebit = %s", got)
	}
}

func TestAccount_IsOwnedBy(t *testing.T) {
	account := &domain.Account{AccountNum: 7, OwnerID: 42}

	if !account.IsOwnedBy(42) {
		t.Error("owner should own the account")
	}
	if account.IsOwnedBy(43) {
		t.Error("non-owner should not own the account")
	}
}
