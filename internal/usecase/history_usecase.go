package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
)

// HistoryUseCase reconstructs the transaction log relevant to a user and
// renders account snapshots. Read-only: nothing here mutates the ledger.
type HistoryUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
}

// NewHistoryUseCase creates a new HistoryUseCase.
func NewHistoryUseCase(accountRepo AccountRepository, txnRepo TransactionRepository) *HistoryUseCase {
	return &HistoryUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// TransactionHistory is the ordered transaction log for one user plus
// collection metadata.
type TransactionHistory struct {
	Transactions []*domain.TransactionDetail
	Total        int
}

// ListTransactions collects every record referencing any account owned by
// the user, newest first with id as tie-break. History is bounded by total
// transaction count; no pagination in current scope.
func (uc *HistoryUseCase) ListTransactions(ctx context.Context, userID int64) (*TransactionHistory, error) {
	details, err := uc.txnRepo.ListDetailsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(details, func(i, j int) bool {
		if details[i].CreatedAt.Equal(details[j].CreatedAt) {
			return details[i].ID > details[j].ID
		}
		return details[i].CreatedAt.After(details[j].CreatedAt)
	})

	return &TransactionHistory{
		Transactions: details,
		Total:        len(details),
	}, nil
}

// GetTransaction authorizes and fetches a single record. A nonexistent id is
// always not-found, regardless of caller; an existing record that touches
// none of the caller's accounts is a distinct authorization failure.
func (uc *HistoryUseCase) GetTransaction(ctx context.Context, callerID, txnID int64) (*domain.TransactionDetail, error) {
	detail, err := uc.txnRepo.GetDetailByID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	owned, err := uc.ownsEndpoint(ctx, callerID, &detail.Transaction)
	if err != nil {
		return nil, err
	}

	if !owned {
		return nil, domain.ErrTransactionNotVisible
	}

	return detail, nil
}

func (uc *HistoryUseCase) ownsEndpoint(ctx context.Context, callerID int64, txn *domain.Transaction) (bool, error) {
	for _, num := range []int64{txn.SenderAccountNum, txn.ReceiverAccountNum} {
		account, err := uc.accountRepo.GetByNum(ctx, num)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				continue
			}
			return false, err
		}

		if account.IsOwnedBy(callerID) {
			return true, nil
		}
	}

	return false, nil
}

// AccountSummary is a user's accounts plus aggregate metadata.
type AccountSummary struct {
	Accounts     []*domain.Account
	NumAccounts  int
	TotalBalance decimal.Decimal
}

// ListAccounts returns every account owned by the user with the aggregate
// balance summed across them. Current product scope creates exactly one
// account per registration, but this is modeled as one-to-many.
func (uc *HistoryUseCase) ListAccounts(ctx context.Context, userID int64) (*AccountSummary, error) {
	accounts, err := uc.accountRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}

	return &AccountSummary{
		Accounts:     accounts,
		NumAccounts:  len(accounts),
		TotalBalance: total,
	}, nil
}

// GetAccount returns a single account snapshot, gated on ownership.
func (uc *HistoryUseCase) GetAccount(ctx context.Context, callerID, accountNum int64) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByNum(ctx, accountNum)
	if err != nil {
		return nil, err
	}

	if !account.IsOwnedBy(callerID) {
		return nil, domain.ErrNotAccountOwner
	}

	return account, nil
}
