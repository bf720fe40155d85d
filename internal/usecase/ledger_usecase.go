package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
)

// LedgerUseCase is the ledger operations engine. Every state-changing
// operation runs as one database transaction: the balance mutation set and
// exactly one transaction record commit together or not at all. Accounts
// are locked FOR UPDATE before any balance is read, so the no-overdraft
// check and the balance write cannot interleave with a concurrent writer.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	retrier     Retrier
}

// NewLedgerUseCase creates a new LedgerUseCase. The retrier is optional;
// when nil, transient storage failures are returned to the caller.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	retrier Retrier,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		retrier:     retrier,
	}
}

// LedgerResult is the outcome of a state-changing ledger operation: the
// caller's account after the mutation and the record that was appended.
type LedgerResult struct {
	Account     *domain.Account
	Transaction *domain.Transaction
}

// OpenAccount creates an account with balance zero and its genesis record
// inside the caller's transaction. Used by user registration so that user,
// account and genesis transaction form one atomic unit. The account number
// is assigned by the insert before the genesis record references it.
func (uc *LedgerUseCase) OpenAccount(ctx context.Context, tx Transaction, ownerID int64) (*domain.Account, *domain.Transaction, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.CreateTx(ctx, tx, account); err != nil {
		return nil, nil, err
	}

	genesis := &domain.Transaction{
		SenderAccountNum:   account.AccountNum,
		ReceiverAccountNum: account.AccountNum,
		Amount:             decimal.Zero,
		Kind:               domain.KindGenesis,
		CreatedAt:          now,
	}

	if err := genesis.Validate(); err != nil {
		return nil, nil, err
	}

	if err := uc.txnRepo.CreateTx(ctx, tx, genesis); err != nil {
		return nil, nil, err
	}

	return account, genesis, nil
}

// Deposit credits an account owned by the caller and appends a self-loop
// Deposit record.
func (uc *LedgerUseCase) Deposit(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal) (*LedgerResult, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var result *LedgerResult

	err := uc.withRetry(ctx, func() error {
		var err error
		result, err = uc.selfLoopMovement(ctx, callerID, accountNum, amount, domain.KindDeposit)
		return err
	})

	return result, err
}

// Withdraw debits an account owned by the caller and appends a self-loop
// Withdrawal record. Fails with ErrInsufficientFunds on overdraft.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal) (*LedgerResult, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var result *LedgerResult

	err := uc.withRetry(ctx, func() error {
		var err error
		result, err = uc.selfLoopMovement(ctx, callerID, accountNum, amount, domain.KindWithdrawal)
		return err
	})

	return result, err
}

func (uc *LedgerUseCase) selfLoopMovement(ctx context.Context, callerID, accountNum int64, amount decimal.Decimal, kind domain.MovementKind) (*LedgerResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.accountRepo.GetByNumForUpdate(ctx, tx, accountNum)
	if err != nil {
		return nil, err
	}

	// Ownership is checked by the authorization gate before we are entered;
	// re-checked here under the row lock so no mutation can slip through.
	if !account.IsOwnedBy(callerID) {
		return nil, domain.ErrNotAccountOwner
	}

	now := time.Now().UTC()

	var newBalance decimal.Decimal

	switch kind {
	case domain.KindDeposit:
		newBalance = account.ApplyCredit(amount)
	case domain.KindWithdrawal:
		if err := account.ValidateDebit(amount); err != nil {
			return nil, err
		}
		newBalance = account.ApplyDebit(amount)
	default:
		return nil, domain.ErrUnknownMovementKind
	}

	txn := &domain.Transaction{
		SenderAccountNum:   account.AccountNum,
		ReceiverAccountNum: account.AccountNum,
		Amount:             amount,
		Kind:               kind,
		CreatedAt:          now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.CreateTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.AccountNum, newBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now

	return &LedgerResult{Account: account, Transaction: txn}, nil
}

// Transfer moves amount from the caller's account to the destination
// account. Both balance writes and the single Transfer record commit in one
// unit; on any failure neither account is touched.
func (uc *LedgerUseCase) Transfer(ctx context.Context, callerID, fromNum, toNum int64, amount decimal.Decimal) (*LedgerResult, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	// Self-transfer is rejected outright; the self-loop encoding is reserved
	// for deposit, withdrawal and genesis records.
	if fromNum == toNum {
		return nil, domain.ErrSameAccount
	}

	var result *LedgerResult

	err := uc.withRetry(ctx, func() error {
		var err error
		result, err = uc.transfer(ctx, callerID, fromNum, toNum, amount)
		return err
	})

	return result, err
}

func (uc *LedgerUseCase) transfer(ctx context.Context, callerID, fromNum, toNum int64, amount decimal.Decimal) (*LedgerResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock both rows in ascending account order (deadlock prevention).
	nums := []int64{fromNum, toNum}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	accounts, err := uc.accountRepo.GetByNumsForUpdate(ctx, tx, nums)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(nums) {
		return nil, domain.ErrAccountNotFound
	}

	var from, to *domain.Account
	for _, a := range accounts {
		switch a.AccountNum {
		case fromNum:
			from = a
		case toNum:
			to = a
		}
	}

	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	if !from.IsOwnedBy(callerID) {
		return nil, domain.ErrNotAccountOwner
	}

	// Balance check against the pre-transaction balance read under the lock.
	if err := from.ValidateDebit(amount); err != nil {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		SenderAccountNum:   from.AccountNum,
		ReceiverAccountNum: to.AccountNum,
		Amount:             amount,
		Kind:               domain.KindTransfer,
		CreatedAt:          now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.CreateTx(ctx, tx, txn); err != nil {
		return nil, err
	}

	fromBalance := from.ApplyDebit(amount)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, from.AccountNum, fromBalance, now); err != nil {
		return nil, err
	}

	toBalance := to.ApplyCredit(amount)
	if err := uc.accountRepo.UpdateBalance(ctx, tx, to.AccountNum, toBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	from.Balance = fromBalance
	from.UpdatedAt = now

	// Destination is committed in the same unit but not returned.
	return &LedgerResult{Account: from, Transaction: txn}, nil
}

func (uc *LedgerUseCase) withRetry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}
