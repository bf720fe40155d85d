package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
)

// UserRepository defines data access for users.
type UserRepository interface {
	CreateTx(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByNum(ctx context.Context, num int64) (*domain.Account, error)
	GetByNumForUpdate(ctx context.Context, tx Transaction, num int64) (*domain.Account, error)
	GetByNumsForUpdate(ctx context.Context, tx Transaction, nums []int64) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, num int64, balance decimal.Decimal, updatedAt time.Time) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Account, error)
}

// TransactionRepository defines append and read access to the transaction
// log. The log is append-only: there is deliberately no update or delete.
type TransactionRepository interface {
	CreateTx(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetDetailByID(ctx context.Context, id int64) (*domain.TransactionDetail, error)
	ListDetailsByOwner(ctx context.Context, ownerID int64) ([]*domain.TransactionDetail, error)
	ListByAccount(ctx context.Context, accountNum int64) ([]*domain.Transaction, error)
}

// LedgerRepository defines ledger-wide operations.
type LedgerRepository interface {
	// ReplayBalances recomputes every account balance from the transaction
	// log and returns the accounts whose stored balance drifts from it.
	ReplayBalances(ctx context.Context) ([]domain.BalanceDrift, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// TokenRevoker stores revoked token ids until they would have expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
