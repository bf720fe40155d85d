package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// CreateTx inserts an account inside the given transaction. The account
// number is assigned by the sequence and written back into the struct.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO accounts (owner_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING account_num
	`

	return pgxTx.QueryRow(ctx, query,
		account.OwnerID,
		decimalToNumeric(account.Balance),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	).Scan(&account.AccountNum)
}

// GetByNum retrieves an account by its number.
func (r *AccountRepository) GetByNum(ctx context.Context, num int64) (*domain.Account, error) {
	query := `
		SELECT account_num, owner_id, balance, created_at, updated_at
		FROM accounts
		WHERE account_num = $1
	`

	return scanAccount(r.pool.QueryRow(ctx, query, num))
}

// GetByNumForUpdate retrieves an account with a FOR UPDATE row lock.
func (r *AccountRepository) GetByNumForUpdate(ctx context.Context, tx usecase.Transaction, num int64) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT account_num, owner_id, balance, created_at, updated_at
		FROM accounts
		WHERE account_num = $1
		FOR UPDATE
	`

	return scanAccount(pgxTx.QueryRow(ctx, query, num))
}

// GetByNumsForUpdate locks multiple accounts in ascending account order.
// Callers pass numbers pre-sorted; the ORDER BY keeps the lock acquisition
// order stable regardless.
func (r *AccountRepository) GetByNumsForUpdate(ctx context.Context, tx usecase.Transaction, nums []int64) ([]*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT account_num, owner_id, balance, created_at, updated_at
		FROM accounts
		WHERE account_num = ANY($1)
		ORDER BY account_num
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, nums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance writes the new balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, num int64, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE accounts
		SET balance = $2, updated_at = $3
		WHERE account_num = $1
	`

	_, err := pgxTx.Exec(ctx, query, num, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// ListByOwner lists accounts belonging to a user, oldest first.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Account, error) {
	query := `
		SELECT account_num, owner_id, balance, created_at, updated_at
		FROM accounts
		WHERE owner_id = $1
		ORDER BY account_num
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account, err := scanAccountRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}

	return account, err
}

func scanAccountRow(row rowScanner) (*domain.Account, error) {
	var (
		account   domain.Account
		balance   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&account.AccountNum, &account.OwnerID, &balance, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
