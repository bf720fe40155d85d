package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teolin/gobank/internal/domain"
	"github.com/teolin/gobank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. The
// transactions table is append-only; this type exposes no update or delete.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// CreateTx appends a record inside the given transaction. The id is
// assigned by the sequence and written back into the struct. The movement
// kind resolves against the seeded transaction_types registry.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		INSERT INTO transactions (sender_account_num, receiver_account_num, amount, transaction_type_id, created_at)
		VALUES ($1, $2, $3, (SELECT id FROM transaction_types WHERE name = $4), $5)
		RETURNING id
	`

	err := pgxTx.QueryRow(ctx, query,
		txn.SenderAccountNum,
		txn.ReceiverAccountNum,
		decimalToNumeric(txn.Amount),
		string(txn.Kind),
		timeToPgTimestamptz(txn.CreatedAt),
	).Scan(&txn.ID)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23502" {
			// Null transaction_type_id: the kind is not in the registry.
			return domain.ErrUnknownMovementKind
		}
		return err
	}

	return nil
}

const detailSelect = `
	SELECT t.id,
	       t.sender_account_num,
	       t.receiver_account_num,
	       t.amount,
	       tt.name,
	       t.created_at,
	       su.first_name || ' ' || su.last_name,
	       ru.first_name || ' ' || ru.last_name
	FROM transactions t
	JOIN transaction_types tt ON tt.id = t.transaction_type_id
	JOIN accounts sa ON sa.account_num = t.sender_account_num
	JOIN users su ON su.id = sa.owner_id
	JOIN accounts ra ON ra.account_num = t.receiver_account_num
	JOIN users ru ON ru.id = ra.owner_id
`

// GetDetailByID fetches one record joined with both owners' display names.
func (r *TransactionRepository) GetDetailByID(ctx context.Context, id int64) (*domain.TransactionDetail, error) {
	query := detailSelect + ` WHERE t.id = $1`

	detail, err := scanDetail(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}

	return detail, err
}

// ListDetailsByOwner lists every record touching any account owned by the
// user, newest first with id as tie-break.
func (r *TransactionRepository) ListDetailsByOwner(ctx context.Context, ownerID int64) ([]*domain.TransactionDetail, error) {
	query := detailSelect + `
		WHERE sa.owner_id = $1 OR ra.owner_id = $1
		ORDER BY t.created_at DESC, t.id DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*domain.TransactionDetail
	for rows.Next() {
		detail, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, rows.Err()
}

// ListByAccount lists records referencing one account, oldest first. Used
// for replay.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountNum int64) ([]*domain.Transaction, error) {
	query := `
		SELECT t.id, t.sender_account_num, t.receiver_account_num, t.amount, tt.name, t.created_at
		FROM transactions t
		JOIN transaction_types tt ON tt.id = t.transaction_type_id
		WHERE t.sender_account_num = $1 OR t.receiver_account_num = $1
		ORDER BY t.id
	`

	rows, err := r.pool.Query(ctx, query, accountNum)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanDetail(row rowScanner) (*domain.TransactionDetail, error) {
	var (
		detail    domain.TransactionDetail
		amount    pgtype.Numeric
		kind      string
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&detail.ID,
		&detail.SenderAccountNum,
		&detail.ReceiverAccountNum,
		&amount,
		&kind,
		&createdAt,
		&detail.SenderName,
		&detail.ReceiverName,
	)
	if err != nil {
		return nil, err
	}

	detail.Amount = numericToDecimal(amount)
	detail.Kind = domain.MovementKind(kind)
	detail.CreatedAt = createdAt.Time

	return &detail, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		amount    pgtype.Numeric
		kind      string
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&txn.ID, &txn.SenderAccountNum, &txn.ReceiverAccountNum, &amount, &kind, &createdAt)
	if err != nil {
		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.Kind = domain.MovementKind(kind)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
