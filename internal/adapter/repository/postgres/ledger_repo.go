package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teolin/gobank/internal/domain"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// ReplayBalances folds the signed movements of the transaction log per
// account and returns the accounts whose stored balance disagrees.
// Self-loop records (Deposit, New Account, Withdrawal) are single-sided:
// they appear once, as pure credit or pure debit. Transfers debit the
// sender and credit the receiver.
func (r *LedgerRepository) ReplayBalances(ctx context.Context) ([]domain.BalanceDrift, error) {
	query := `
		WITH movements AS (
			SELECT t.sender_account_num AS account_num,
			       CASE tt.name
			           WHEN 'Transfer'   THEN -t.amount
			           WHEN 'Withdrawal' THEN -t.amount
			           WHEN 'Deposit'    THEN t.amount
			           WHEN 'New Account' THEN t.amount
			           ELSE 0
			       END AS amount
			FROM transactions t
			JOIN transaction_types tt ON tt.id = t.transaction_type_id
			UNION ALL
			SELECT t.receiver_account_num, t.amount
			FROM transactions t
			JOIN transaction_types tt ON tt.id = t.transaction_type_id
			WHERE tt.name = 'Transfer'
		)
		SELECT a.account_num, a.balance, COALESCE(SUM(m.amount), 0)
		FROM accounts a
		LEFT JOIN movements m USING (account_num)
		GROUP BY a.account_num, a.balance
		HAVING a.balance <> COALESCE(SUM(m.amount), 0)
		ORDER BY a.account_num
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []domain.BalanceDrift
	for rows.Next() {
		var (
			drift    domain.BalanceDrift
			stored   pgtype.Numeric
			replayed pgtype.Numeric
		)

		if err := rows.Scan(&drift.AccountNum, &stored, &replayed); err != nil {
			return nil, err
		}

		drift.Stored = numericToDecimal(stored)
		drift.Replayed = numericToDecimal(replayed)
		drifts = append(drifts, drift)
	}

	return drifts, rows.Err()
}
