package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Accounts whose balance diverges from the signed sum of their activities.
// Read-committed is sufficient: the check runs against committed state only.
const listUnreconciledSQL = `
SELECT a.id
FROM accounts a
LEFT JOIN (
    SELECT account_id,
           SUM(CASE WHEN kind = 'DEPOSIT' THEN amount ELSE -amount END) AS total
    FROM account_activities
    GROUP BY account_id
) t ON t.account_id = a.id
WHERE a.balance <> COALESCE(t.total, 0)
ORDER BY a.id`

// LedgerRepository implements usecase.LedgerRepository on Postgres.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// ListUnreconciled returns ids of accounts that fail reconciliation.
func (r *LedgerRepository) ListUnreconciled(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, listUnreconciledSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
