package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/accountsvc/internal/domain"
	"github.com/iho/accountsvc/internal/usecase"
)

const activityColumns = `id, account_id, kind, amount, currency, occurred_at, remarks`

const createActivitySQL = `
INSERT INTO account_activities (account_id, kind, amount, currency, occurred_at, remarks)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + activityColumns

// Activity ids come from the table's identity sequence; per account, commit
// order equals id order because writers hold the account row lock. Sorting by
// id descending therefore yields most-recent-first deterministically, even
// when occurred_at timestamps collide.
const listRecentActivitiesSQL = `
SELECT ` + activityColumns + `
FROM account_activities
WHERE account_id = $1
ORDER BY id DESC
LIMIT $2`

// ActivityRepository implements usecase.ActivityRepository on Postgres.
// Activities are append-only; there is no update or delete path.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// Create appends an activity inside tx.
func (r *ActivityRepository) Create(ctx context.Context, tx usecase.Transaction, activity *domain.Activity) (*domain.Activity, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx, createActivitySQL,
		activity.AccountID,
		string(activity.Kind),
		decimalToNumeric(activity.Amount),
		activity.Currency,
		timeToPgTimestamptz(activity.OccurredAt),
		activity.Remarks,
	)

	return scanActivity(row)
}

// ListRecentByAccount returns at most limit activities, most recent first.
func (r *ActivityRepository) ListRecentByAccount(ctx context.Context, accountID int64, limit int) ([]*domain.Activity, error) {
	rows, err := r.pool.Query(ctx, listRecentActivitiesSQL, accountID, int32(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*domain.Activity, 0, limit)

	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}

		activities = append(activities, activity)
	}

	return activities, rows.Err()
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var (
		activity   domain.Activity
		kind       string
		amount     pgtype.Numeric
		occurredAt pgtype.Timestamptz
	)

	err := row.Scan(
		&activity.ID,
		&activity.AccountID,
		&kind,
		&amount,
		&activity.Currency,
		&occurredAt,
		&activity.Remarks,
	)
	if err != nil {
		return nil, err
	}

	activity.Kind = domain.ActivityKind(kind)
	activity.Amount = numericToDecimal(amount)
	activity.OccurredAt = occurredAt.Time

	return &activity, nil
}
