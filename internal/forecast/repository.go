package forecast

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads sales history from closed opportunities.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const monthlyHistoryQuery = `
	SELECT to_char(date_trunc('month', closed_at), 'YYYY-MM') AS period,
	       COALESCE(SUM(value) FILTER (WHERE stage = 'won'), 0) AS revenue,
	       COUNT(*) FILTER (WHERE stage = 'won') AS deals_closed,
	       CASE WHEN COUNT(*) > 0
	            THEN COUNT(*) FILTER (WHERE stage = 'won')::float / COUNT(*)
	            ELSE 0
	       END AS conversion_rate
	FROM opportunities
	WHERE closed_at IS NOT NULL
	  AND closed_at >= date_trunc('month', now()) - make_interval(months => $1)
	GROUP BY 1
	ORDER BY 1`

// MonthlyHistory returns per-month revenue, won deal counts, and win rate
// over the trailing window, oldest first.
func (r *Repository) MonthlyHistory(ctx context.Context, months int) ([]DataPoint, error) {
	rows, err := r.pool.Query(ctx, monthlyHistoryQuery, months)
	if err != nil {
		return nil, fmt.Errorf("query monthly history: %w", err)
	}
	defer rows.Close()

	var history []DataPoint
	for rows.Next() {
		var point DataPoint
		if err := rows.Scan(&point.Period, &point.Revenue, &point.DealsClosed, &point.ConversionRate); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		history = append(history, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return history, nil
}

var _ HistorySource = (*Repository)(nil)
