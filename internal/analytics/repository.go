package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardStats holds the headline numbers for the dashboard.
type DashboardStats struct {
	TotalCustomers int     `json:"total_customers"`
	ActiveLeads    int     `json:"active_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

// LeadSummary is a compact customer view for dashboards and feeds.
type LeadSummary struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Status    string    `json:"status"`
	LeadScore float64   `json:"lead_score"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionSummary is a recent interaction joined with its customer.
type InteractionSummary struct {
	ID           uuid.UUID `json:"id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"created_at"`
}

// SalesReport aggregates revenue and pipeline numbers.
type SalesReport struct {
	TotalRevenue      float64            `json:"total_revenue"`
	PipelineValue     float64            `json:"pipeline_value"`
	CustomersByStatus map[string]int     `json:"customers_by_status"`
	RevenueByIndustry map[string]float64 `json:"revenue_by_industry"`
}

// Store provides the aggregate queries behind dashboards and reports.
type Store interface {
	DashboardStats(ctx context.Context) (DashboardStats, error)
	TopLeads(ctx context.Context, limit int, minScore float64) ([]LeadSummary, error)
	RecentCustomers(ctx context.Context, limit int) ([]LeadSummary, error)
	RecentInteractions(ctx context.Context, limit int) ([]InteractionSummary, error)
	SalesReport(ctx context.Context) (SalesReport, error)
}

// Repository implements Store with PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var _ Store = (*Repository)(nil)

// DashboardStats computes the headline dashboard numbers in one query.
// Monthly revenue counts budgets of converted customers.
func (r *Repository) DashboardStats(ctx context.Context) (DashboardStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status IN ('lead', 'qualified', 'interested')),
		       CASE WHEN COUNT(*) > 0
		            THEN round((COUNT(*) FILTER (WHERE status = 'customer'))::numeric / COUNT(*) * 100, 1)
		            ELSE 0 END,
		       COALESCE(SUM(budget) FILTER (WHERE status = 'customer'), 0)
		FROM customers`

	var stats DashboardStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalCustomers, &stats.ActiveLeads, &stats.ConversionRate, &stats.MonthlyRevenue,
	)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// TopLeads retrieves the highest scoring customers above minScore.
func (r *Repository) TopLeads(ctx context.Context, limit int, minScore float64) ([]LeadSummary, error) {
	query := `
		SELECT id, name, company, status, lead_score, created_at
		FROM customers
		WHERE lead_score >= $2
		ORDER BY lead_score DESC
		LIMIT $1`

	return r.queryLeads(ctx, query, limit, minScore)
}

// RecentCustomers retrieves the newest customers.
func (r *Repository) RecentCustomers(ctx context.Context, limit int) ([]LeadSummary, error) {
	query := `
		SELECT id, name, company, status, lead_score, created_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1`

	return r.queryLeads(ctx, query, limit)
}

func (r *Repository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]LeadSummary, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []LeadSummary
	for rows.Next() {
		var lead LeadSummary
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Company, &lead.Status, &lead.LeadScore, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead summary: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// RecentInteractions retrieves the latest interactions with customer names.
func (r *Repository) RecentInteractions(ctx context.Context, limit int) ([]InteractionSummary, error) {
	query := `
		SELECT i.id, i.customer_id, c.name, i.interaction_type, i.created_at
		FROM interactions i
		JOIN customers c ON c.id = i.customer_id
		ORDER BY i.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent interactions: %w", err)
	}
	defer rows.Close()

	var interactions []InteractionSummary
	for rows.Next() {
		var interaction InteractionSummary
		err := rows.Scan(
			&interaction.ID, &interaction.CustomerID, &interaction.CustomerName,
			&interaction.Type, &interaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan interaction summary: %w", err)
		}
		interactions = append(interactions, interaction)
	}
	return interactions, rows.Err()
}

// SalesReport aggregates revenue totals, open pipeline value, and
// per-status and per-industry breakdowns.
func (r *Repository) SalesReport(ctx context.Context) (SalesReport, error) {
	report := SalesReport{
		CustomersByStatus: make(map[string]int),
		RevenueByIndustry: make(map[string]float64),
	}

	totalsQuery := `
		SELECT COALESCE(SUM(budget) FILTER (WHERE status = 'customer'), 0),
		       COALESCE(SUM(budget) FILTER (WHERE status IN ('qualified', 'interested')), 0)
		FROM customers`
	if err := r.pool.QueryRow(ctx, totalsQuery).Scan(&report.TotalRevenue, &report.PipelineValue); err != nil {
		return SalesReport{}, fmt.Errorf("sales report totals: %w", err)
	}

	statusQuery := `SELECT status, COUNT(*) FROM customers GROUP BY status`
	statusRows, err := r.pool.Query(ctx, statusQuery)
	if err != nil {
		return SalesReport{}, fmt.Errorf("sales report statuses: %w", err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return SalesReport{}, fmt.Errorf("scan status count: %w", err)
		}
		report.CustomersByStatus[status] = count
	}
	if err := statusRows.Err(); err != nil {
		return SalesReport{}, err
	}

	industryQuery := `
		SELECT COALESCE(NULLIF(industry, ''), 'unknown'), COALESCE(SUM(budget), 0)
		FROM customers
		WHERE status = 'customer'
		GROUP BY 1`
	industryRows, err := r.pool.Query(ctx, industryQuery)
	if err != nil {
		return SalesReport{}, fmt.Errorf("sales report industries: %w", err)
	}
	defer industryRows.Close()
	for industryRows.Next() {
		var industry string
		var revenue float64
		if err := industryRows.Scan(&industry, &revenue); err != nil {
			return SalesReport{}, fmt.Errorf("scan industry revenue: %w", err)
		}
		report.RevenueByIndustry[industry] = revenue
	}
	return report, industryRows.Err()
}
